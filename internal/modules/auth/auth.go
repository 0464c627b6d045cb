package auth

import (
	"time"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
)

// Service issues and verifies the bearer tokens that name the principal
// invoking a call. The server only calls Authenticate; IssueToken is the
// signing half used by the external signer that shares the secret, and by
// tests that mint invoker tokens.
type Service interface {
	IssueToken(principal ledger.Address) (string, error)
	Authenticate(token string) (ledger.Address, error)
}

// Config controls token verification.
type Config struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Issuer string        `envconfig:"ISSUER" default:"bazaar-ledger"`
	TTL    time.Duration `envconfig:"TTL" default:"24h"`
}
