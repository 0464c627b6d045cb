package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stellar/go/strkey"
)

// Address identifies a principal on the ledger: either an account (G...) or a
// contract (C...) strkey.
type Address string

// ParseAddress validates s as an account or contract strkey.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if strkey.IsValidEd25519PublicKey(s) {
		return Address(s), nil
	}
	if _, err := strkey.Decode(strkey.VersionByteContract, s); err == nil {
		return Address(s), nil
	}
	return "", fmt.Errorf("invalid principal address %q", s)
}

func (a Address) String() string { return string(a) }

// Validate reports ErrInvalidAddress unless a is a well-formed principal.
func (a Address) Validate() error {
	if _, err := ParseAddress(string(a)); err != nil {
		return ErrInvalidAddress
	}
	return nil
}

// UnmarshalJSON validates non-empty addresses. An empty string decodes to the
// zero Address, which no call can be authorized by.
func (a *Address) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*a = ""
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
