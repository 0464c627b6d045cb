// Package ledgertest provides principals, clocks and invocation contexts for
// tests of ledger transitions.
package ledgertest

import (
	"context"
	"io"
	"time"

	"github.com/raulk/clock"
	"github.com/sirupsen/logrus"
	"github.com/stellar/go/keypair"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
)

// Genesis is the ledger time every mock clock starts at.
var Genesis = time.Unix(1_700_000_000, 0)

// NewAddress returns a fresh random account principal.
func NewAddress() ledger.Address {
	return ledger.Address(keypair.MustRandom().Address())
}

// NewEnv returns an Env driven by a mock clock set to Genesis.
func NewEnv() (*ledger.Env, *clock.Mock) {
	mock := clock.NewMock()
	mock.Set(Genesis)
	return ledger.NewEnv(mock), mock
}

// As returns a context in which addr authorized the call.
func As(addr ledger.Address) context.Context {
	return ledger.WithInvoker(context.Background(), addr)
}

// Logger returns a logger that discards its output.
func Logger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
