package ledger

import (
	"context"

	"github.com/raulk/clock"
)

// Env is the host environment a transition runs in. It supplies ledger time.
type Env struct {
	clock clock.Clock
}

// NewEnv returns an Env reading time from c.
func NewEnv(c clock.Clock) *Env {
	return &Env{clock: c}
}

// Now returns the current ledger time in unix seconds.
func (e *Env) Now() uint64 {
	return uint64(e.clock.Now().Unix())
}

type invokerKey struct{}

// WithInvoker attaches the authenticated principal of the current call.
func WithInvoker(ctx context.Context, addr Address) context.Context {
	return context.WithValue(ctx, invokerKey{}, addr)
}

// InvokerFrom returns the authenticated principal of the current call.
func InvokerFrom(ctx context.Context) (Address, bool) {
	addr, ok := ctx.Value(invokerKey{}).(Address)
	return addr, ok && addr != ""
}

// RequireAuth succeeds only if the call was authorized by addr.
func RequireAuth(ctx context.Context, addr Address) error {
	invoker, ok := InvokerFrom(ctx)
	if !ok || invoker != addr {
		return ErrAuthRequired
	}
	return nil
}
