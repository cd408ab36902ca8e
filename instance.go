// Package monocloudauth binds the MonoCloud authentication core to Go's two
// common HTTP routing conventions: classic net/http handlers and
// httprouter-style handlers with an explicit params argument. It provides
// the auth-routes dispatcher, route protection for APIs and pages, a
// middleware gate, and session/token/group accessors, all sharing one
// authorization policy.
package monocloudauth

import (
	"context"

	"github.com/go-playground/errors/v5"
	"github.com/monocloud/auth-go/authcore"
)

const name = "github.com/monocloud/auth-go"

// Instance is the application-scoped entry point. It is constructed once at
// startup and injected wherever handlers are registered; it holds no
// per-request state.
type Instance struct {
	core authcore.Provider
}

// New discovers the issuer and returns a ready Instance. A nil cfg loads
// configuration from the environment.
func New(ctx context.Context, cfg *authcore.Config) (*Instance, error) {
	core, err := authcore.New(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "authcore.New()")
	}

	return &Instance{core: core}, nil
}

// NewWithProvider wires a custom auth core. Primarily useful for tests and
// for applications that construct the core themselves.
func NewWithProvider(core authcore.Provider) *Instance {
	return &Instance{core: core}
}
