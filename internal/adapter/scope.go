package adapter

import (
	"context"
	"fmt"
	"net/http"
)

type scopeCtxKey struct{}

// Scope is the ambient per-call request context the cookie-only adapters
// read from. The middleware installs one for every request it forwards.
// Header is the response header jar cookie writes land on; it is nil in
// read-only rendering contexts, where cookie writes degrade to a warning.
type Scope struct {
	Request *http.Request
	Header  http.Header
}

// WithScope installs the ambient request scope on ctx.
func WithScope(ctx context.Context, r *http.Request, header http.Header) context.Context {
	return context.WithValue(ctx, scopeCtxKey{}, &Scope{Request: r, Header: header})
}

// ScopeFrom recovers the ambient request scope, or a *ScopeError when the
// caller is outside a middleware-managed request.
func ScopeFrom(ctx context.Context) (*Scope, error) {
	scope, ok := ctx.Value(scopeCtxKey{}).(*Scope)
	if !ok {
		return nil, &ScopeError{Op: "ScopeFrom"}
	}

	return scope, nil
}

// ScopeError reports use of an ambient accessor outside the execution scope
// the middleware establishes.
type ScopeError struct {
	Op string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("%s: no ambient request scope; the call must run within a request passing through the middleware", e.Op)
}
