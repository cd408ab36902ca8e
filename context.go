package monocloudauth

import (
	"context"

	"github.com/monocloud/auth-go/authcore"
)

type userCtxKey struct{}

func withUser(ctx context.Context, user authcore.Claims) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// UserFromContext returns the claims of the user admitted by the middleware
// or a protection decorator, or nil when the request did not pass through
// one.
func UserFromContext(ctx context.Context) authcore.Claims {
	user, _ := ctx.Value(userCtxKey{}).(authcore.Claims)

	return user
}
