package monocloudauth

import (
	"context"
	"net/http"

	"github.com/go-playground/errors/v5"
	"github.com/monocloud/auth-go/authcore"
	"github.com/monocloud/auth-go/internal/adapter"
	"github.com/monocloud/auth-go/internal/policy"
)

// GetSession returns the current session, or nil when the request carries
// none. It relies on the ambient request scope installed by the middleware;
// outside one it fails. An expired session with a refresh token is renewed
// in place, which may write a refreshed session cookie.
func (i *Instance) GetSession(ctx context.Context) (*authcore.Session, error) {
	session, err := i.core.GetSession(ctx, adapter.NewCookieRequest(ctx), adapter.NewCookieResponse(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "authcore.Provider.GetSession()")
	}

	return session, nil
}

// GetSessionFromRequest is GetSession with an explicit request and response,
// for call sites outside the middleware.
func (i *Instance) GetSessionFromRequest(w http.ResponseWriter, r *http.Request) (*authcore.Session, error) {
	session, err := i.core.GetSession(r.Context(), adapter.NewClassicRequest(r), adapter.NewClassicResponse(w))
	if err != nil {
		return nil, errors.Wrap(err, "authcore.Provider.GetSession()")
	}

	return session, nil
}

// GetTokens returns the session's tokens. Without a session the result is
// empty, not nil. It relies on the ambient request scope installed by the
// middleware.
func (i *Instance) GetTokens(ctx context.Context, options *authcore.TokenOptions) (*authcore.Tokens, error) {
	tokens, err := i.core.GetTokens(ctx, adapter.NewCookieRequest(ctx), adapter.NewCookieResponse(ctx), options)
	if err != nil {
		return nil, errors.Wrap(err, "authcore.Provider.GetTokens()")
	}

	return tokens, nil
}

// GetTokensFromRequest is GetTokens with an explicit request and response.
func (i *Instance) GetTokensFromRequest(w http.ResponseWriter, r *http.Request, options *authcore.TokenOptions) (*authcore.Tokens, error) {
	tokens, err := i.core.GetTokens(r.Context(), adapter.NewClassicRequest(r), adapter.NewClassicResponse(w), options)
	if err != nil {
		return nil, errors.Wrap(err, "authcore.Provider.GetTokens()")
	}

	return tokens, nil
}

// IsAuthenticated reports whether the request carries a usable session. It
// relies on the ambient request scope installed by the middleware.
func (i *Instance) IsAuthenticated(ctx context.Context) (bool, error) {
	ok, err := i.core.IsAuthenticated(ctx, adapter.NewCookieRequest(ctx), adapter.NewCookieResponse(ctx))
	if err != nil {
		return false, errors.Wrap(err, "authcore.Provider.IsAuthenticated()")
	}

	return ok, nil
}

// IsAuthenticatedFromRequest is IsAuthenticated with an explicit request and
// response.
func (i *Instance) IsAuthenticatedFromRequest(w http.ResponseWriter, r *http.Request) (bool, error) {
	ok, err := i.core.IsAuthenticated(r.Context(), adapter.NewClassicRequest(r), adapter.NewClassicResponse(w))
	if err != nil {
		return false, errors.Wrap(err, "authcore.Provider.IsAuthenticated()")
	}

	return ok, nil
}

// IsUserInGroup reports whether the current user belongs to the given
// groups. A nil groups slice is a caller mistake and fails before any
// session lookup rather than silently admitting everyone. Without a session
// the answer is false. It relies on the ambient request scope installed by
// the middleware.
func (i *Instance) IsUserInGroup(ctx context.Context, groups []string, options ...ProtectOption) (bool, error) {
	if groups == nil {
		return false, errors.New("IsUserInGroup requires a non-nil groups slice")
	}

	session, err := i.GetSession(ctx)
	if err != nil {
		return false, err
	}

	return i.userInGroup(session, groups, options)
}

// IsUserInGroupFromRequest is IsUserInGroup with an explicit request and
// response.
func (i *Instance) IsUserInGroupFromRequest(w http.ResponseWriter, r *http.Request, groups []string, options ...ProtectOption) (bool, error) {
	if groups == nil {
		return false, errors.New("IsUserInGroup requires a non-nil groups slice")
	}

	session, err := i.GetSessionFromRequest(w, r)
	if err != nil {
		return false, err
	}

	return i.userInGroup(session, groups, options)
}

func (i *Instance) userInGroup(session *authcore.Session, groups []string, options []ProtectOption) (bool, error) {
	if session == nil {
		return false, nil
	}

	opts := newProtectOptions(options)
	gopts := opts.groupOptions(i.core.Options())

	return policy.UserInGroups(session.User, groups, gopts.GroupsClaim, gopts.MatchAll), nil
}

// RedirectToSignIn writes a temporary redirect to the sign-in route carrying
// returnURL as the post-sign-in destination; when empty, the originally
// requested path forwarded by the middleware is used. A request that already
// carries a session is left alone. It relies on the ambient request scope
// installed by the middleware.
func (i *Instance) RedirectToSignIn(ctx context.Context, w http.ResponseWriter, returnURL string) error {
	scope, err := adapter.ScopeFrom(ctx)
	if err != nil {
		return errors.Wrap(err, "adapter.ScopeFrom()")
	}

	authenticated, err := i.IsAuthenticated(ctx)
	if err != nil {
		return err
	}
	if authenticated {
		return nil
	}

	if returnURL == "" {
		returnURL = scope.Request.Header.Get(HeaderForwardedPath)
	}

	http.Redirect(w, scope.Request, signInURL(i.core.Options(), returnURL), http.StatusTemporaryRedirect)

	return nil
}
