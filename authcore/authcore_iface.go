package authcore

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Provider is the auth core consumed by the adapter layer. Every operation
// reads and writes cookies exclusively through the abstract request/response
// contract, so any routing convention that can supply the contract can drive
// the core.
type Provider interface {
	// SignIn initiates the authorization code flow by redirecting to the
	// provider's authorization endpoint.
	SignIn(ctx context.Context, req Request, res Response, opts *SignInOptions) error

	// Callback completes the authorization code flow and establishes the
	// session cookie.
	Callback(ctx context.Context, req Request, res Response, opts *CallbackOptions) error

	// UserInfo responds with the authenticated user's claims, or 204 when
	// there is no session.
	UserInfo(ctx context.Context, req Request, res Response, opts *UserInfoOptions) error

	// SignOut clears the session and redirects through the provider's
	// end-session endpoint.
	SignOut(ctx context.Context, req Request, res Response, opts *SignOutOptions) error

	// GetSession returns the current session, refreshing expired token
	// material when possible, or nil when there is none. A refresh rewrites
	// the session cookie through res.
	GetSession(ctx context.Context, req CookieReader, res CookieWriter) (*Session, error)

	// GetTokens returns the token material of the current session. The
	// zero value is returned when there is no session.
	GetTokens(ctx context.Context, req CookieReader, res CookieWriter, opts *TokenOptions) (*Tokens, error)

	// IsAuthenticated reports whether a usable session exists.
	IsAuthenticated(ctx context.Context, req CookieReader, res CookieWriter) (bool, error)

	// Options returns the configured routes and application URL.
	Options() Options
}

// Defined for testability
type oidcProvider interface {
	Verifier(config *oidc.Config) *oidc.IDTokenVerifier
	Endpoint() oauth2.Endpoint
	UserInfo(ctx context.Context, tokenSource oauth2.TokenSource) (*oidc.UserInfo, error)
	Claims(v any) error
}

// Defined for testability
type oauthConfig interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
	TokenSource(ctx context.Context, t *oauth2.Token) oauth2.TokenSource
	ClientID() string
}

// Defined for testability
type tokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}
