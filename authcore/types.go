package authcore

import (
	"net/http"
	"time"
)

// Claims is the bag of user attributes sourced from the identity provider.
// Values may be primitives, arrays, or nested group-descriptor objects.
type Claims map[string]any

// Session is the server-held proof of authentication plus cached token
// material. It travels in an encrypted cookie and is rewritten through the
// CookieWriter contract whenever token material changes.
type Session struct {
	User         Claims `json:"user"`
	IDToken      string `json:"idToken,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`

	// ExpiresAt is the unix timestamp (seconds) at which the access token
	// expires. Zero means the expiry is unknown and no refresh is attempted.
	ExpiresAt int64 `json:"expiresAt,omitempty"`
}

// Expired reports whether the session's access token is past its expiry.
func (s *Session) Expired() bool {
	return s.ExpiresAt > 0 && time.Now().Unix() >= s.ExpiresAt
}

// Tokens is the token material associated with a session.
type Tokens struct {
	AccessToken  string `json:"accessToken,omitempty"`
	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresAt    int64  `json:"expiresAt,omitempty"`
}

// Routes holds the paths of the four auth endpoints served by the dispatcher.
type Routes struct {
	SignIn   string `json:"signIn"`
	Callback string `json:"callback"`
	UserInfo string `json:"userInfo"`
	SignOut  string `json:"signOut"`
}

// Options is the configuration surface the adapter layer consumes.
type Options struct {
	Routes      Routes
	AppURL      string
	GroupsClaim string
}

// SignInOptions customizes the sign-in operation. Query parameters on the
// sign-in request take precedence over these values.
type SignInOptions struct {
	// Register requests the provider's account creation prompt.
	Register bool

	// LoginHint is forwarded to the provider as login_hint.
	LoginHint string

	// Authenticator is forwarded to the provider as authenticator_hint.
	Authenticator string

	// ReturnURL is the path to land on after authentication completes.
	ReturnURL string
}

// CallbackOptions customizes the callback operation.
type CallbackOptions struct{}

// UserInfoOptions customizes the user-info operation.
type UserInfoOptions struct {
	// Refresh forces the user claims to be re-fetched from the provider's
	// userinfo endpoint even when RefreshUserInfo is disabled in config.
	Refresh bool
}

// SignOutOptions customizes the sign-out operation.
type SignOutOptions struct {
	// PostLogoutURL is the URL to land on after the provider completes the
	// logout. The post_logout_url query parameter takes precedence.
	PostLogoutURL string
}

// TokenOptions customizes token retrieval.
type TokenOptions struct {
	// ForceRefresh refreshes the access token even if it has not expired.
	ForceRefresh bool
}

// CookieReader is the read side of the cookie contract. It is the only part
// of a request the session operations need.
type CookieReader interface {
	// Cookie returns the named cookie's value, or "" when it is absent.
	Cookie(name string) (string, error)
	// Cookies returns all cookies on the request.
	Cookies() (map[string]string, error)
}

// CookieWriter is the write side of the cookie contract. Session resolution
// uses it to persist refreshed token material.
type CookieWriter interface {
	SetCookie(c *http.Cookie) error
}

// Request is the normalized view of an inbound request consumed by the auth
// operations.
type Request interface {
	CookieReader

	// Route returns the named route parameter, or "" when it is absent.
	Route(name string) string
	// Query returns the named query parameter, or "" when it is absent.
	Query(name string) string
	Method() string
	// URL returns the raw request URL, which may be relative.
	URL() string
	Body() ([]byte, error)
}

// Response is the normalized view of an outbound response. Terminal
// operations either write immediately or accumulate until materialized,
// depending on the routing convention behind the adapter.
type Response interface {
	CookieWriter

	Redirect(url string, code int)
	SendJSON(v any, code int) error
	NotFound()
	InternalServerError()
	NoContent()
	MethodNotAllowed()
	SetNoCache()
}
