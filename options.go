package monocloudauth

import (
	"context"
	"net/http"

	"github.com/monocloud/auth-go/authcore"
	"github.com/monocloud/auth-go/internal/policy"
)

// AuthOption customizes the auth-routes dispatcher.
type AuthOption func(*authOptions)

type authOptions struct {
	onError func(w http.ResponseWriter, r *http.Request, err error)
}

func newAuthOptions(options []AuthOption) *authOptions {
	opts := &authOptions{}
	for _, opt := range options {
		opt(opts)
	}

	return opts
}

// WithOnError sets the hook invoked when a delegated auth operation fails.
// Without it, typed client errors are encoded as their HTTP status and
// anything else becomes a 500.
func WithOnError(f func(w http.ResponseWriter, r *http.Request, err error)) AuthOption {
	return func(o *authOptions) {
		o.onError = f
	}
}

// ProtectOption customizes the API and page protection decorators.
type ProtectOption func(*protectOptions)

type protectOptions struct {
	groups             []string
	groupsClaim        string
	matchAll           bool
	returnURL          string
	onAccessDenied     func(w http.ResponseWriter, r *http.Request, user authcore.Claims)
	onAccessDeniedPage func(ctx context.Context, user authcore.Claims) (*PageResult, error)
}

func newProtectOptions(options []ProtectOption) *protectOptions {
	opts := &protectOptions{}
	for _, opt := range options {
		opt(opts)
	}

	return opts
}

func (o *protectOptions) groupOptions(core authcore.Options) policy.GroupOptions {
	claim := o.groupsClaim
	if claim == "" {
		claim = core.GroupsClaim
	}

	return policy.GroupOptions{
		Groups:      o.groups,
		GroupsClaim: claim,
		MatchAll:    o.matchAll,
	}
}

// WithGroups restricts the route to members of the given groups. Calling it
// with no arguments creates an empty restriction, which no session satisfies
// under match-any semantics; leaving it uncalled means any authenticated
// session passes.
func WithGroups(groups ...string) ProtectOption {
	return func(o *protectOptions) {
		if o.groups == nil {
			o.groups = []string{}
		}
		o.groups = append(o.groups, groups...)
	}
}

// WithGroupsClaim overrides the claim consulted for group membership.
// (default: the configured groupsClaim, falling back to "groups")
func WithGroupsClaim(claim string) ProtectOption {
	return func(o *protectOptions) {
		o.groupsClaim = claim
	}
}

// WithMatchAllGroups requires membership in every requested group instead
// of at least one.
func WithMatchAllGroups() ProtectOption {
	return func(o *protectOptions) {
		o.matchAll = true
	}
}

// WithReturnURL overrides the post-sign-in destination used when an
// unauthenticated page request is redirected.
func WithReturnURL(returnURL string) ProtectOption {
	return func(o *protectOptions) {
		o.returnURL = returnURL
	}
}

// WithAccessDeniedHandler replaces the built-in deny responses. The handler
// receives the resolved user claims, or nil when the request carried no
// session.
func WithAccessDeniedHandler(f func(w http.ResponseWriter, r *http.Request, user authcore.Claims)) ProtectOption {
	return func(o *protectOptions) {
		o.onAccessDenied = f
	}
}

// WithAccessDeniedPage replaces the built-in access-denied page result for
// declarative render pipelines. Returning a nil result falls back to the
// default.
func WithAccessDeniedPage(f func(ctx context.Context, user authcore.Claims) (*PageResult, error)) ProtectOption {
	return func(o *protectOptions) {
		o.onAccessDeniedPage = f
	}
}
