package monocloudauth

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"github.com/monocloud/auth-go/authcore"
	"github.com/monocloud/auth-go/internal/adapter"
	"github.com/monocloud/auth-go/internal/policy"
	"go.opentelemetry.io/otel"
)

// HeaderForwardedPath carries the originally requested path and query to
// downstream handlers, so redirects issued after the middleware can return
// the user to where they started.
const HeaderForwardedPath = "x-monocloud-path"

// ProtectedRoute marks a set of paths as requiring authentication, optionally
// restricted to group members. A nil Groups slice admits any authenticated
// session.
type ProtectedRoute struct {
	Pattern  *regexp.Regexp
	Groups   []string
	MatchAll bool
}

// ProtectedPath is the literal-path form of a route entry: it matches the
// given path exactly. Without groups any authenticated session passes.
func ProtectedPath(path string, groups ...string) ProtectedRoute {
	route := ProtectedRoute{
		Pattern: regexp.MustCompile("^" + regexp.QuoteMeta(path) + "$"),
	}
	if len(groups) > 0 {
		route.Groups = groups
	}

	return route
}

// MiddlewareOptions configures the request gate. With neither ProtectedRoutes
// nor ProtectedRoutesFunc set, every route except the auth routes is
// protected.
type MiddlewareOptions struct {
	// ProtectedRoutes is consulted in order; the first matching entry decides.
	ProtectedRoutes []ProtectedRoute
	// ProtectedRoutesFunc supersedes ProtectedRoutes when set. Group
	// restrictions do not apply to predicate-selected routes.
	ProtectedRoutesFunc func(r *http.Request) (bool, error)
	// GroupsClaim overrides the claim consulted for group membership.
	GroupsClaim string
	// OnAccessDenied intercepts a denial before the built-in response is
	// written. Returning true marks the denial handled; returning false lets
	// the request continue to the wrapped handler. user is nil when the
	// request carried no session.
	OnAccessDenied func(w http.ResponseWriter, r *http.Request, user authcore.Claims) bool
}

// Middleware returns the request gate in the net/http middleware shape, for
// use with chi and other router stacks.
func (i *Instance) Middleware(opts MiddlewareOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return i.Handler(next, opts)
	}
}

// Handler wraps next with the request gate. Auth routes pass through
// untouched; everything else is stamped with the forwarded-path header,
// given the ambient request scope, and checked against the protection
// configuration before next runs.
func (i *Instance) Handler(next http.Handler, opts MiddlewareOptions) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Instance.Handler()")
		defer span.End()

		if i.isAuthRoute(r.URL.Path) {
			next.ServeHTTP(w, r.WithContext(ctx))

			return
		}

		r.Header.Set(HeaderForwardedPath, r.URL.RequestURI())

		ctx = adapter.WithScope(ctx, r, w.Header())
		r = r.WithContext(ctx)

		protected, route, err := protectionFor(r, opts)
		if err != nil {
			logger.Req(r).Error(err)
			_ = httpio.NewEncoder(w).ClientMessage(ctx, err)

			return
		}
		if !protected {
			next.ServeHTTP(w, r)

			return
		}

		nres := adapter.NewEdgeResponse()
		session, err := i.core.GetSession(ctx, adapter.NewClassicRequest(r), nres)
		if err != nil {
			logger.Req(r).Error(err)
			_ = httpio.NewEncoder(w).ClientMessage(ctx, err)

			return
		}

		claim := opts.GroupsClaim
		if claim == "" {
			claim = i.core.Options().GroupsClaim
		}
		outcome := policy.Evaluate(session, policy.GroupOptions{
			Groups:      route.Groups,
			GroupsClaim: claim,
			MatchAll:    route.MatchAll,
		})

		switch outcome.Decision {
		case policy.Allowed:
			nres.Buffered().ApplyHeader(w.Header())
			next.ServeHTTP(w, r.WithContext(withUser(ctx, outcome.User)))

		case policy.Unauthenticated:
			if opts.OnAccessDenied != nil {
				nres.Buffered().ApplyHeader(w.Header())
				if opts.OnAccessDenied(w, r, nil) {
					return
				}
				next.ServeHTTP(w, r)

				return
			}
			if isAPIPath(r.URL.Path) {
				i.flush(r, adapter.Merge(nres.Buffered(), denyJSON(http.StatusUnauthorized, "unauthorized")), w)

				return
			}
			nres.Buffered().ApplyHeader(w.Header())
			http.Redirect(w, r, signInURL(i.core.Options(), r.Header.Get(HeaderForwardedPath)), http.StatusTemporaryRedirect)

		case policy.Forbidden:
			if opts.OnAccessDenied != nil {
				nres.Buffered().ApplyHeader(w.Header())
				if opts.OnAccessDenied(w, r, outcome.User) {
					return
				}
				next.ServeHTTP(w, r.WithContext(withUser(ctx, outcome.User)))

				return
			}
			if isAPIPath(r.URL.Path) {
				i.flush(r, adapter.Merge(nres.Buffered(), denyJSON(http.StatusForbidden, "forbidden")), w)

				return
			}
			nres.Buffered().ApplyHeader(w.Header())
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("You are not allowed to access: " + r.URL.Path))
		}
	})
}

func (i *Instance) isAuthRoute(path string) bool {
	routes := i.core.Options().Routes
	for _, route := range []string{routes.SignIn, routes.Callback, routes.UserInfo, routes.SignOut} {
		if path == authcore.EnsureLeadingSlash(route) {
			return true
		}
	}

	return false
}

// protectionFor decides whether the request requires authentication and under
// which route entry. The predicate takes precedence; otherwise an absent
// route list protects everything.
func protectionFor(r *http.Request, opts MiddlewareOptions) (bool, ProtectedRoute, error) {
	if opts.ProtectedRoutesFunc != nil {
		protected, err := opts.ProtectedRoutesFunc(r)
		if err != nil {
			return false, ProtectedRoute{}, errors.Wrap(err, "MiddlewareOptions.ProtectedRoutesFunc()")
		}

		return protected, ProtectedRoute{}, nil
	}

	if opts.ProtectedRoutes == nil {
		return true, ProtectedRoute{}, nil
	}

	for _, route := range opts.ProtectedRoutes {
		if route.Pattern != nil && route.Pattern.MatchString(r.URL.Path) {
			return true, route, nil
		}
	}

	return false, ProtectedRoute{}, nil
}

func (i *Instance) flush(r *http.Request, b *adapter.Buffered, w http.ResponseWriter) {
	if err := b.Flush(w); err != nil {
		logger.Req(r).Error(errors.Wrap(err, "Buffered.Flush()"))
	}
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/") || path == "/api"
}

type denyBody struct {
	Message string `json:"message"`
}

// denyJSON builds the canonical JSON denial response for API surfaces.
func denyJSON(code int, message string) *adapter.Buffered {
	res := adapter.NewEdgeResponse()
	if err := res.SendJSON(denyBody{Message: message}, code); err != nil {
		res.InternalServerError()
	}

	return res.Buffered()
}
