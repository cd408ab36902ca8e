package monocloudauth

import (
	"context"
	"net/http"

	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/monocloud/auth-go/authcore"
	"github.com/monocloud/auth-go/internal/adapter"
	"github.com/monocloud/auth-go/internal/policy"
	"go.opentelemetry.io/otel"
)

// ProtectAPI wraps an API handler with the authorization policy. Denied
// requests receive a JSON body; admitted requests run with the user claims
// on the request context. Cookies written while the session is resolved,
// such as a refreshed session cookie, are merged into whatever the handler
// produces.
func (i *Instance) ProtectAPI(handler http.HandlerFunc, options ...ProtectOption) http.HandlerFunc {
	opts := newProtectOptions(options)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Instance.ProtectAPI()")
		defer span.End()

		nres := adapter.NewEdgeResponse()
		session, err := i.core.GetSession(ctx, adapter.NewClassicRequest(r), nres)
		if err != nil {
			logger.Req(r).Error(err)
			_ = httpio.NewEncoder(w).ClientMessage(ctx, err)

			return
		}

		outcome := policy.Evaluate(session, opts.groupOptions(i.core.Options()))
		if outcome.Decision != policy.Allowed {
			i.denyAPI(w, r, nres.Buffered(), outcome, opts)

			return
		}

		hres := adapter.NewBuffered()
		handler(hres, r.WithContext(withUser(ctx, outcome.User)))
		i.flush(r, adapter.Merge(nres.Buffered(), hres), w)
	}
}

// ProtectAPIEdge is ProtectAPI for the httprouter convention.
func (i *Instance) ProtectAPIEdge(handler httprouter.Handle, options ...ProtectOption) httprouter.Handle {
	opts := newProtectOptions(options)

	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Instance.ProtectAPIEdge()")
		defer span.End()

		nres := adapter.NewEdgeResponse()
		session, err := i.core.GetSession(ctx, adapter.NewEdgeRequest(r, ps), nres)
		if err != nil {
			logger.Req(r).Error(err)
			_ = httpio.NewEncoder(w).ClientMessage(ctx, err)

			return
		}

		outcome := policy.Evaluate(session, opts.groupOptions(i.core.Options()))
		if outcome.Decision != policy.Allowed {
			i.denyAPI(w, r, nres.Buffered(), outcome, opts)

			return
		}

		hres := adapter.NewBuffered()
		handler(hres, r.WithContext(withUser(ctx, outcome.User)), ps)
		i.flush(r, adapter.Merge(nres.Buffered(), hres), w)
	}
}

func (i *Instance) denyAPI(w http.ResponseWriter, r *http.Request, nres *adapter.Buffered, outcome policy.Outcome, opts *protectOptions) {
	if opts.onAccessDenied != nil {
		nres.ApplyHeader(w.Header())
		opts.onAccessDenied(w, r, outcome.User)

		return
	}

	if outcome.Decision == policy.Unauthenticated {
		i.flush(r, adapter.Merge(nres, denyJSON(http.StatusUnauthorized, "unauthorized")), w)

		return
	}
	i.flush(r, adapter.Merge(nres, denyJSON(http.StatusForbidden, "forbidden")), w)
}

// ProtectPage wraps a page handler with the authorization policy. An
// unauthenticated request is redirected to sign-in with the original
// destination preserved; an authenticated request that fails the group test
// receives a plain 403.
func (i *Instance) ProtectPage(handler http.HandlerFunc, options ...ProtectOption) http.HandlerFunc {
	opts := newProtectOptions(options)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Instance.ProtectPage()")
		defer span.End()

		nres := adapter.NewEdgeResponse()
		session, err := i.core.GetSession(ctx, adapter.NewClassicRequest(r), nres)
		if err != nil {
			logger.Req(r).Error(err)
			_ = httpio.NewEncoder(w).ClientMessage(ctx, err)

			return
		}

		outcome := policy.Evaluate(session, opts.groupOptions(i.core.Options()))
		switch outcome.Decision {
		case policy.Allowed:
			hres := adapter.NewBuffered()
			handler(hres, r.WithContext(withUser(ctx, outcome.User)))
			i.flush(r, adapter.Merge(nres.Buffered(), hres), w)

		case policy.Unauthenticated:
			nres.Buffered().ApplyHeader(w.Header())
			http.Redirect(w, r, signInURL(i.core.Options(), pageReturnURL(r, opts)), http.StatusTemporaryRedirect)

		case policy.Forbidden:
			nres.Buffered().ApplyHeader(w.Header())
			if opts.onAccessDenied != nil {
				opts.onAccessDenied(w, r, outcome.User)

				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("You are not allowed to visit this page"))
		}
	}
}

// pageReturnURL resolves the post-sign-in destination: an explicit option,
// then the forwarded-path header when the request came through the
// middleware, then the request's own path.
func pageReturnURL(r *http.Request, opts *protectOptions) string {
	if opts.returnURL != "" {
		return opts.returnURL
	}
	if forwarded := r.Header.Get(HeaderForwardedPath); forwarded != "" {
		return forwarded
	}

	return r.URL.RequestURI()
}

// PageRedirect diverts a page render to another destination.
type PageRedirect struct {
	Destination string
	Permanent   bool
}

// PageResult is the declarative outcome of a data loader: either a redirect
// or a set of props, optionally extended by a deferred loader evaluated
// later in the render via Resolve.
type PageResult struct {
	Redirect      *PageRedirect
	Props         map[string]any
	DeferredProps func(ctx context.Context) (map[string]any, error)
}

// Resolve evaluates the deferred loader and folds its props into Props.
// Keys already present, the merged user key included, are not overwritten.
// A redirect result or an absent loader resolves to a no-op.
func (p *PageResult) Resolve(ctx context.Context) error {
	if p.DeferredProps == nil || p.Redirect != nil {
		return nil
	}

	deferred, err := p.DeferredProps(ctx)
	if err != nil {
		return errors.Wrap(err, "PageResult.DeferredProps()")
	}
	p.DeferredProps = nil

	if p.Props == nil {
		p.Props = make(map[string]any)
	}
	for k, v := range deferred {
		if _, ok := p.Props[k]; !ok {
			p.Props[k] = v
		}
	}

	return nil
}

// PageData runs a page data loader under the authorization policy, for
// render pipelines that consume data and redirects declaratively instead of
// writing a response. It relies on the ambient request scope, so it must be
// called within a request passing through the middleware.
//
// An unauthenticated request yields a redirect to sign-in. A forbidden one
// yields the access-denied props. An admitted one runs the loader and merges
// the user claims into its props under "user", unless the loader already set
// that key.
func (i *Instance) PageData(ctx context.Context, load func(ctx context.Context, user authcore.Claims) (*PageResult, error), options ...ProtectOption) (*PageResult, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Instance.PageData()")
	defer span.End()

	opts := newProtectOptions(options)

	session, err := i.core.GetSession(ctx, adapter.NewCookieRequest(ctx), adapter.NewCookieResponse(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "authcore.Provider.GetSession()")
	}

	outcome := policy.Evaluate(session, opts.groupOptions(i.core.Options()))
	switch outcome.Decision {
	case policy.Unauthenticated:
		return &PageResult{
			Redirect: &PageRedirect{Destination: signInURL(i.core.Options(), pageDataReturnURL(ctx, opts))},
		}, nil

	case policy.Forbidden:
		if opts.onAccessDeniedPage != nil {
			result, err := opts.onAccessDeniedPage(ctx, outcome.User)
			if err != nil {
				return nil, errors.Wrap(err, "access denied page hook")
			}
			if result != nil {
				return result, nil
			}
		}

		return &PageResult{Props: map[string]any{"accessDenied": true}}, nil
	}

	result, err := load(ctx, outcome.User)
	if err != nil {
		return nil, errors.Wrap(err, "page data loader")
	}
	if result == nil {
		result = &PageResult{}
	}
	if result.Redirect == nil {
		if result.Props == nil {
			result.Props = make(map[string]any)
		}
		if _, ok := result.Props["user"]; !ok {
			result.Props["user"] = outcome.User
		}
	}

	return result, nil
}

func pageDataReturnURL(ctx context.Context, opts *protectOptions) string {
	if opts.returnURL != "" {
		return opts.returnURL
	}
	if scope, err := adapter.ScopeFrom(ctx); err == nil {
		if forwarded := scope.Request.Header.Get(HeaderForwardedPath); forwarded != "" {
			return forwarded
		}

		return scope.Request.URL.RequestURI()
	}

	return "/"
}
