package monocloudauth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/errors/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/monocloud/auth-go/authcore"
	"github.com/monocloud/auth-go/internal/adapter"
	"go.opentelemetry.io/otel"
)

// Auth returns the auth-routes dispatcher for the classic net/http
// convention. It serves the configured sign-in, callback, user-info and
// sign-out routes and answers 404 for anything else.
func (i *Instance) Auth(options ...AuthOption) http.HandlerFunc {
	opts := newAuthOptions(options)

	return i.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Instance.Auth()")
		defer span.End()

		err := i.dispatch(ctx, adapter.NewClassicRequest(r), adapter.NewClassicResponse(w))
		if err != nil {
			if opts.onError != nil {
				opts.onError(w, r.WithContext(ctx), err)

				return nil
			}

			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		return nil
	})
}

// AuthEdge returns the auth-routes dispatcher for the httprouter
// convention. The accumulated response is materialized once dispatch
// completes, so cookies written before a failure are preserved even when
// the error hook takes over.
func (i *Instance) AuthEdge(options ...AuthOption) httprouter.Handle {
	opts := newAuthOptions(options)

	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Instance.AuthEdge()")
		defer span.End()

		res := adapter.NewEdgeResponse()
		err := i.dispatch(ctx, adapter.NewEdgeRequest(r, ps), res)
		if err != nil {
			if opts.onError != nil {
				res.Buffered().ApplyHeader(w.Header())
				opts.onError(w, r.WithContext(ctx), err)

				return
			}
			logger.Req(r).Error(err)
			_ = httpio.NewEncoder(res.Buffered()).ClientMessage(ctx, err)
		}

		if err := res.Buffered().Flush(w); err != nil {
			logger.Req(r).Error(errors.Wrap(err, "Buffered.Flush()"))
		}
	}
}

// Routes mounts the dispatcher on a chi router at the configured auth
// paths, for applications that compose routers rather than register a
// single handler.
func (i *Instance) Routes(options ...AuthOption) chi.Router {
	router := chi.NewRouter()
	h := i.Auth(options...)

	routes := i.core.Options().Routes
	for _, path := range []string{routes.SignIn, routes.Callback, routes.UserInfo, routes.SignOut} {
		router.Handle(authcore.EnsureLeadingSlash(path), h)
	}

	return router
}

// dispatch compares the inbound path against the configured auth routes and
// forwards to the corresponding core operation. Method whitelists are
// enforced per route; errors from the core propagate to the caller's
// convention-specific error handling.
func (i *Instance) dispatch(ctx context.Context, req authcore.Request, res authcore.Response) error {
	opts := i.core.Options()

	rawURL := req.URL()
	if !authcore.IsAbsoluteURL(rawURL) {
		rawURL = opts.AppURL + authcore.EnsureLeadingSlash(rawURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrap(err, "url.Parse()")
	}

	switch u.Path {
	case authcore.EnsureLeadingSlash(opts.Routes.SignIn):
		if req.Method() != http.MethodGet {
			res.MethodNotAllowed()

			return nil
		}
		if err := i.core.SignIn(ctx, req, res, nil); err != nil {
			return errors.Wrap(err, "authcore.Provider.SignIn()")
		}

		return nil

	case authcore.EnsureLeadingSlash(opts.Routes.Callback):
		if req.Method() != http.MethodGet && req.Method() != http.MethodPost {
			res.MethodNotAllowed()

			return nil
		}
		if err := i.core.Callback(ctx, req, res, nil); err != nil {
			return errors.Wrap(err, "authcore.Provider.Callback()")
		}

		return nil

	case authcore.EnsureLeadingSlash(opts.Routes.UserInfo):
		if req.Method() != http.MethodGet {
			res.MethodNotAllowed()

			return nil
		}
		if err := i.core.UserInfo(ctx, req, res, nil); err != nil {
			return errors.Wrap(err, "authcore.Provider.UserInfo()")
		}

		return nil

	case authcore.EnsureLeadingSlash(opts.Routes.SignOut):
		if req.Method() != http.MethodGet {
			res.MethodNotAllowed()

			return nil
		}
		if err := i.core.SignOut(ctx, req, res, nil); err != nil {
			return errors.Wrap(err, "authcore.Provider.SignOut()")
		}

		return nil

	default:
		res.NotFound()

		return nil
	}
}

// signInURL builds the sign-in redirect target carrying the post-sign-in
// destination.
func signInURL(opts authcore.Options, returnURL string) string {
	return opts.AppURL + authcore.EnsureLeadingSlash(opts.Routes.SignIn) + "?return_url=" + url.QueryEscape(returnURL)
}
