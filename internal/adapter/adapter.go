// Package adapter normalizes the routing conventions an application may use
// to invoke the auth layer into the request/response contract the auth core
// consumes. The convention is resolved exactly once at the public entry
// point; everything downstream receives a resolved adapter pair, never raw
// arguments.
package adapter

// Kind tags the routing convention a resolved adapter pair belongs to. The
// two request conventions are never mixed within a single call.
type Kind int

const (
	// KindClassic is the net/http convention: an explicit
	// ResponseWriter/Request pair, route parameters recovered from the
	// request context (chi) or the query string.
	KindClassic Kind = iota

	// KindEdge is the httprouter convention: route parameters arrive as an
	// explicit params argument and the response accumulates on a buffered
	// value until materialized.
	KindEdge

	// KindCookieOnly is the fallback used when no explicit request or
	// response is supplied; cookies are read from the ambient request scope
	// installed by the middleware.
	KindCookieOnly
)

func (k Kind) String() string {
	switch k {
	case KindClassic:
		return "classic"
	case KindEdge:
		return "edge"
	case KindCookieOnly:
		return "cookieOnly"
	default:
		return "unknown"
	}
}
