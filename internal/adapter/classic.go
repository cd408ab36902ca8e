package adapter

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/errors/v5"
	"github.com/monocloud/auth-go/authcore"
)

var (
	_ authcore.Request  = &ClassicRequest{}
	_ authcore.Response = &ClassicResponse{}
)

// ClassicRequest adapts the net/http convention. Route parameters are
// recovered from a chi route context when one is present, falling back to
// the query string.
type ClassicRequest struct {
	r *http.Request
}

func NewClassicRequest(r *http.Request) *ClassicRequest {
	return &ClassicRequest{r: r}
}

func (c *ClassicRequest) Kind() Kind { return KindClassic }

func (c *ClassicRequest) Route(name string) string {
	if rctx := chi.RouteContext(c.r.Context()); rctx != nil {
		if v := rctx.URLParam(name); v != "" {
			return v
		}
	}

	return c.r.URL.Query().Get(name)
}

func (c *ClassicRequest) Query(name string) string {
	return c.r.URL.Query().Get(name)
}

func (c *ClassicRequest) Cookie(name string) (string, error) {
	cookie, err := c.r.Cookie(name)
	if err != nil {
		return "", nil //nolint:nilerr // absent cookie is not an error
	}

	return cookie.Value, nil
}

func (c *ClassicRequest) Cookies() (map[string]string, error) {
	values := make(map[string]string)
	for _, cookie := range c.r.Cookies() {
		values[cookie.Name] = cookie.Value
	}

	return values, nil
}

func (c *ClassicRequest) Method() string {
	return c.r.Method
}

func (c *ClassicRequest) URL() string {
	return c.r.URL.String()
}

func (c *ClassicRequest) Body() ([]byte, error) {
	if c.r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(c.r.Body)
	if err != nil {
		return nil, errors.Wrap(err, "io.ReadAll()")
	}

	return body, nil
}

// ClassicResponse adapts the net/http convention: terminal operations write
// to the underlying ResponseWriter immediately.
type ClassicResponse struct {
	w http.ResponseWriter
}

func NewClassicResponse(w http.ResponseWriter) *ClassicResponse {
	return &ClassicResponse{w: w}
}

func (c *ClassicResponse) Kind() Kind { return KindClassic }

func (c *ClassicResponse) SetCookie(cookie *http.Cookie) error {
	applyCookies(c.w.Header(), []string{cookie.String()})

	return nil
}

func (c *ClassicResponse) Redirect(url string, code int) {
	c.w.Header().Set("Location", url)
	c.w.WriteHeader(code)
}

func (c *ClassicResponse) SendJSON(v any, code int) error {
	c.w.Header().Set("Content-Type", "application/json")
	c.w.WriteHeader(code)
	if err := json.NewEncoder(c.w).Encode(v); err != nil {
		return errors.Wrap(err, "json.Encode()")
	}

	return nil
}

func (c *ClassicResponse) NotFound() {
	c.w.WriteHeader(http.StatusNotFound)
}

func (c *ClassicResponse) InternalServerError() {
	c.w.WriteHeader(http.StatusInternalServerError)
}

func (c *ClassicResponse) NoContent() {
	c.w.WriteHeader(http.StatusNoContent)
}

func (c *ClassicResponse) MethodNotAllowed() {
	c.w.WriteHeader(http.StatusMethodNotAllowed)
}

func (c *ClassicResponse) SetNoCache() {
	setNoCache(c.w.Header())
}

func setNoCache(h http.Header) {
	h.Set("Cache-Control", "no-cache, no-store")
	h.Set("Pragma", "no-cache")
}
