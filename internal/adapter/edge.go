package adapter

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/errors/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/monocloud/auth-go/authcore"
)

var (
	_ authcore.Request  = &EdgeRequest{}
	_ authcore.Response = &EdgeResponse{}
)

// EdgeRequest adapts the httprouter convention, where route parameters
// arrive as an explicit argument alongside the request.
type EdgeRequest struct {
	r  *http.Request
	ps httprouter.Params
}

func NewEdgeRequest(r *http.Request, ps httprouter.Params) *EdgeRequest {
	return &EdgeRequest{r: r, ps: ps}
}

func (e *EdgeRequest) Kind() Kind { return KindEdge }

func (e *EdgeRequest) Route(name string) string {
	return e.ps.ByName(name)
}

func (e *EdgeRequest) Query(name string) string {
	return e.r.URL.Query().Get(name)
}

func (e *EdgeRequest) Cookie(name string) (string, error) {
	cookie, err := e.r.Cookie(name)
	if err != nil {
		return "", nil //nolint:nilerr // absent cookie is not an error
	}

	return cookie.Value, nil
}

func (e *EdgeRequest) Cookies() (map[string]string, error) {
	values := make(map[string]string)
	for _, cookie := range e.r.Cookies() {
		values[cookie.Name] = cookie.Value
	}

	return values, nil
}

func (e *EdgeRequest) Method() string {
	return e.r.Method
}

func (e *EdgeRequest) URL() string {
	return e.r.URL.String()
}

func (e *EdgeRequest) Body() ([]byte, error) {
	if e.r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(e.r.Body)
	if err != nil {
		return nil, errors.Wrap(err, "io.ReadAll()")
	}

	return body, nil
}

// EdgeResponse adapts the httprouter convention: mutations accumulate on a
// buffered response until materialized by the caller.
type EdgeResponse struct {
	b *Buffered
}

func NewEdgeResponse() *EdgeResponse {
	return &EdgeResponse{b: NewBuffered()}
}

func (e *EdgeResponse) Kind() Kind { return KindEdge }

// Buffered is the terminal materialize operation: it yields the accumulated
// response for merging or flushing.
func (e *EdgeResponse) Buffered() *Buffered {
	return e.b
}

func (e *EdgeResponse) SetCookie(cookie *http.Cookie) error {
	applyCookies(e.b.header, []string{cookie.String()})

	return nil
}

func (e *EdgeResponse) Redirect(url string, code int) {
	e.b.header.Set("Location", url)
	e.b.WriteHeader(code)
}

func (e *EdgeResponse) SendJSON(v any, code int) error {
	e.b.header.Set("Content-Type", "application/json")
	e.b.WriteHeader(code)
	if err := json.NewEncoder(e.b).Encode(v); err != nil {
		return errors.Wrap(err, "json.Encode()")
	}

	return nil
}

func (e *EdgeResponse) NotFound() {
	e.b.WriteHeader(http.StatusNotFound)
}

func (e *EdgeResponse) InternalServerError() {
	e.b.WriteHeader(http.StatusInternalServerError)
}

func (e *EdgeResponse) NoContent() {
	e.b.WriteHeader(http.StatusNoContent)
}

func (e *EdgeResponse) MethodNotAllowed() {
	e.b.WriteHeader(http.StatusMethodNotAllowed)
}

func (e *EdgeResponse) SetNoCache() {
	setNoCache(e.b.header)
}
