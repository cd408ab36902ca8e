package adapter

import (
	"context"
	"net/http"

	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"github.com/monocloud/auth-go/authcore"
	"github.com/monocloud/auth-go/internal/logonce"
)

var (
	_ authcore.CookieReader = &CookieRequest{}
	_ authcore.CookieWriter = &CookieResponse{}
)

// CookieRequest is the fallback request adapter used when no explicit
// request is supplied. Cookie reads are required: failure to locate the
// ambient scope propagates to the caller.
type CookieRequest struct {
	ctx context.Context
}

func NewCookieRequest(ctx context.Context) *CookieRequest {
	return &CookieRequest{ctx: ctx}
}

func (c *CookieRequest) Kind() Kind { return KindCookieOnly }

func (c *CookieRequest) Cookie(name string) (string, error) {
	scope, err := ScopeFrom(c.ctx)
	if err != nil {
		return "", errors.Wrap(err, "adapter.ScopeFrom()")
	}

	cookie, err := scope.Request.Cookie(name)
	if err != nil {
		return "", nil //nolint:nilerr // absent cookie is not an error
	}

	return cookie.Value, nil
}

func (c *CookieRequest) Cookies() (map[string]string, error) {
	scope, err := ScopeFrom(c.ctx)
	if err != nil {
		return nil, errors.Wrap(err, "adapter.ScopeFrom()")
	}

	values := make(map[string]string)
	for _, cookie := range scope.Request.Cookies() {
		values[cookie.Name] = cookie.Value
	}

	return values, nil
}

const cookieWriteWarnKey = "cookieonly-write"

// CookieResponse is the fallback response adapter. Cookie writes are
// best-effort: some rendering contexts are read-only, so a missing or
// writer-less scope is swallowed with a one-time warning instead of
// failing the call.
type CookieResponse struct {
	ctx context.Context
}

func NewCookieResponse(ctx context.Context) *CookieResponse {
	return &CookieResponse{ctx: ctx}
}

func (c *CookieResponse) Kind() Kind { return KindCookieOnly }

func (c *CookieResponse) SetCookie(cookie *http.Cookie) error {
	scope, err := ScopeFrom(c.ctx)
	if err != nil || scope.Header == nil {
		logonce.Do(cookieWriteWarnKey, func() {
			logger.Ctx(c.ctx).Infof("cookie %q not persisted: no writable ambient response in this context", cookie.Name)
		})

		return nil
	}

	applyCookies(scope.Header, []string{cookie.String()})

	return nil
}
