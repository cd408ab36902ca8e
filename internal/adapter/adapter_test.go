package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/julienschmidt/httprouter"
	"github.com/monocloud/auth-go/internal/logonce"
)

func TestClassicRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/page?code=abc&state=xyz", http.NoBody)
	r.AddCookie(&http.Cookie{Name: "session", Value: "v1"})
	req := NewClassicRequest(r)

	if got := req.Query("code"); got != "abc" {
		t.Errorf("Query(code) = %q, want %q", got, "abc")
	}
	if got := req.Route("code"); got != "abc" {
		t.Errorf("Route(code) without chi context = %q, want query fallback %q", got, "abc")
	}
	if got, err := req.Cookie("session"); err != nil || got != "v1" {
		t.Errorf("Cookie(session) = %q, %v", got, err)
	}
	if got, err := req.Cookie("missing"); err != nil || got != "" {
		t.Errorf("Cookie(missing) = %q, %v; want empty and nil error", got, err)
	}
	if got := req.Method(); got != http.MethodGet {
		t.Errorf("Method() = %q", got)
	}
}

func TestClassicResponse(t *testing.T) {
	t.Parallel()

	t.Run("redirect", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		res := NewClassicResponse(w)
		res.Redirect("https://example.com/signin", http.StatusFound)

		if w.Code != http.StatusFound {
			t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
		}
		if got := w.Header().Get("Location"); got != "https://example.com/signin" {
			t.Errorf("Location = %q", got)
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		res := NewClassicResponse(w)
		if err := res.SendJSON(map[string]string{"sub": "user-1"}, http.StatusOK); err != nil {
			t.Fatalf("SendJSON() = %v", err)
		}

		if got := w.Header().Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if got := w.Body.String(); got != "{\"sub\":\"user-1\"}\n" {
			t.Errorf("body = %q", got)
		}
	})

	t.Run("set cookie replaces same name", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		res := NewClassicResponse(w)
		if err := res.SetCookie(&http.Cookie{Name: "session", Value: "old", Path: "/"}); err != nil {
			t.Fatalf("SetCookie() = %v", err)
		}
		if err := res.SetCookie(&http.Cookie{Name: "session", Value: "new", Path: "/"}); err != nil {
			t.Fatalf("SetCookie() = %v", err)
		}

		want := []string{"session=new; Path=/"}
		if diff := cmp.Diff(want, w.Header().Values("Set-Cookie")); diff != "" {
			t.Errorf("Set-Cookie mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no cache", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		NewClassicResponse(w).SetNoCache()

		if got := w.Header().Get("Cache-Control"); got != "no-cache, no-store" {
			t.Errorf("Cache-Control = %q", got)
		}
		if got := w.Header().Get("Pragma"); got != "no-cache" {
			t.Errorf("Pragma = %q", got)
		}
	})
}

func TestEdgeRequestRouteParams(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/api/auth/signin", http.NoBody)
	req := NewEdgeRequest(r, httprouter.Params{{Key: "monocloud", Value: "signin"}})

	if got := req.Route("monocloud"); got != "signin" {
		t.Errorf("Route(monocloud) = %q, want %q", got, "signin")
	}
	if got := req.Route("missing"); got != "" {
		t.Errorf("Route(missing) = %q, want empty", got)
	}
}

func TestEdgeResponseAccumulates(t *testing.T) {
	t.Parallel()

	res := NewEdgeResponse()
	if err := res.SetCookie(&http.Cookie{Name: "session", Value: "v", Path: "/"}); err != nil {
		t.Fatalf("SetCookie() = %v", err)
	}
	res.Redirect("https://idp.example.com/authorize", http.StatusFound)

	w := httptest.NewRecorder()
	if err := res.Buffered().Flush(w); err != nil {
		t.Fatalf("Flush() = %v", err)
	}

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if got := w.Header().Get("Location"); got != "https://idp.example.com/authorize" {
		t.Errorf("Location = %q", got)
	}
	want := []string{"session=v; Path=/"}
	if diff := cmp.Diff(want, w.Header().Values("Set-Cookie")); diff != "" {
		t.Errorf("Set-Cookie mismatch (-want +got):\n%s", diff)
	}
}

func TestScope(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/page", http.NoBody)
		header := make(http.Header)
		ctx := WithScope(context.Background(), r, header)

		scope, err := ScopeFrom(ctx)
		if err != nil {
			t.Fatalf("ScopeFrom() = %v", err)
		}
		if scope.Request != r {
			t.Error("scope request mismatch")
		}
	})

	t.Run("missing scope", func(t *testing.T) {
		t.Parallel()

		_, err := ScopeFrom(context.Background())
		if err == nil {
			t.Fatal("ScopeFrom() expected error")
		}
		var scopeErr *ScopeError
		if !errors.As(err, &scopeErr) {
			t.Errorf("ScopeFrom() error = %T, want *ScopeError", err)
		}
	})
}

func TestCookieRequest(t *testing.T) {
	t.Parallel()

	t.Run("reads through the ambient scope", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/page", http.NoBody)
		r.AddCookie(&http.Cookie{Name: "session", Value: "v1"})
		ctx := WithScope(context.Background(), r, nil)

		got, err := NewCookieRequest(ctx).Cookie("session")
		if err != nil {
			t.Fatalf("Cookie() = %v", err)
		}
		if got != "v1" {
			t.Errorf("Cookie() = %q, want %q", got, "v1")
		}
	})

	t.Run("fails without scope", func(t *testing.T) {
		t.Parallel()

		if _, err := NewCookieRequest(context.Background()).Cookie("session"); err == nil {
			t.Fatal("Cookie() expected error outside a request scope")
		}
	})
}

func TestCookieResponse(t *testing.T) {
	t.Parallel()

	t.Run("writes onto the scope header", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/page", http.NoBody)
		header := make(http.Header)
		ctx := WithScope(context.Background(), r, header)

		if err := NewCookieResponse(ctx).SetCookie(&http.Cookie{Name: "session", Value: "v", Path: "/"}); err != nil {
			t.Fatalf("SetCookie() = %v", err)
		}

		want := []string{"session=v; Path=/"}
		if diff := cmp.Diff(want, header.Values("Set-Cookie")); diff != "" {
			t.Errorf("Set-Cookie mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("degrades to a warning without a writable scope", func(t *testing.T) {
		logonce.Reset()
		t.Cleanup(logonce.Reset)

		err := NewCookieResponse(context.Background()).SetCookie(&http.Cookie{Name: "session", Value: "v"})
		if err != nil {
			t.Fatalf("SetCookie() = %v, want swallowed write", err)
		}
	})
}
