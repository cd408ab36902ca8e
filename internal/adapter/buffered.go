package adapter

import (
	"bytes"
	"net/http"
	"strings"
)

var _ http.ResponseWriter = &Buffered{}

// Buffered is a response that accumulates status, headers and body in memory
// until flushed to a framework-native ResponseWriter. It doubles as the
// ResponseWriter handed to wrapped handlers so their output can be merged
// with headers accumulated during session resolution.
type Buffered struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func NewBuffered() *Buffered {
	return &Buffered{header: make(http.Header)}
}

// Header implements http.ResponseWriter.
func (b *Buffered) Header() http.Header {
	return b.header
}

// Write implements http.ResponseWriter.
func (b *Buffered) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}

	n, err := b.body.Write(p)
	if err != nil {
		return n, err //nolint:wrapcheck // bytes.Buffer never errors
	}

	return n, nil
}

// WriteHeader implements http.ResponseWriter. The first status wins,
// matching net/http semantics.
func (b *Buffered) WriteHeader(code int) {
	if b.status == 0 {
		b.status = code
	}
}

// Status returns the recorded status, or 0 when nothing terminal happened.
func (b *Buffered) Status() int {
	return b.status
}

// Body returns the accumulated body bytes.
func (b *Buffered) Body() []byte {
	return b.body.Bytes()
}

// HasContent reports whether a terminal operation was recorded.
func (b *Buffered) HasContent() bool {
	return b.status != 0 || b.body.Len() > 0
}

// ApplyHeader copies the accumulated headers onto dst. Set-Cookie values are
// deduplicated by cookie name, last write wins per name.
func (b *Buffered) ApplyHeader(dst http.Header) {
	for key, values := range b.header {
		if http.CanonicalHeaderKey(key) == "Set-Cookie" {
			continue
		}
		dst[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	applyCookies(dst, b.header.Values("Set-Cookie"))
}

// Flush materializes the buffered response onto w.
func (b *Buffered) Flush(w http.ResponseWriter) error {
	b.ApplyHeader(w.Header())

	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if b.body.Len() > 0 {
		if _, err := w.Write(b.body.Bytes()); err != nil {
			return err //nolint:wrapcheck // caller logs
		}
	}

	return nil
}

// applyCookies appends Set-Cookie values onto dst, replacing any existing
// value for the same cookie name.
func applyCookies(dst http.Header, cookies []string) {
	for _, raw := range cookies {
		name := cookieName(raw)
		existing := dst.Values("Set-Cookie")
		kept := make([]string, 0, len(existing)+1)
		for _, e := range existing {
			if cookieName(e) != name {
				kept = append(kept, e)
			}
		}
		dst.Del("Set-Cookie")
		for _, e := range append(kept, raw) {
			dst.Add("Set-Cookie", e)
		}
	}
}

func cookieName(setCookie string) string {
	setCookie = strings.TrimSpace(setCookie)
	if i := strings.IndexByte(setCookie, '='); i >= 0 {
		return setCookie[:i]
	}

	return setCookie
}
