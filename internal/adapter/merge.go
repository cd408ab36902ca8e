package adapter

import "net/http"

// Merge combines an ordered sequence of buffered responses into one. The
// last response with content supplies status and body; headers are the
// union applied in order, later wins on conflicting names. Set-Cookie is
// never overwritten wholesale, only accumulated and deduplicated by cookie
// name with last write winning per name, so a cookie set during session
// resolution survives a handler that produced its own unrelated response.
func Merge(responses ...*Buffered) *Buffered {
	merged := NewBuffered()

	for _, res := range responses {
		if res == nil {
			continue
		}
		for key, values := range res.header {
			if http.CanonicalHeaderKey(key) == "Set-Cookie" {
				continue
			}
			merged.header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
		}
		applyCookies(merged.header, res.header.Values("Set-Cookie"))

		if res.HasContent() {
			merged.status = res.status
			merged.body.Reset()
			merged.body.Write(res.body.Bytes())
		}
	}

	return merged
}
