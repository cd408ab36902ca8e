// Package logonce suppresses repeated emissions of the same log message.
// Unlike a bare sync.Once it is resettable, so tests can assert the
// first-emission behavior deterministically.
package logonce

import "sync"

type Once struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func New() *Once {
	return &Once{seen: make(map[string]struct{})}
}

// Do runs f the first time key is observed. A race between two concurrent
// first observers runs f at most once.
func (o *Once) Do(key string, f func()) {
	o.mu.Lock()
	if _, ok := o.seen[key]; ok {
		o.mu.Unlock()

		return
	}
	if o.seen == nil {
		o.seen = make(map[string]struct{})
	}
	o.seen[key] = struct{}{}
	o.mu.Unlock()

	f()
}

// Reset forgets all observed keys.
func (o *Once) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = make(map[string]struct{})
}

var std = New()

// Do runs f the first time key is observed process-wide.
func Do(key string, f func()) {
	std.Do(key, f)
}

// Reset forgets all keys observed process-wide. Intended for tests.
func Reset() {
	std.Reset()
}
