package logonce

import (
	"sync"
	"testing"
)

func TestOnceDo(t *testing.T) {
	t.Parallel()

	o := &Once{}

	calls := 0
	for i := 0; i < 3; i++ {
		o.Do("key", func() { calls++ })
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	o.Do("other", func() { calls++ })
	if calls != 2 {
		t.Errorf("calls = %d, want 2 after distinct key", calls)
	}

	o.Reset()
	o.Do("key", func() { calls++ })
	if calls != 3 {
		t.Errorf("calls = %d, want 3 after reset", calls)
	}
}

func TestOnceDoConcurrent(t *testing.T) {
	t.Parallel()

	o := &Once{}

	var mu sync.Mutex
	calls := 0

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.Do("key", func() {
				mu.Lock()
				defer mu.Unlock()
				calls++
			})
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
