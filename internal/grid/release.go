package grid

import "sync"

// ReleaseHub broadcasts pointer-up events that happen anywhere, including
// outside the grid. Gestures subscribe while they are in progress and must
// cancel the subscription when they resolve.
type ReleaseHub struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// NewReleaseHub returns an empty hub.
func NewReleaseHub() *ReleaseHub {
	return &ReleaseHub{subs: make(map[int]func())}
}

// Subscribe registers fn for the next release. The returned cancel function
// is idempotent.
func (h *ReleaseHub) Subscribe(fn func()) (cancel func()) {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Release notifies every current subscriber and returns how many there were.
// Subscribers run outside the lock so they may cancel themselves.
func (h *ReleaseHub) Release() int {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Active returns the number of live subscriptions.
func (h *ReleaseHub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
