package fetch

import "sync"

// Tracker sequences overlapping requests for the same resource so that
// a slow, older response can never overwrite a newer one. Callers take
// a ticket with Begin before starting a request and check it with
// Accept before applying the response.
type Tracker struct {
	mu     sync.Mutex
	latest uint64
}

// NewTracker creates a tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin registers a new request and returns its ticket. Any ticket
// issued earlier becomes stale immediately.
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest++
	return t.latest
}

// Accept reports whether the response for ticket may be applied. Only
// the most recently issued ticket is accepted.
func (t *Tracker) Accept(ticket uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ticket == t.latest
}
