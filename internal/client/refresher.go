package client

import (
	"github.com/litoralapp/litoral/internal/fetch"
	"github.com/litoralapp/litoral/internal/listing"
)

// Refresher serializes overlapping listing refreshes. Each Refresh
// takes a ticket before the request goes out; when a newer Refresh was
// issued while this one was in flight, its response is dropped so a
// slow poll can never overwrite a fresher view.
type Refresher struct {
	c       *Client
	tracker *fetch.Tracker
}

// NewRefresher wraps a client for latest-wins listing refreshes.
func NewRefresher(c *Client) *Refresher {
	return &Refresher{c: c, tracker: fetch.NewTracker()}
}

// Refresh fetches the filtered listing collection. The second return
// value is false when the response arrived stale — a newer Refresh
// superseded this one — and the caller must discard it.
func (r *Refresher) Refresh(f listing.FilterState) (*ListResponse, bool, error) {
	ticket := r.tracker.Begin()

	resp, err := r.c.ListProperties(f)
	if !r.tracker.Accept(ticket) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return resp, true, nil
}
