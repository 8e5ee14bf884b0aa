// Package fetch provides best-effort parallel loading for dashboard
// pages. Each fetch produces a Result that distinguishes "empty" from
// "failed", so a page can render the sections that loaded and flag the
// ones that did not instead of failing wholesale.
package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of one fetch. Exactly one of Value or Err is
// meaningful: a nil Err with an empty Value means the source really is
// empty, while a non-nil Err means the data is unknown.
type Result[T any] struct {
	Value T
	Err   error
}

// Failed reports whether the fetch failed.
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

// Group runs independent fetches in parallel and waits for all of them.
// A failing fetch never cancels its siblings; failures are recorded in
// each fetch's Result instead.
type Group struct {
	eg  *errgroup.Group
	ctx context.Context
}

// NewGroup creates a fetch group. The context is passed to every fetch;
// limit caps concurrent fetches (0 means unlimited).
func NewGroup(ctx context.Context, limit int) *Group {
	eg := &errgroup.Group{}
	if limit > 0 {
		eg.SetLimit(limit)
	}
	return &Group{eg: eg, ctx: ctx}
}

// Go runs fn in the group and stores its outcome in dst. dst must not
// be read until Wait returns.
func Go[T any](g *Group, dst *Result[T], fn func(ctx context.Context) (T, error)) {
	g.eg.Go(func() error {
		dst.Value, dst.Err = fn(g.ctx)
		return nil
	})
}

// Wait blocks until every fetch started with Go has finished.
func (g *Group) Wait() {
	// Fetch errors live in the Results, never in the group.
	_ = g.eg.Wait()
}
