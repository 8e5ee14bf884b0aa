package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestGroupCollectsIndependentResults(t *testing.T) {
	g := NewGroup(context.Background(), 0)

	var numbers Result[[]int]
	var name Result[string]

	Go(g, &numbers, func(ctx context.Context) ([]int, error) {
		return []int{1, 2, 3}, nil
	})
	Go(g, &name, func(ctx context.Context) (string, error) {
		return "litoral", nil
	})
	g.Wait()

	if numbers.Failed() || len(numbers.Value) != 3 {
		t.Errorf("numbers = %+v", numbers)
	}
	if name.Failed() || name.Value != "litoral" {
		t.Errorf("name = %+v", name)
	}
}

func TestGroupFailureDoesNotCancelSiblings(t *testing.T) {
	g := NewGroup(context.Background(), 0)

	var fails Result[string]
	var slow Result[string]

	Go(g, &fails, func(ctx context.Context) (string, error) {
		return "", errors.New("backend down")
	})
	Go(g, &slow, func(ctx context.Context) (string, error) {
		select {
		case <-time.After(20 * time.Millisecond):
			return "made it", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	g.Wait()

	if !fails.Failed() {
		t.Error("expected first fetch to fail")
	}
	if slow.Failed() || slow.Value != "made it" {
		t.Errorf("sibling = %+v, want success despite other failure", slow)
	}
}

func TestResultDistinguishesEmptyFromFailed(t *testing.T) {
	empty := Result[[]int]{Value: nil, Err: nil}
	failed := Result[[]int]{Err: errors.New("boom")}

	if empty.Failed() {
		t.Error("empty result reported as failed")
	}
	if !failed.Failed() {
		t.Error("failed result reported as ok")
	}
}

func TestGroupHonorsLimit(t *testing.T) {
	g := NewGroup(context.Background(), 2)

	var mu sync.Mutex
	var active, peak int

	results := make([]Result[int], 8)
	for i := range results {
		Go(g, &results[i], func(ctx context.Context) (int, error) {
			mu.Lock()
			active++
			if active > peak {
				peak = active
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			return 1, nil
		})
	}
	g.Wait()

	if peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestTrackerRejectsStaleTicket(t *testing.T) {
	tr := NewTracker()

	first := tr.Begin()
	second := tr.Begin()

	// The slower, older response must be dropped.
	if tr.Accept(first) {
		t.Error("stale ticket accepted")
	}
	if !tr.Accept(second) {
		t.Error("latest ticket rejected")
	}
}

func TestTrackerLatestWinsRegardlessOfArrivalOrder(t *testing.T) {
	tr := NewTracker()

	a := tr.Begin()
	b := tr.Begin()
	c := tr.Begin()

	// Responses arrive out of order: b, c, a.
	if tr.Accept(b) {
		t.Error("accepted superseded ticket b")
	}
	if !tr.Accept(c) {
		t.Error("rejected latest ticket c")
	}
	if tr.Accept(a) {
		t.Error("accepted oldest ticket a")
	}
}

func TestTrackerConcurrentBegin(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	tickets := make([]uint64, 50)
	for i := range tickets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tickets[i] = tr.Begin()
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, ticket := range tickets {
		if tr.Accept(ticket) {
			accepted++
		}
	}
	if accepted != 1 {
		t.Errorf("accepted %d tickets, want exactly 1", accepted)
	}
}
