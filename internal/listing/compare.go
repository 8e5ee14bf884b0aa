package listing

import (
	"errors"
	"sync"
)

// CompareCap is the maximum number of properties in a compare list.
const CompareCap = 4

// ErrCompareFull is returned when toggling a new member into a full
// compare list. The list is left unchanged.
var ErrCompareFull = errors.New("compare list is full")

// CompareList is an ordered, capped selection of property IDs chosen
// for side-by-side comparison. It is transient per session and
// independent of the favorites set.
type CompareList struct {
	mu  sync.Mutex
	ids []int64
}

// NewCompareList creates an empty compare list.
func NewCompareList() *CompareList {
	return &CompareList{}
}

// Toggle flips membership of id. Adding a member beyond the cap fails
// with ErrCompareFull; removal always succeeds. It reports whether id
// is in the list after the call.
func (c *CompareList) Toggle(id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.ids {
		if existing == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			return false, nil
		}
	}

	if len(c.ids) >= CompareCap {
		return false, ErrCompareFull
	}

	c.ids = append(c.ids, id)
	return true, nil
}

// IDs returns the current members in insertion order.
func (c *CompareList) IDs() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]int64, len(c.ids))
	copy(out, c.ids)
	return out
}

// Contains reports whether id is in the list.
func (c *CompareList) Contains(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Clear empties the list.
func (c *CompareList) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = nil
}
