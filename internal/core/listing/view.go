package listing

import (
	"context"
	"sync"
)

// View drives an Accessor and the filter stage from user actions
//
// Fetches are tagged with increasing sequence numbers and a response older than
// the last applied one is dropped, so overlapping clicks cannot rewind the page
type View[T Record] struct {
	acc *Accessor[T]

	mu       sync.Mutex
	size     int
	order    Order
	filter   FilterState
	page     Page[T]
	expanded map[string]bool
	seq      uint64
	applied  uint64
	inflight int
}

// NewView returns a view positioned before its first load
func NewView[T Record](acc *Accessor[T], pageSize int, order Order) *View[T] {
	return &View[T]{
		acc:      acc,
		size:     ClampSize(pageSize),
		order:    order,
		page:     Page[T]{Number: 1, Size: ClampSize(pageSize), Order: order},
		expanded: map[string]bool{},
	}
}

// begin reserves a sequence number and snapshots the state a fetch starts from
func (v *View[T]) begin() (uint64, Page[T], int, Order) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	v.inflight++
	return v.seq, v.page, v.size, v.order
}

// finish applies p unless a newer fetch already landed; it reports whether p was applied
func (v *View[T]) finish(seq uint64, p Page[T]) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inflight--
	if seq < v.applied {
		return false
	}
	v.applied = seq
	v.page = p
	return true
}

// Load fetches the first page
func (v *View[T]) Load(ctx context.Context) bool {
	seq, _, size, order := v.begin()
	return v.finish(seq, v.acc.First(ctx, size, order))
}

// Next moves forward one page; a no-op returning false when Next is disabled
func (v *View[T]) Next(ctx context.Context) bool {
	if !v.CanNext() {
		return false
	}
	seq, cur, _, _ := v.begin()
	return v.finish(seq, v.acc.Next(ctx, cur))
}

// Previous moves back one page; disabled on page one
func (v *View[T]) Previous(ctx context.Context) bool {
	if !v.CanPrevious() {
		return false
	}
	seq, cur, _, _ := v.begin()
	return v.finish(seq, v.acc.Previous(ctx, cur))
}

// SetOrder invalidates every cursor and restarts from page one
func (v *View[T]) SetOrder(ctx context.Context, o Order) bool {
	v.mu.Lock()
	v.order = o
	v.expanded = map[string]bool{}
	v.mu.Unlock()
	return v.Load(ctx)
}

// SetFilter narrows the loaded page; nothing is fetched
func (v *View[T]) SetFilter(f FilterState) {
	v.mu.Lock()
	v.filter = f
	v.mu.Unlock()
}

// Filter returns the current filter
func (v *View[T]) Filter() FilterState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Visible is the loaded page after the filter stage
func (v *View[T]) Visible() []T {
	v.mu.Lock()
	items, f := v.page.Items, v.filter
	v.mu.Unlock()
	return Apply(items, f)
}

// Page returns the last applied page
func (v *View[T]) Page() Page[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Order returns the current order
func (v *View[T]) Order() Order {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.order
}

// CanNext is true only when the last applied fetch returned a full page
func (v *View[T]) CanNext() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page.Full && v.page.End != nil
}

// CanPrevious is false on page one
func (v *View[T]) CanPrevious() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page.Number > 1 && v.page.Start != nil
}

// InFlight counts fetches that have not returned yet
func (v *View[T]) InFlight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inflight
}

// Toggle flips an item between collapsed and expanded and returns the new state
func (v *View[T]) Toggle(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.expanded[id] {
		delete(v.expanded, id)
		return false
	}
	v.expanded[id] = true
	return true
}

// Expanded reports whether id is expanded; items start collapsed
func (v *View[T]) Expanded(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.expanded[id]
}
