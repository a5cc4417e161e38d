package listing

import (
	"context"

	"atelier/internal/platform/logger"
)

// Observer counts served pages; direction is first, next or prev
type Observer interface {
	Page(collection, direction string)
}

// Accessor fetches pages of one collection
// source errors are logged and turned into empty pages, see Page.Err
type Accessor[T Record] struct {
	src  Source[T]
	name string
	obs  Observer
}

// Option configures an Accessor
type Option func(*options)

type options struct {
	name string
	obs  Observer
}

// WithName labels logs and metrics with the collection name
func WithName(name string) Option { return func(o *options) { o.name = name } }

// WithObserver reports every fetch to o
func WithObserver(o Observer) Option { return func(op *options) { op.obs = o } }

// NewAccessor wraps src
func NewAccessor[T Record](src Source[T], opts ...Option) *Accessor[T] {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	return &Accessor[T]{src: src, name: o.name, obs: o.obs}
}

// First fetches the first page under order
func (a *Accessor[T]) First(ctx context.Context, pageSize int, order Order) Page[T] {
	base := Page[T]{Number: 1, Size: ClampSize(pageSize), Order: order}
	return a.fetch(ctx, "first", base, Query{Order: order, Limit: base.Size})
}

// Next fetches the items strictly after the end of p
// an exhausted collection yields an empty page that keeps p's number and start
func (a *Accessor[T]) Next(ctx context.Context, p Page[T]) Page[T] {
	base := Page[T]{Number: p.Number, Size: ClampSize(p.Size), Order: p.Order, Start: p.Start}
	if p.End == nil {
		return base
	}
	end := *p.End
	q := Query{Order: p.Order, Limit: base.Size, After: &end}
	next := a.fetch(ctx, "next", base, q)
	if len(next.Items) > 0 {
		next.Number = p.Number + 1
	}
	return next
}

// Previous fetches the items strictly before the start of p
// at page one, or without a start cursor, p comes back unchanged and nothing is fetched
func (a *Accessor[T]) Previous(ctx context.Context, p Page[T]) Page[T] {
	if p.Number <= 1 || p.Start == nil {
		return p
	}
	base := Page[T]{Number: p.Number, Size: ClampSize(p.Size), Order: p.Order, Start: p.Start, End: p.End}
	start := *p.Start
	q := Query{Order: p.Order, Limit: base.Size, Before: &start}
	prev := a.fetch(ctx, "prev", base, q)
	if len(prev.Items) > 0 {
		prev.Number = p.Number - 1
	}
	return prev
}

// fetch runs q and builds the resulting page; on failure or no data it returns
// base with its items cleared, so the caller's page number survives
func (a *Accessor[T]) fetch(ctx context.Context, direction string, base Page[T], q Query) Page[T] {
	if a.obs != nil {
		a.obs.Page(a.name, direction)
	}
	items, err := a.src.Range(ctx, q)
	if err != nil {
		logger.C(ctx).Error().Err(err).
			Str("collection", a.name).
			Str("direction", direction).
			Str("order", q.Order.String()).
			Int("page", base.Number).
			Msg("list fetch failed; showing empty page")
		base.End = nil
		base.err = err
		return base
	}
	if len(items) > q.Limit {
		items = items[:q.Limit]
	}
	if len(items) == 0 {
		base.End = nil
		return base
	}
	first, last := cursorOf(items[0], q.Order.Field), cursorOf(items[len(items)-1], q.Order.Field)
	return Page[T]{
		Items:  items,
		Number: base.Number,
		Size:   base.Size,
		Order:  q.Order,
		Start:  &first,
		End:    &last,
		Full:   len(items) == base.Size,
	}
}

func cursorOf[T Record](item T, field string) Cursor {
	k, _ := item.SortKey(field)
	return Cursor{Key: k, ID: item.RecordID()}
}
