// Package listing pages through remote collections with keyset cursors and
// narrows the loaded page in memory
//
// An Accessor fetches pages from a Source. Every page remembers the cursor of
// its first and last item so both Next and Previous cost one bounded query no
// matter how deep the reader is. Apply filters and sorts a page in memory, and
// View ties the two to user interaction
package listing

import (
	"context"
	"strings"

	perr "atelier/internal/platform/errors"
)

// Direction of an ordering
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

const (
	// DefaultPageSize is the page size of the public feed
	DefaultPageSize = 5
	// MaxPageSize caps any single fetch
	MaxPageSize = 100
)

// Order is the field and direction a collection is paged by
type Order struct {
	Field string    `json:"f"`
	Dir   Direction `json:"d"`
}

// Desc reports whether o is newest or largest first
func (o Order) Desc() bool { return o.Dir == Desc }

func (o Order) String() string { return o.Field + ":" + string(o.Dir) }

// ParseOrder validates a requested field and direction against the allowed fields
// empty inputs fall back to def
func ParseOrder(field, dir string, def Order, allowed ...string) (Order, error) {
	o := def
	if f := strings.TrimSpace(field); f != "" {
		o.Field = f
	}
	switch Direction(strings.ToLower(strings.TrimSpace(dir))) {
	case "":
	case Asc:
		o.Dir = Asc
	case Desc:
		o.Dir = Desc
	default:
		return def, perr.WithField(perr.New(perr.ErrorCodeInvalidArgument, "dir must be asc or desc"), "dir")
	}
	for _, a := range allowed {
		if a == o.Field {
			return o, nil
		}
	}
	return def, perr.WithField(perr.Newf(perr.ErrorCodeInvalidArgument, "order must be one of [%s]", strings.Join(allowed, " ")), "order")
}

// Cursor marks one boundary of a page: the order key of an item and its id
type Cursor struct {
	Key string `json:"k"`
	ID  string `json:"i"`
}

// Query is what a Source executes
type Query struct {
	Order  Order
	Limit  int
	After  *Cursor
	Before *Cursor
}

// Source returns at most Limit items in Order, strictly after After or strictly
// before Before; Before results still come back in Order
type Source[T any] interface {
	Range(ctx context.Context, q Query) ([]T, error)
}

// SourceFunc adapts a function to Source
type SourceFunc[T any] func(ctx context.Context, q Query) ([]T, error)

// Range calls f
func (f SourceFunc[T]) Range(ctx context.Context, q Query) ([]T, error) { return f(ctx, q) }

// Page is one fetched window
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Order  Order
	Start  *Cursor // first item; nil when empty unless carried from the page it replaced
	End    *Cursor // last item; nil when empty
	Full   bool

	err error
}

// Err is the source error swallowed while building the page, if any
func (p Page[T]) Err() error { return p.err }

// Empty reports whether the page holds no items
func (p Page[T]) Empty() bool { return len(p.Items) == 0 }

// ClampSize bounds a requested page size to [1, MaxPageSize]; zero means default
func ClampSize(n int) int {
	switch {
	case n == 0:
		return DefaultPageSize
	case n < 1:
		return 1
	case n > MaxPageSize:
		return MaxPageSize
	}
	return n
}
