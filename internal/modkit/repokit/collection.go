// Package repokit gives modules typed access to the document store
package repokit

import (
	"context"
	"time"

	"atelier/internal/core/listing"
	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/store/docs"
)

// Collection is a typed view of one document collection
// T is decoded from the document data plus its id and created_at
type Collection[T any] struct {
	store docs.Store
	name  string
}

// NewCollection binds name in s to T; a nil store is a programmer error
func NewCollection[T any](s docs.Store, name string) *Collection[T] {
	if s == nil {
		panic("repokit: nil document store for " + name)
	}
	return &Collection[T]{store: s, name: name}
}

// Name is the collection name
func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) one(d docs.Doc, err error, id string) (T, error) {
	var out T
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return out, perr.NotFoundf("%s %s not found", c.name, id)
		}
		return out, err
	}
	if err := d.Decode(&out); err != nil {
		return out, perr.Wrapf(err, perr.ErrorCodeJSON, "decode %s %s", c.name, d.ID)
	}
	return out, nil
}

// Get loads id
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	d, err := c.store.Get(ctx, c.name, id)
	return c.one(d, err, id)
}

// Create stores v under id; DuplicateKey when taken
func (c *Collection[T]) Create(ctx context.Context, id string, v any) (T, error) {
	d, err := c.store.Create(ctx, c.name, id, v)
	return c.one(d, err, id)
}

// Add stores v under a generated id
func (c *Collection[T]) Add(ctx context.Context, v any) (T, error) {
	d, err := c.store.Add(ctx, c.name, v)
	return c.one(d, err, "")
}

// Set replaces the data under id, creating it when missing
func (c *Collection[T]) Set(ctx context.Context, id string, v any) (T, error) {
	d, err := c.store.Set(ctx, c.name, id, v)
	return c.one(d, err, id)
}

// Update merges patch into id
func (c *Collection[T]) Update(ctx context.Context, id string, patch any) (T, error) {
	d, err := c.store.Update(ctx, c.name, id, patch)
	return c.one(d, err, id)
}

// Delete removes id
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	err := c.store.Delete(ctx, c.name, id)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return perr.NotFoundf("%s %s not found", c.name, id)
	}
	return err
}

// Where returns up to limit documents whose field equals value, oldest first
func (c *Collection[T]) Where(ctx context.Context, field, value string, limit int) ([]T, error) {
	ds, err := c.store.Range(ctx, c.name, docs.RangeQuery{Limit: limit, Where: map[string]string{field: value}})
	if err != nil {
		return nil, err
	}
	return docs.DecodeAll[T](ds)
}

// Source adapts the collection to the listing accessor
// order fields are document fields, so records must report SortKey in the same format as docs.Doc.Key
func (c *Collection[T]) Source() listing.SourceFunc[T] {
	return func(ctx context.Context, q listing.Query) ([]T, error) {
		ds, err := c.store.Range(ctx, c.name, docs.RangeQuery{
			Field:  q.Order.Field,
			Desc:   q.Order.Desc(),
			Limit:  q.Limit,
			After:  toDocs(q.After),
			Before: toDocs(q.Before),
		})
		if err != nil {
			return nil, err
		}
		return docs.DecodeAll[T](ds)
	}
}

func toDocs(c *listing.Cursor) *docs.Cursor {
	if c == nil {
		return nil
	}
	return &docs.Cursor{Key: c.Key, ID: c.ID}
}

// TimeKey formats a creation time the way the document store keys created_at
func TimeKey(t time.Time) string { return t.UTC().Format(docs.TimeKey) }
