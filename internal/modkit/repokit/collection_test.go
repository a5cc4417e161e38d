package repokit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"atelier/internal/core/listing"
	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/store/docs"
)

type note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

func (n note) RecordID() string     { return n.ID }
func (n note) SearchText() []string { return []string{n.Title} }
func (n note) Categories() []string { return nil }
func (n note) SortKey(field string) (string, bool) {
	if field == docs.FieldCreatedAt {
		return TimeKey(n.CreatedAt), true
	}
	return n.Title, n.Title != ""
}

func ticking() *docs.Memory {
	m := docs.NewMemory()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	m.SetClock(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	})
	return m
}

func TestCollectionCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewCollection[note](ticking(), "notes")

	n, err := c.Create(ctx, "n1", map[string]any{"title": "sketch", "owner": "u1"})
	if err != nil || n.ID != "n1" || n.Title != "sketch" || n.CreatedAt.IsZero() {
		t.Fatalf("Create = %+v, %v", n, err)
	}
	if _, err := c.Create(ctx, "n1", map[string]any{}); perr.CodeOf(err) != perr.ErrorCodeDuplicateKey {
		t.Fatalf("duplicate = %v", err)
	}
	if n, err = c.Update(ctx, "n1", map[string]any{"title": "study"}); err != nil || n.Title != "study" || n.Owner != "u1" {
		t.Fatalf("Update = %+v, %v", n, err)
	}
	_, err = c.Get(ctx, "missing")
	if perr.CodeOf(err) != perr.ErrorCodeNotFound || err.Error() != "notes missing not found" {
		t.Fatalf("Get missing = %v", err)
	}
	if err := c.Delete(ctx, "n1"); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "n1"); perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("second Delete = %v", err)
	}
}

func TestCollectionWhere(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewCollection[note](ticking(), "notes")
	for i, owner := range []string{"u1", "u2", "u1"} {
		if _, err := c.Create(ctx, fmt.Sprintf("n%d", i), map[string]any{"owner": owner}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := c.Where(ctx, "owner", "u1", 10)
	if err != nil || len(got) != 2 || got[0].ID != "n0" || got[1].ID != "n2" {
		t.Fatalf("Where = %+v, %v", got, err)
	}
}

// the accessor walks a document collection through Source with keys that line up
func TestCollectionSourcePages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewCollection[note](ticking(), "notes")
	for i := 1; i <= 7; i++ {
		if _, err := c.Create(ctx, fmt.Sprintf("n%d", i), map[string]any{"title": fmt.Sprintf("t%d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	acc := listing.NewAccessor[note](c.Source())
	order := listing.Order{Field: docs.FieldCreatedAt, Dir: listing.Desc}

	first := acc.First(ctx, 5, order)
	if len(first.Items) != 5 || first.Items[0].ID != "n7" || !first.Full {
		t.Fatalf("first = %+v", first)
	}
	second := acc.Next(ctx, first)
	if second.Number != 2 || len(second.Items) != 2 || second.Items[0].ID != "n2" {
		t.Fatalf("second = %+v", second)
	}
	back := acc.Previous(ctx, second)
	if back.Number != 1 || back.Items[0].ID != "n7" || back.Items[4].ID != "n3" {
		t.Fatalf("back = %+v", back)
	}
}
