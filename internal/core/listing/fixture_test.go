package listing

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

type item struct {
	ID    string
	Title string
	Body  string
	Name  string
	Tags  []string
	At    time.Time
}

func (i item) RecordID() string { return i.ID }
func (i item) SearchText() []string { return append([]string{i.Title, i.Body}, i.Tags...) }
func (i item) Categories() []string { return i.Tags }
func (i item) SortKey(f string) (string, bool) {
	switch f {
	case "created_at":
		return i.At.UTC().Format("2006-01-02T15:04:05.000000Z07:00"), true
	case "name":
		return i.Name, i.Name != ""
	case "title":
		return i.Title, i.Title != ""
	}
	return "", false
}

// memSource is an ordered in-memory Source that counts calls
type memSource struct {
	mu    sync.Mutex
	items []item
	calls int
	err   error
	extra int // returns this many items past Limit
}

func seeded(n int) *memSource {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &memSource{}
	for i := 1; i <= n; i++ {
		s.items = append(s.items, item{ID: fmt.Sprintf("t%d", i), Title: fmt.Sprintf("post %d", i), At: base.Add(time.Duration(i) * time.Hour)})
	}
	return s
}

func (s *memSource) add(it item) {
	s.mu.Lock()
	s.items = append(s.items, it)
	s.mu.Unlock()
}

func (s *memSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *memSource) Range(_ context.Context, q Query) ([]item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	order := func(a, b Cursor) int {
		c := cmp.Or(cmp.Compare(a.Key, b.Key), cmp.Compare(a.ID, b.ID))
		if q.Order.Desc() {
			return -c
		}
		return c
	}
	all := slices.Clone(s.items)
	slices.SortFunc(all, func(a, b item) int { return order(cursorOf(a, q.Order.Field), cursorOf(b, q.Order.Field)) })
	var out []item
	for _, it := range all {
		c := cursorOf(it, q.Order.Field)
		if q.After != nil && order(c, *q.After) <= 0 {
			continue
		}
		if q.Before != nil && order(c, *q.Before) >= 0 {
			continue
		}
		out = append(out, it)
	}
	limit := q.Limit + s.extra
	if len(out) > limit {
		if q.Before != nil && q.After == nil {
			out = out[len(out)-limit:]
		} else {
			out = out[:limit]
		}
	}
	return out, nil
}

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

var newestFirst = Order{Field: "created_at", Dir: Desc}
