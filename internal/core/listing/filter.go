package listing

import (
	"cmp"
	"slices"

	"atelier/internal/core/fold"
)

// Record is what the filter stage and the cursors need from an item
type Record interface {
	RecordID() string
	// SearchText lists the fields free text search looks at
	SearchText() []string
	// Categories lists the exact values a category filter can select
	Categories() []string
	// SortKey returns the comparable key of field; ok is false when the item lacks it
	SortKey(field string) (string, bool)
}

// FilterState is the in-memory narrowing of a loaded page; it is never persisted
type FilterState struct {
	Search   string
	Category string
	SortBy   string
	Desc     bool
}

// IsZero reports whether f would leave a page untouched
func (f FilterState) IsZero() bool {
	return fold.Fold(f.Search) == "" && f.Category == "" && f.SortBy == ""
}

// Apply narrows and orders items
//
// search is a folded substring match on any search field, category is an exact
// match on any category, and both must hold. SortBy sorts stably with ties in
// input order and items lacking the key last. A zero filter returns items as is
func Apply[T Record](items []T, f FilterState) []T {
	if f.IsZero() {
		return items
	}
	needle := fold.Fold(f.Search)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if needle != "" && !matchesText(it, needle) {
			continue
		}
		if f.Category != "" && !slices.Contains(it.Categories(), f.Category) {
			continue
		}
		out = append(out, it)
	}
	if f.SortBy != "" {
		sortStable(out, f.SortBy, f.Desc)
	}
	return out
}

func matchesText[T Record](it T, needle string) bool {
	for _, s := range it.SearchText() {
		if s != "" && fold.Contains(s, needle) {
			return true
		}
	}
	return false
}

func sortStable[T Record](items []T, field string, desc bool) {
	type keyed struct {
		key string
		ok  bool
	}
	keys := make(map[string]keyed, len(items))
	for _, it := range items {
		k, ok := it.SortKey(field)
		keys[it.RecordID()] = keyed{fold.Fold(k), ok && k != ""}
	}
	slices.SortStableFunc(items, func(a, b T) int {
		ka, kb := keys[a.RecordID()], keys[b.RecordID()]
		switch {
		case !ka.ok && !kb.ok:
			return 0
		case !ka.ok:
			return 1
		case !kb.ok:
			return -1
		}
		c := cmp.Compare(ka.key, kb.key)
		if desc {
			return -c
		}
		return c
	})
}
