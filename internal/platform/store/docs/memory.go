package docs

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	perr "atelier/internal/platform/errors"

	"github.com/google/uuid"
)

type memDoc struct {
	created time.Time
	raw     []byte
}

// Memory is an in-process Store with the same ordering rules as PG
// used by tests and by the api when postgres is disabled
type Memory struct {
	mu    sync.RWMutex
	colls map[string]map[string]memDoc
	now   func() time.Time
}

// NewMemory returns an empty store
func NewMemory() *Memory {
	return &Memory{colls: map[string]map[string]memDoc{}, now: time.Now}
}

// SetClock swaps the time source; tests only
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

func (m *Memory) doc(id string, md memDoc) (Doc, error) {
	data, err := decode(md.raw)
	if err != nil {
		return Doc{}, err
	}
	return Doc{ID: id, CreatedAt: md.created, Data: data}, nil
}

func (m *Memory) coll(name string) map[string]memDoc {
	c, ok := m.colls[name]
	if !ok {
		c = map[string]memDoc{}
		m.colls[name] = c
	}
	return c
}

// Get returns one document or NotFound
func (m *Memory) Get(_ context.Context, coll, id string) (Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	md, ok := m.colls[coll][id]
	if !ok {
		return Doc{}, perr.ErrNotFound
	}
	return m.doc(id, md)
}

// Create inserts under a caller chosen id; DuplicateKey when it exists
func (m *Memory) Create(_ context.Context, coll, id string, data any) (Doc, error) {
	b, err := encode(data)
	if err != nil {
		return Doc{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(coll)
	if _, ok := c[id]; ok {
		return Doc{}, perr.DuplicateKeyf("%s/%s already exists", coll, id)
	}
	md := memDoc{created: m.now().UTC().Truncate(time.Microsecond), raw: b}
	c[id] = md
	return m.doc(id, md)
}

// Add inserts under a fresh uuid
func (m *Memory) Add(ctx context.Context, coll string, data any) (Doc, error) {
	return m.Create(ctx, coll, uuid.NewString(), data)
}

// Set replaces the data of id, creating it when missing
func (m *Memory) Set(_ context.Context, coll, id string, data any) (Doc, error) {
	b, err := encode(data)
	if err != nil {
		return Doc{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(coll)
	md, ok := c[id]
	if !ok {
		md.created = m.now().UTC().Truncate(time.Microsecond)
	}
	md.raw = b
	c[id] = md
	return m.doc(id, md)
}

// Update merges top level keys of patch into an existing document
func (m *Memory) Update(_ context.Context, coll, id string, patch any) (Doc, error) {
	b, err := encode(patch)
	if err != nil {
		return Doc{}, err
	}
	p, err := decode(b)
	if err != nil {
		return Doc{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	md, ok := m.colls[coll][id]
	if !ok {
		return Doc{}, perr.ErrNotFound
	}
	cur, err := decode(md.raw)
	if err != nil {
		return Doc{}, err
	}
	for k, v := range p {
		cur[k] = v
	}
	if md.raw, err = encode(cur); err != nil {
		return Doc{}, err
	}
	m.colls[coll][id] = md
	return m.doc(id, md)
}

// Delete removes a document; NotFound when absent
func (m *Memory) Delete(_ context.Context, coll, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.colls[coll][id]; !ok {
		return perr.ErrNotFound
	}
	delete(m.colls[coll], id)
	return nil
}

// Range runs an ordered keyset query
func (m *Memory) Range(_ context.Context, coll string, q RangeQuery) ([]Doc, error) {
	q, err := normalize(q)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	all := make([]Doc, 0, len(m.colls[coll]))
	for id, md := range m.colls[coll] {
		d, err := m.doc(id, md)
		if err != nil {
			m.mu.RUnlock()
			return nil, err
		}
		if matches(d, q.Where) {
			all = append(all, d)
		}
	}
	m.mu.RUnlock()

	order := func(a, b Cursor) int {
		c := cmp.Or(cmp.Compare(a.Key, b.Key), cmp.Compare(a.ID, b.ID))
		if q.Desc {
			return -c
		}
		return c
	}
	slices.SortFunc(all, func(a, b Doc) int { return order(a.Cursor(q.Field), b.Cursor(q.Field)) })

	out := all[:0]
	for _, d := range all {
		c := d.Cursor(q.Field)
		if q.After != nil && order(c, *q.After) <= 0 {
			continue
		}
		if q.Before != nil && order(c, *q.Before) >= 0 {
			continue
		}
		out = append(out, d)
	}
	if len(out) > q.Limit {
		if q.Before != nil && q.After == nil {
			out = out[len(out)-q.Limit:]
		} else {
			out = out[:q.Limit]
		}
	}
	return out, nil
}

func matches(d Doc, where map[string]string) bool {
	for k, want := range where {
		v, ok := d.Data[k]
		if !ok || v == nil || keyString(v) != want {
			return false
		}
	}
	return true
}
