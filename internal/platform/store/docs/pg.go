package docs

import (
	"context"
	"fmt"
	"slices"
	"strings"

	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/store"

	"github.com/google/uuid"
)

// PG stores documents in a single postgres table
type PG struct {
	q store.RowQuerier
}

// NewPG binds the document store to a querier
func NewPG(q store.RowQuerier) *PG { return &PG{q: q} }

const schema = `
create table if not exists documents (
	collection text not null,
	id text not null,
	created_at timestamptz not null default now(),
	data jsonb not null default '{}'::jsonb,
	primary key (collection, id)
);
create index if not exists documents_collection_created_idx on documents (collection, created_at, id);
`

// Migrate creates the documents table and its ordering index when missing
func (p *PG) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := p.q.Exec(ctx, stmt); err != nil {
			return perr.FromPostgres(err, "migrate documents")
		}
	}
	return nil
}

const returning = ` returning id, created_at, data`

func scanDoc(r store.Row) (Doc, error) {
	var (
		d   Doc
		raw []byte
	)
	if err := r.Scan(&d.ID, &d.CreatedAt, &raw); err != nil {
		return Doc{}, dbErr(err, "scan document")
	}
	m, err := decode(raw)
	if err != nil {
		return Doc{}, err
	}
	d.Data = m
	return d, nil
}

func (p *PG) one(ctx context.Context, op, sql string, args ...any) (Doc, error) {
	d, err := store.One(ctx, p.q, scanDoc, sql, args...)
	if err != nil {
		return Doc{}, dbErr(err, op)
	}
	return d, nil
}

// Get returns one document or NotFound
func (p *PG) Get(ctx context.Context, coll, id string) (Doc, error) {
	return p.one(ctx, "get document",
		`select id, created_at, data from documents where collection = $1 and id = $2`, coll, id)
}

// Create inserts under a caller chosen id; DuplicateKey when it exists
func (p *PG) Create(ctx context.Context, coll, id string, data any) (Doc, error) {
	b, err := encode(data)
	if err != nil {
		return Doc{}, err
	}
	return p.one(ctx, "create document",
		`insert into documents (collection, id, data) values ($1, $2, $3::jsonb)`+returning, coll, id, string(b))
}

// Add inserts under a fresh uuid
func (p *PG) Add(ctx context.Context, coll string, data any) (Doc, error) {
	return p.Create(ctx, coll, uuid.NewString(), data)
}

// Set replaces the data of id, creating it when missing; created_at is preserved
func (p *PG) Set(ctx context.Context, coll, id string, data any) (Doc, error) {
	b, err := encode(data)
	if err != nil {
		return Doc{}, err
	}
	return p.one(ctx, "set document", `
insert into documents (collection, id, data) values ($1, $2, $3::jsonb)
on conflict (collection, id) do update set data = excluded.data`+returning, coll, id, string(b))
}

// Update merges top level keys of patch into an existing document
func (p *PG) Update(ctx context.Context, coll, id string, patch any) (Doc, error) {
	b, err := encode(patch)
	if err != nil {
		return Doc{}, err
	}
	return p.one(ctx, "update document",
		`update documents set data = data || $3::jsonb where collection = $1 and id = $2`+returning, coll, id, string(b))
}

// Delete removes a document; NotFound when absent
func (p *PG) Delete(ctx context.Context, coll, id string) error {
	err := store.ExecOne(ctx, p.q, `delete from documents where collection = $1 and id = $2`, coll, id)
	if err != nil {
		return dbErr(err, "delete document")
	}
	return nil
}

// Range runs an ordered keyset query
func (p *PG) Range(ctx context.Context, coll string, q RangeQuery) ([]Doc, error) {
	q, err := normalize(q)
	if err != nil {
		return nil, err
	}
	sql, args, reverse := rangeSQL(coll, q)
	out, err := store.Many(ctx, p.q, scanDoc, sql, args...)
	if err != nil {
		return nil, dbErr(err, "range documents")
	}
	if reverse {
		slices.Reverse(out)
	}
	return out, nil
}

// rangeSQL builds the keyset statement for q
// a Before-only query walks backwards and is flipped by the caller
func rangeSQL(coll string, q RangeQuery) (string, []any, bool) {
	args := []any{coll}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	key, cast := "created_at", "::timestamptz"
	if q.Field != FieldCreatedAt {
		key = fmt.Sprintf(`coalesce(data->>%s::text, '') collate "C"`, arg(q.Field))
		cast = ""
	}

	where := []string{"collection = $1"}
	keys := make([]string, 0, len(q.Where))
	for k := range q.Where {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		where = append(where, fmt.Sprintf("data->>%s::text = %s::text", arg(k), arg(q.Where[k])))
	}

	gt, lt := ">", "<"
	if q.Desc {
		gt, lt = lt, gt
	}
	if q.After != nil {
		where = append(where, fmt.Sprintf(`(%s, id collate "C") %s (%s%s, %s)`, key, gt, arg(q.After.Key), cast, arg(q.After.ID)))
	}
	if q.Before != nil {
		where = append(where, fmt.Sprintf(`(%s, id collate "C") %s (%s%s, %s)`, key, lt, arg(q.Before.Key), cast, arg(q.Before.ID)))
	}

	reverse := q.Before != nil && q.After == nil
	desc := q.Desc != reverse
	dir := "asc"
	if desc {
		dir = "desc"
	}

	var b strings.Builder
	b.WriteString("select id, created_at, data from documents where ")
	b.WriteString(strings.Join(where, " and "))
	fmt.Fprintf(&b, ` order by %s %s, id collate "C" %s limit %s`, key, dir, dir, arg(q.Limit))
	return b.String(), args, reverse
}

// dbErr keeps already classified errors and maps raw driver errors
func dbErr(err error, msg string) error {
	if perr.CodeOf(err) != perr.ErrorCodeUnknown {
		return err
	}
	return perr.FromPostgres(err, msg)
}
