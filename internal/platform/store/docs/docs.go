// Package docs keeps JSON documents grouped by collection
//
// A document is an id, a creation time and a flat JSON object. Both the postgres
// implementation and the in-memory one honour the same ordering rules so the
// keyset cursors handed out by Range are interchangeable between them
package docs

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"time"

	perr "atelier/internal/platform/errors"
)

// FieldCreatedAt orders by the row creation time rather than a data key
const FieldCreatedAt = "created_at"

// TimeKey is the cursor layout for created_at; fixed width so keys sort as strings
const TimeKey = "2006-01-02T15:04:05.000000Z07:00"

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Doc is one stored document
type Doc struct {
	ID        string
	CreatedAt time.Time
	Data      map[string]any
}

// Cursor is a keyset boundary: the ordering key of a document plus its id
type Cursor struct {
	Key string
	ID  string
}

// RangeQuery selects an ordered window of a collection
type RangeQuery struct {
	Field  string // created_at or a top level data key
	Desc   bool
	Limit  int
	After  *Cursor // strictly after, in query order
	Before *Cursor // strictly before, results still in query order
	Where  map[string]string
}

// Store is the document surface services depend on
type Store interface {
	Get(ctx context.Context, coll, id string) (Doc, error)
	Create(ctx context.Context, coll, id string, data any) (Doc, error)
	Add(ctx context.Context, coll string, data any) (Doc, error)
	Set(ctx context.Context, coll, id string, data any) (Doc, error)
	Update(ctx context.Context, coll, id string, patch any) (Doc, error)
	Delete(ctx context.Context, coll, id string) error
	Range(ctx context.Context, coll string, q RangeQuery) ([]Doc, error)
}

// Key returns the ordering key of d for field, matching what Range compares
func (d Doc) Key(field string) string {
	if field == "" || field == FieldCreatedAt {
		return d.CreatedAt.UTC().Format(TimeKey)
	}
	return keyString(d.Data[field])
}

// Cursor returns the keyset boundary of d under field
func (d Doc) Cursor(field string) Cursor { return Cursor{Key: d.Key(field), ID: d.ID} }

// Decode fills dst from the document data plus its id and created_at
func (d Doc) Decode(dst any) error {
	m := make(map[string]any, len(d.Data)+2)
	for k, v := range d.Data {
		m[k] = v
	}
	m["id"] = d.ID
	m["created_at"] = d.CreatedAt
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "decode document %s", d.ID)
	}
	return nil
}

// DecodeAll decodes every document into a fresh T
func DecodeAll[T any](ds []Doc) ([]T, error) {
	out := make([]T, 0, len(ds))
	for _, d := range ds {
		var v T
		if err := d.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

var fieldName = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// normalize validates q and applies defaults
func normalize(q RangeQuery) (RangeQuery, error) {
	if q.Field == "" {
		q.Field = FieldCreatedAt
	}
	if !fieldName.MatchString(q.Field) {
		return q, perr.Newf(perr.ErrorCodeInvalidArgument, "invalid order field %q", q.Field)
	}
	for k := range q.Where {
		if !fieldName.MatchString(k) {
			return q, perr.Newf(perr.ErrorCodeInvalidArgument, "invalid filter field %q", k)
		}
	}
	if q.Field == FieldCreatedAt {
		for _, c := range []*Cursor{q.After, q.Before} {
			if c == nil {
				continue
			}
			if _, err := time.Parse(TimeKey, c.Key); err != nil {
				return q, perr.Newf(perr.ErrorCodeInvalidArgument, "invalid cursor time %q", c.Key)
			}
		}
	}
	switch {
	case q.Limit <= 0:
		q.Limit = defaultLimit
	case q.Limit > maxLimit:
		q.Limit = maxLimit
	}
	return q, nil
}

// encode turns a struct or map into the stored JSON object
// id and created_at live in columns so they are dropped from the payload
func encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "document is not json")
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return nil, perr.New(perr.ErrorCodeInvalidArgument, "document must be a json object")
	}
	delete(m, "id")
	delete(m, "created_at")
	return json.Marshal(m)
}

func decode(b []byte) (map[string]any, error) {
	m := map[string]any{}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "stored document is not a json object")
	}
	return m, nil
}

// keyString renders a data value the way postgres ->> does for scalars
func keyString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
