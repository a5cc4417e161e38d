package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"atelier/internal/platform/store/blob"
	"atelier/internal/platform/store/kv"
)

// pingDB is a DB whose only working part is Ping
type pingDB struct {
	RowQuerier
	err error
}

func (f *pingDB) Ping(context.Context) error { return f.err }

type refusingKV struct{ kv.Store }

func (refusingKV) Ping(context.Context) error { return errors.New("refused") }

type missingBucket struct{ blob.Store }

func (missingBucket) List(context.Context, string, func(blob.Object) error) error {
	return errors.New("no such bucket")
}

func TestGuardNilStore(t *testing.T) {
	t.Parallel()

	var s *Store
	if err := s.Guard(context.Background()); err == nil {
		t.Fatal("nil store should fail the guard")
	}
}

func TestGuard(t *testing.T) {
	t.Parallel()

	local, err := blob.OpenLocal(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		store *Store
		want  []string
	}{
		{"nothing configured", &Store{}, nil},
		{"pg answers", &Store{PG: &pingDB{}}, nil},
		{"pg down", &Store{PG: &pingDB{err: errors.New("boom")}}, []string{"pg: boom"}},
		{"empty bucket answers", &Store{Blob: local}, nil},
		{
			"every failure is joined",
			&Store{
				PG:   &pingDB{err: errors.New("boom")},
				KV:   refusingKV{kv.NewMemory()},
				Blob: missingBucket{},
			},
			[]string{"pg: boom", "kv: refused", "blob: no such bucket"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.store.Guard(context.Background())
			if len(tc.want) == 0 {
				if err != nil {
					t.Fatalf("Guard = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Guard = nil, want %v", tc.want)
			}
			for _, w := range tc.want {
				if !strings.Contains(err.Error(), w) {
					t.Fatalf("Guard = %q, missing %q", err, w)
				}
			}
		})
	}
}
