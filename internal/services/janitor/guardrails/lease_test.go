package guardrails

import (
	"context"
	"errors"
	"testing"
	"time"

	"atelier/internal/platform/store/kv"
)

func TestKVLease(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kv.NewMemory()
	lease := MakeKVLease(store, "janitor", time.Minute)

	ran := false
	if err := lease(ctx, func(context.Context) error {
		ran = true
		// a second holder is turned away while the first runs
		if err := lease(ctx, func(context.Context) error { return nil }); !errors.Is(err, ErrLeaseHeld) {
			t.Errorf("nested lease = %v", err)
		}
		return nil
	}); err != nil || !ran {
		t.Fatalf("lease = %v ran=%v", err, ran)
	}
	if ok, _ := store.Exists(ctx, LeaseKey); ok {
		t.Fatal("lease not released")
	}

	boom := errors.New("boom")
	if err := lease(ctx, func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if ok, _ := store.Exists(ctx, LeaseKey); ok {
		t.Fatal("lease not released after failure")
	}
}

func TestKVLeaseLeavesForeignHolder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kv.NewMemory()
	lease := MakeKVLease(store, "janitor", time.Minute)

	err := lease(ctx, func(ctx context.Context) error {
		// ttl lapsed and someone else took over
		return store.Set(ctx, LeaseKey, "other:1", time.Minute)
	})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := store.Get(ctx, LeaseKey); v != "other:1" {
		t.Fatalf("holder = %q", v)
	}
}
