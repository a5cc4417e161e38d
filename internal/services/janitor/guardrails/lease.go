// Package guardrails keeps two janitors from sweeping the same bucket at once
package guardrails

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"atelier/internal/platform/store/kv"
)

// ErrLeaseHeld signals another janitor owns the sweep already
var ErrLeaseHeld = errors.New("janitor: sweep lease already held")

// LeaseKey is the kv key the lease lives under
const LeaseKey = "janitor:lease"

// Lease runs do while holding a kv lease; the ttl reclaims it if the holder dies
type Lease func(ctx context.Context, do func(context.Context) error) error

// MakeKVLease claims LeaseKey with SetNX and releases it when do returns
func MakeKVLease(store kv.Store, owner string, ttl time.Duration) Lease {
	owner = fmt.Sprintf("%s:%d", owner, os.Getpid())
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return func(ctx context.Context, do func(context.Context) error) error {
		ok, err := store.SetNX(ctx, LeaseKey, owner, ttl)
		if err != nil {
			return err
		}
		if !ok {
			return ErrLeaseHeld
		}
		defer func() {
			// release with a fresh context; ctx may be done by now
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if v, err := store.Get(rctx, LeaseKey); err == nil && v == owner {
				_ = store.Del(rctx, LeaseKey)
			}
		}()
		return do(ctx)
	}
}
