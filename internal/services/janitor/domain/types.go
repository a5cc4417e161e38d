// Package domain defines the janitor's types and ports
package domain

import (
	"context"
	"time"
)

// Ref names a document field that holds a blob key
type Ref struct {
	Collection string
	Field      string
}

// Report tallies one sweep
type Report struct {
	Scanned int `json:"scanned"`
	Young   int `json:"young"`   // inside the grace period
	Kept    int `json:"kept"`    // still referenced
	Orphans int `json:"orphans"` // unreferenced and old enough
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`

	DryRun   bool          `json:"dry_run"`
	Took     time.Duration `json:"took"`
	Prefixes []string      `json:"prefixes"`
}

// RefIndex answers whether any document points at a blob key
type RefIndex interface {
	Referenced(ctx context.Context, key string) (bool, error)
}

// SweeperPort runs sweeps once or on a schedule
type SweeperPort interface {
	Sweep(ctx context.Context) (Report, error)
	Schedule(ctx context.Context, spec string) error
}
