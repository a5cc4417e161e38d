package module

import (
	"time"

	"atelier/internal/platform/config"
	"atelier/internal/services/janitor/service"
)

// Options for the janitor module
type Options struct {
	Prefixes     []string
	Grace        time.Duration
	DryRun       bool
	Schedule     string
	EnableLeases bool
	LeaseTTL     time.Duration
}

// FromConfig fills options from environment
// CORE_JANITOR_PREFIXES (default art/,content/,avatars/) are the blob prefixes swept
// CORE_JANITOR_GRACE (default 24h) spares objects younger than this
// CORE_JANITOR_DRYRUN (default false) logs orphans without deleting them
// CORE_JANITOR_SCHEDULE (default @every 1h) is the cron spec for -mode cron
// CORE_JANITOR_LEASES (default true) takes a kv lease around each sweep
func FromConfig(cfg config.Conf) Options {
	j := cfg.Prefix("CORE_JANITOR_")
	return Options{
		Prefixes:     j.MayCSV("PREFIXES", service.DefaultPrefixes),
		Grace:        j.MayDuration("GRACE", 24*time.Hour),
		DryRun:       j.MayBool("DRYRUN", false),
		Schedule:     j.MayString("SCHEDULE", "@every 1h"),
		EnableLeases: j.MayBool("LEASES", true),
		LeaseTTL:     j.MayDuration("LEASE_TTL", 10*time.Minute),
	}
}
