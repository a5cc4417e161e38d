package repokit

import (
	"context"
	"time"

	"atelier/internal/platform/logger"
)

// Guarder checks its own backends
type Guarder interface {
	Guard(context.Context) error
}

// MustGuard gives st at most d to answer and panics through log when it does not
// the commands call it once the store is open, before anything mounts
func MustGuard(ctx context.Context, log *logger.Logger, st Guarder, d time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	start := time.Now()
	if err := st.Guard(ctx); err != nil {
		log.Panic().Err(err).Dur("budget", d).Msg("store guard failed")
	}
	log.Debug().Dur("took", time.Since(start)).Msg("store guard passed")
}
