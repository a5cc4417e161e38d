//go:build integration_pg
// +build integration_pg

package docs

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"atelier/internal/platform/store"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "postgres",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, port.Port())
}

func TestPGContract_Integration(t *testing.T) {
	dsn := startPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	seen := &verbs{n: map[string]int{}}
	st, err := store.Open(ctx, store.Config{
		AppName: "atelier-docs-integration",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 4},
	}, store.WithQueryObserver(seen))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	p := NewPG(st.PG)
	require.NoError(t, p.Migrate(ctx))
	require.NoError(t, p.Migrate(ctx), "migrate must be idempotent")

	runContract(t, p)

	seen.mu.Lock()
	defer seen.mu.Unlock()
	require.Positive(t, seen.n["create"], "migrate statements observed")
	require.Positive(t, seen.n["insert"], "writes observed")
	require.Positive(t, seen.n["select"], "reads observed")
}

type verbs struct {
	mu sync.Mutex
	n  map[string]int
}

func (v *verbs) ObserveQuery(verb string, _ time.Duration, _ error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.n[verb]++
}
