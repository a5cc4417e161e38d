package module_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"atelier/internal/modkit/modtest"
	"atelier/internal/modkit/module"
	"atelier/internal/platform/config"
	"atelier/internal/platform/testkit"
	jmod "atelier/internal/services/janitor/module"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("CORE_JANITOR_PREFIXES", "art/, content/")
	t.Setenv("CORE_JANITOR_GRACE", "2h")
	t.Setenv("CORE_JANITOR_DRYRUN", "true")

	o := jmod.FromConfig(config.New())
	if len(o.Prefixes) != 2 || o.Prefixes[1] != "content/" || o.Grace != 2*time.Hour || !o.DryRun {
		t.Fatalf("options = %+v", o)
	}
	if o.Schedule != "@every 1h" || !o.EnableLeases {
		t.Fatalf("defaults = %+v", o)
	}
}

func TestModuleSweepsAgainstDocs(t *testing.T) {
	t.Parallel()
	env := modtest.New(t, nil)
	ctx := context.Background()

	for _, k := range []string{"art/a_x.png", "content/1_y.png"} {
		if err := env.Blob.Put(ctx, k, strings.NewReader("png"), 3, "image/png"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := env.Docs.Create(ctx, "art", "a", map[string]any{"image_path": "art/a_x.png"}); err != nil {
		t.Fatal(err)
	}

	m := jmod.New(env.Deps, jmod.Options{EnableLeases: true})
	sweeper := module.MustPortsOf[jmod.Ports](m).Sweeper

	rep, err := sweeper.Sweep(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Scanned != 2 || rep.Kept != 1 || rep.Deleted != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if ok, _ := env.KV.Exists(ctx, "janitor:lease"); ok {
		t.Fatal("lease left behind")
	}
}

func TestModuleRequiresStores(t *testing.T) {
	t.Parallel()
	env := modtest.New(t, nil)
	deps := env.Deps
	deps.Blob = nil
	testkit.MustPanicWith(t, "docs and blob", func() { jmod.New(deps, jmod.Options{}) })
}
