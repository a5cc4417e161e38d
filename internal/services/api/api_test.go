package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"atelier/internal/modkit/modtest"
	"atelier/internal/modkit/module"
	"atelier/internal/platform/auth"
	"atelier/internal/platform/metrics"
	phttp "atelier/internal/platform/net/http"
	"atelier/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

func serve(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMountWiresModules(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)

	env := modtest.New(t, nil)
	deps := env.Deps
	deps.Metrics = metrics.New("atelier_test")

	files := t.TempDir()
	if err := os.WriteFile(filepath.Join(files, "hello.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := phttp.AdaptChi(chi.NewRouter())
	closeFn := Mount(r, deps, Options{FilesDir: files})
	t.Cleanup(closeFn)
	h := r.Mux()

	if rec := serve(t, h, http.MethodGet, "/api/v1/meta/live", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("live = %d %s", rec.Code, rec.Body)
	}

	rec := serve(t, h, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "ada@example.com", "password": "correct horse", "name": "Ada",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup = %d %s", rec.Code, rec.Body)
	}
	var env1 struct {
		Data struct {
			Access string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env1); err != nil || env1.Data.Access == "" {
		t.Fatalf("signup body = %s", rec.Body)
	}

	// a fresh account is not an admin, whatever the gallery thinks
	if rec := serve(t, h, http.MethodDelete, "/api/v1/content/x", env1.Data.Access, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("user delete = %d %s", rec.Code, rec.Body)
	}
	if rec := serve(t, h, http.MethodGet, "/api/v1/art", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("gallery = %d %s", rec.Code, rec.Body)
	}

	if _, ok := module.PortsAs[any]("users"); !ok {
		t.Fatal("users ports not registered")
	}
	rec = serve(t, h, http.MethodGet, "/api/v1/meta/service", "", nil)
	var svc struct {
		Data struct {
			Modules []string `json:"modules"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &svc); err != nil || strings.Join(svc.Data.Modules, ",") != "art,auth,content,meta,users" {
		t.Fatalf("service = %s", rec.Body)
	}

	rec = serve(t, h, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "atelier_test_") {
		t.Fatalf("metrics = %d", rec.Code)
	}
	rec = serve(t, h, http.MethodGet, "/files/hello.txt", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "hi" {
		t.Fatalf("files = %d %q", rec.Code, rec.Body)
	}
}

func TestMountPanicsWithoutStores(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)

	env := modtest.New(t, nil)
	deps := env.Deps
	deps.Docs = nil
	testkit.MustPanicWith(t, "missing deps docs", func() {
		Mount(phttp.AdaptChi(chi.NewRouter()), deps, Options{})
	})
}
