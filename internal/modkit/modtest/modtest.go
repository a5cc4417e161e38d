// Package modtest mounts modules on a real router with in-memory deps for handler tests
package modtest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	modkit "atelier/internal/modkit"
	"atelier/internal/modkit/httpkit"
	"atelier/internal/platform/auth"
	"atelier/internal/platform/config"
	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/events"
	phttp "atelier/internal/platform/net/http"
	"atelier/internal/platform/store/blob"
	"atelier/internal/platform/store/docs"
	"atelier/internal/platform/store/kv"

	"github.com/go-chi/chi/v5"
)

// Secret signs every test token
const Secret = "modtest-secret-0123456789-abcdefghij"

// Roles is a fixed RoleLookup; unknown ids are NotFound
type Roles map[string]string

// Role implements middleware.RoleLookup
func (r Roles) Role(_ context.Context, id string) (string, error) {
	role, ok := r[id]
	if !ok {
		return "", perr.NotFoundf("user %s not found", id)
	}
	return role, nil
}

// Env is a router plus the in-memory stores behind it
type Env struct {
	Deps   modkit.Deps
	Docs   *docs.Memory
	KV     *kv.Memory
	Blob   *blob.Local
	Hub    *events.Hub
	Tokens *auth.Tokens

	router phttp.Router
}

// New builds an env whose gate admits the ids in roles
// the hub runs until the test ends
func New(t *testing.T, roles Roles) *Env {
	t.Helper()
	tokens, err := auth.NewTokens(auth.Config{Secret: []byte(Secret), Issuer: "modtest"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := blob.OpenLocal(t.TempDir(), "http://files.test")
	if err != nil {
		t.Fatal(err)
	}
	hub := events.NewHub(0)
	ctx, cancel := context.WithCancel(context.Background())
	hub.Start(ctx)
	t.Cleanup(func() {
		cancel()
		hub.Wait()
	})

	e := &Env{
		Docs:   docs.NewMemory(),
		KV:     kv.NewMemory(),
		Blob:   b,
		Hub:    hub,
		Tokens: tokens,
		router: phttp.AdaptChi(chi.NewRouter()),
	}
	e.Deps = modkit.Deps{
		Cfg:    config.New(),
		Docs:   e.Docs,
		Blob:   e.Blob,
		KV:     e.KV,
		Tokens: e.Tokens,
		Events: e.Hub,
		Gate:   httpkit.NewGate(tokens.ParseAccess, roles),
	}
	return e
}

// Mount registers mods under /api/v1 behind the common stack
func (e *Env) Mount(mods ...modkit.Module) {
	httpkit.MountAPIV1(e.router, httpkit.CommonStack(httpkit.StackOptions{}), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}

// Handler is the mounted router
func (e *Env) Handler() http.Handler { return e.router.Mux() }

// Token mints an access token for id
func (e *Env) Token(t *testing.T, id, role string) string {
	t.Helper()
	p, err := e.Tokens.Issue(id, role)
	if err != nil {
		t.Fatal(err)
	}
	return p.Access
}

// Reply is a decoded envelope
type Reply struct {
	Code    int
	Status  string
	ErrCode perr.ErrorCode
	Error   string
	Data    json.RawMessage
	Header  http.Header
	Raw     []byte
}

// Do sends a JSON request; body may be nil
func (e *Env) Do(t *testing.T, method, path, token string, body any) *Reply {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.Send(t, req, token)
}

// Send serves req with an optional bearer token
func (e *Env) Send(t *testing.T, req *http.Request, token string) *Reply {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.Mux().ServeHTTP(rec, req)

	r := &Reply{Code: rec.Code, Header: rec.Header(), Raw: rec.Body.Bytes()}
	if len(r.Raw) == 0 {
		return r
	}
	var env struct {
		Status string          `json:"status"`
		Code   perr.ErrorCode  `json:"code"`
		Error  string          `json:"error"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(r.Raw, &env); err == nil {
		r.Status, r.ErrCode, r.Error, r.Data = env.Status, env.Code, env.Error, env.Data
	}
	return r
}

// Decode unmarshals the envelope data into v
func (r *Reply) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Data, v); err != nil {
		t.Fatalf("decode %s: %v", r.Data, err)
	}
}

// List unmarshals a list body into items and returns its page
func (r *Reply) List(t *testing.T, items any) phttp.Page {
	t.Helper()
	var l struct {
		Items json.RawMessage `json:"items"`
		Page  phttp.Page      `json:"page"`
	}
	r.Decode(t, &l)
	if err := json.Unmarshal(l.Items, items); err != nil {
		t.Fatalf("decode items %s: %v", l.Items, err)
	}
	return l.Page
}

// File is one multipart file part
type File struct {
	Field    string
	Filename string
	Data     []byte
}

// Multipart builds a multipart/form-data request
func Multipart(t *testing.T, method, path string, fields map[string]string, files ...File) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
