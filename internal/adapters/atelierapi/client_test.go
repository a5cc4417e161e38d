package atelierapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"atelier/internal/core/listing"
	"atelier/internal/modkit/modtest"
	perr "atelier/internal/platform/errors"
	"atelier/internal/services/api/content/domain"
	contentmod "atelier/internal/services/api/content/module"
)

func feed(t *testing.T, n int) *httptest.Server {
	t.Helper()
	env := modtest.New(t, modtest.Roles{"a1": "admin"})
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	env.Docs.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})
	env.Mount(contentmod.New(env.Deps))
	admin := env.Token(t, "a1", "admin")
	for i := 1; i <= n; i++ {
		req := modtest.Multipart(t, http.MethodPost, "/api/v1/content/", map[string]string{
			"title": fmt.Sprintf("post %d", i),
			"body":  "words",
		})
		if r := env.Send(t, req, admin); r.Code != http.StatusCreated {
			t.Fatalf("create %d = %d %s", i, r.Code, r.Raw)
		}
	}
	srv := httptest.NewServer(env.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func titles(items []domain.Post) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Title
	}
	return out
}

func TestPostsPagesThroughTheFeed(t *testing.T) {
	t.Parallel()
	srv := feed(t, 7)
	c := NewClient(Options{BaseURL: srv.URL + "/api/v1/"})
	acc := listing.NewAccessor(c.Posts(), listing.WithName("content"))
	ctx := context.Background()
	order := listing.Order{Field: domain.FieldCreatedAt, Dir: listing.Desc}

	p1 := acc.First(ctx, 3, order)
	if fmt.Sprint(titles(p1.Items)) != "[post 7 post 6 post 5]" || !p1.Full || p1.Err() != nil {
		t.Fatalf("page 1 = %v full=%v err=%v", titles(p1.Items), p1.Full, p1.Err())
	}
	p2 := acc.Next(ctx, p1)
	if fmt.Sprint(titles(p2.Items)) != "[post 4 post 3 post 2]" || p2.Number != 2 {
		t.Fatalf("page 2 = %v #%d", titles(p2.Items), p2.Number)
	}
	p3 := acc.Next(ctx, p2)
	if fmt.Sprint(titles(p3.Items)) != "[post 1]" || p3.Full {
		t.Fatalf("page 3 = %v", titles(p3.Items))
	}
	back := acc.Previous(ctx, p3)
	if fmt.Sprint(titles(back.Items)) != "[post 4 post 3 post 2]" || back.Number != 2 {
		t.Fatalf("back = %v #%d", titles(back.Items), back.Number)
	}

	asc := acc.First(ctx, 2, listing.Order{Field: domain.FieldTitle, Dir: listing.Asc})
	if fmt.Sprint(titles(asc.Items)) != "[post 1 post 2]" {
		t.Fatalf("title order = %v", titles(asc.Items))
	}
}

func TestServerErrorsKeepTheirCode(t *testing.T) {
	t.Parallel()
	srv := feed(t, 0)
	c := NewClient(Options{BaseURL: srv.URL + "/api/v1"})

	_, err := c.Posts().Range(context.Background(), listing.Query{
		Order: listing.Order{Field: "likes", Dir: listing.Desc},
		Limit: 5,
	})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad order err = %v", err)
	}
	err = c.Get(context.Background(), "/content/latest", nil, &domain.Post{})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("latest err = %v", err)
	}
}

func TestParamsOf(t *testing.T) {
	t.Parallel()
	order := listing.Order{Field: "created_at", Dir: listing.Desc}
	cur := listing.Cursor{Key: "k", ID: "i"}

	p := ParamsOf(listing.Query{Order: order, Limit: 5, Before: &cur})
	if p.Size != 5 || p.Order != "created_at" || p.Dir != "desc" || p.After != "" {
		t.Fatalf("params = %+v", p)
	}
	tok, err := listing.DecodeToken(p.Before, order)
	if err != nil || tok.Cursor != cur {
		t.Fatalf("token = %+v, %v", tok, err)
	}
}

func TestListFetchIsSingleShot(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{BaseURL: srv.URL})
	acc := listing.NewAccessor(c.Posts(), listing.WithName("content"))
	page := acc.First(context.Background(), 5, listing.Order{Field: domain.FieldCreatedAt, Dir: listing.Desc})

	if n := hits.Load(); n != 1 {
		t.Fatalf("remote calls = %d, want 1", n)
	}
	if len(page.Items) != 0 || !perr.IsCode(page.Err(), perr.ErrorCodeUnavailable) {
		t.Fatalf("page = %+v, err = %v", page.Items, page.Err())
	}
}

func TestUsersSendsTokenAndDecodes(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" || r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.URL.Query().Get("order") != "email" || r.URL.Query().Get("size") != "2" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status_code":200,"status":"OK","data":{"items":[{"id":"u1","email":"ada@example.com","name":"Ada","role":"admin"}]}}`))
	}))
	t.Cleanup(srv.Close)

	q := listing.Query{Order: listing.Order{Field: "email", Dir: listing.Asc}, Limit: 2}
	items, err := NewClient(Options{BaseURL: srv.URL, Token: "tok"}).Users().Range(context.Background(), q)
	if err != nil || len(items) != 1 || items[0].Email != "ada@example.com" || items[0].Categories()[0] != "admin" {
		t.Fatalf("items = %+v, err = %v", items, err)
	}

	_, err = NewClient(Options{BaseURL: srv.URL}).Users().Range(context.Background(), q)
	if !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("anonymous err = %v", err)
	}
}

func TestEndpoint(t *testing.T) {
	t.Parallel()
	c := NewClient(Options{BaseURL: "http://api.test/api/v1/"})
	if got := c.Endpoint("/art"); got != "http://api.test/api/v1/art" {
		t.Fatalf("endpoint = %s", got)
	}
	if _, err := url.Parse(c.Endpoint("content")); err != nil {
		t.Fatal(err)
	}
}
