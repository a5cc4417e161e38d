package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"atelier/internal/core/listing"
	contentdom "atelier/internal/services/api/content/domain"
	usersdom "atelier/internal/services/api/users/domain"
)

// newestFirst serves posts in the default order only
func newestFirst(posts []contentdom.Post) listing.Source[contentdom.Post] {
	index := func(id string) int {
		for i, p := range posts {
			if p.ID == id {
				return i
			}
		}
		return -1
	}
	return listing.SourceFunc[contentdom.Post](func(_ context.Context, q listing.Query) ([]contentdom.Post, error) {
		switch {
		case q.After != nil:
			i := index(q.After.ID) + 1
			return posts[i:min(i+q.Limit, len(posts))], nil
		case q.Before != nil:
			i := index(q.Before.ID)
			return posts[max(0, i-q.Limit):i], nil
		}
		return posts[:min(q.Limit, len(posts))], nil
	})
}

func feed(n int) []contentdom.Post {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var out []contentdom.Post
	for i := n; i >= 1; i-- {
		out = append(out, contentdom.Post{
			ID:        fmt.Sprintf("p%d", i),
			Title:     fmt.Sprintf("post %d", i),
			Body:      fmt.Sprintf("body %d", i),
			Tags:      []string{map[bool]string{true: "even", false: "odd"}[i%2 == 0]},
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	return out
}

func TestBrowseSession(t *testing.T) {
	t.Parallel()
	in := strings.NewReader(strings.Join([]string{
		"n",
		"x 1",
		"/ post 3",
		"c",
		"t even",
		"c",
		"p",
		"p",
		"o title sideways",
		"x 9",
		"zap",
		"q",
		"n",
	}, "\n"))
	var out bytes.Buffer
	if err := browse(context.Background(), in, &out, newestFirst(feed(7)), "content", 3, renderPost); err != nil {
		t.Fatal(err)
	}
	got := out.String()

	for _, want := range []string{
		"page 1  order created_at:desc  3 of 3 shown",
		"page 2  order created_at:desc  3 of 3 shown",
		"body 4",
		`filter "post 3" tag "" sort ""  1 of 3 shown`,
		`filter "" tag "even" sort ""  2 of 3 shown`,
		"already on the first page",
		"direction must be asc or desc",
		"x needs an item number between 1 and 3",
		`unknown command "zap"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output lacks %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "page 2  order") != 6 {
		t.Fatalf("expected six renders of page 2:\n%s", got)
	}
}

func TestBrowseStopsAtTheLastPage(t *testing.T) {
	t.Parallel()
	in := strings.NewReader("n\nn\nn\n")
	var out bytes.Buffer
	if err := browse(context.Background(), in, &out, newestFirst(feed(4)), "content", 3, renderPost); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "page 2  order created_at:desc  1 of 1 shown") || !strings.Contains(got, "no next page") {
		t.Fatalf("output:\n%s", got)
	}
}

func TestBrowseUsers(t *testing.T) {
	t.Parallel()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	accounts := []usersdom.User{
		{ID: "u3", Name: "Cy", Email: "cy@example.com", Role: usersdom.RoleUser, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "u2", Name: "Bo", Email: "bo@example.com", Role: usersdom.RoleAdmin, CreatedAt: base.Add(2 * time.Hour), Bio: "runs the studio"},
		{ID: "u1", Name: "Al", Email: "al@example.com", Role: usersdom.RoleUser, CreatedAt: base.Add(time.Hour)},
	}
	src := listing.SourceFunc[usersdom.User](func(_ context.Context, q listing.Query) ([]usersdom.User, error) {
		if q.After != nil || q.Before != nil {
			return nil, nil
		}
		return accounts, nil
	})

	in := strings.NewReader("t ADMIN\nx 1\nc\ns email\nq\n")
	var out bytes.Buffer
	if err := browse(context.Background(), in, &out, src, "users", 5, renderUser); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{
		"page 1  order created_at:desc  3 of 3 shown",
		`filter "" tag "admin" sort ""  1 of 3 shown`,
		"runs the studio",
		`filter "" tag "" sort "email"  3 of 3 shown`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output lacks %q:\n%s", want, got)
		}
	}
	sorted := got[strings.LastIndex(got, `sort "email"`):]
	if a, c := strings.Index(sorted, "al@example.com"), strings.Index(sorted, "cy@example.com"); a < 0 || a > c {
		t.Fatalf("email sort not applied:\n%s", sorted)
	}
}

func TestParseOrder(t *testing.T) {
	t.Parallel()
	cur := listing.Order{Field: "created_at", Dir: listing.Desc}
	tests := []struct {
		arg  string
		want listing.Order
		ok   bool
	}{
		{"title", listing.Order{Field: "title", Dir: listing.Asc}, true},
		{"title DESC", listing.Order{Field: "title", Dir: listing.Desc}, true},
		{"", cur, false},
		{"title up", cur, false},
	}
	for _, tc := range tests {
		got, err := parseOrder(tc.arg, cur)
		if (err == nil) != tc.ok || got != tc.want {
			t.Fatalf("parseOrder(%q) = %v, %v", tc.arg, got, err)
		}
	}
}
