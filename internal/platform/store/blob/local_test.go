package blob

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestLocalRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l, err := OpenLocal(t.TempDir(), "https://cdn.example.com/media")
	if err != nil {
		t.Fatal(err)
	}

	if err := l.Put(ctx, "art/2026/03/a.png", strings.NewReader("png-bytes"), -1, "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	rc, obj, err := l.Get(ctx, "art/2026/03/a.png")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "png-bytes" || obj.Size != 9 || obj.ContentType != "image/png" {
		t.Fatalf("got %q %+v", body, obj)
	}

	u, err := l.URL(ctx, "art/2026/03/a.png")
	if err != nil || u != "https://cdn.example.com/media/art/2026/03/a.png" {
		t.Fatalf("URL = %q, %v", u, err)
	}

	if err := l.Delete(ctx, "art/2026/03/a.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := l.Delete(ctx, "art/2026/03/a.png"); err != nil {
		t.Fatalf("second Delete should be a no-op: %v", err)
	}
	if _, _, err := l.Get(ctx, "art/2026/03/a.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}
}

func TestLocalListPrefixOrdered(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l, _ := OpenLocal(t.TempDir(), "")
	for _, k := range []string{"content/b.jpg", "art/z.png", "art/a.png", "avatars/u1.png"} {
		if err := l.Put(ctx, k, strings.NewReader(k), -1, ""); err != nil {
			t.Fatal(err)
		}
	}
	var keys []string
	_ = l.List(ctx, "art/", func(o Object) error {
		keys = append(keys, o.Key)
		return nil
	})
	if strings.Join(keys, ",") != "art/a.png,art/z.png" {
		t.Fatalf("keys = %v", keys)
	}

	stop := errors.New("stop")
	n := 0
	err := l.List(ctx, "", func(Object) error {
		n++
		return stop
	})
	if !errors.Is(err, stop) || n != 1 {
		t.Fatalf("List should stop on callback error, n=%d err=%v", n, err)
	}
}

func TestCleanKey(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"art/a.png":      "art/a.png",
		"/art//a.png":    "art/a.png",
		"../etc/passwd":  "etc/passwd",
		"art/../../x":    "x",
		"":               "",
		"/":              "",
	}
	for in, want := range cases {
		got, err := CleanKey(in)
		if want == "" {
			if err == nil {
				t.Fatalf("CleanKey(%q) should fail, got %q", in, got)
			}
			continue
		}
		if err != nil || got != want {
			t.Fatalf("CleanKey(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestNewKey(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	k := NewKey("/art/", "Sunset.JPG", at)
	if !regexp.MustCompile(`^art/2026/03/[0-9a-f-]{36}\.jpg$`).MatchString(k) {
		t.Fatalf("NewKey = %q", k)
	}
	if k := NewKey("art", "weird.name with space", at); strings.Contains(k, " ") {
		t.Fatalf("extension with spaces leaked: %q", k)
	}
}
