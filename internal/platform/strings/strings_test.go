package strings

import (
	std "strings"
	"testing"
)

func TestFileName(t *testing.T) {
	t.Parallel()
	cases := []struct{ in, want string }{
		{"photo.jpg", "photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\My Pic.PNG`, "My_Pic.PNG"},
		{".hidden", "hidden"},
		{"", "upload"},
		{"???", "upload"},
		{"日本.png", "______.png"},
	}
	for _, c := range cases {
		if got := FileName(c.in); got != c.want {
			t.Errorf("FileName(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	long := FileName(std.Repeat("a", 200) + ".jpg")
	if len(long) != maxFileName || !std.HasSuffix(long, ".jpg") {
		t.Fatalf("long name = %q (%d)", long, len(long))
	}
}

func TestStem(t *testing.T) {
	t.Parallel()
	cases := []struct{ in, want string }{
		{"Sunset over Tamar.jpg", "Sunset over Tamar"},
		{`C:\scans\sketch 04.png`, "sketch 04"},
		{"dir/noext", "noext"},
		{".png", ""},
		{"", ""},
		{"/", ""},
	}
	for _, c := range cases {
		if got := Stem(c.in); got != c.want {
			t.Errorf("Stem(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEmail(t *testing.T) {
	t.Parallel()
	if got := Email("  Ada@Example.COM "); got != "ada@example.com" {
		t.Fatalf("Email = %q", got)
	}
}

func TestMustPrefix(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]string{"/auth/": "/auth", " auth ": "/auth", "//meta//": "/meta", "art": "/art"} {
		if got := MustPrefix(in); got != want {
			t.Errorf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	for _, in := range []string{"", "/", " // "} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("MustPrefix(%q) did not panic", in)
				}
			}()
			MustPrefix(in)
		}()
	}
}
