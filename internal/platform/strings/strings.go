// Package strings normalizes the user supplied strings that end up as keys
package strings

import (
	"path"
	std "strings"
)

// Email is the lookup key form of an address
func Email(s string) string { return std.ToLower(std.TrimSpace(s)) }

// MustPrefix cleans a mount prefix to one leading slash and no trailing one; "/" and "" panic
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), "/")
	if s == "/" {
		panic("mount prefix is required")
	}
	return s
}

// base is the last element of a client path, windows separators included
func base(name string) string {
	return path.Base(std.ReplaceAll(std.TrimSpace(name), "\\", "/"))
}

// Stem is the file name without directories or extension; "" when nothing is left
func Stem(name string) string {
	b := base(name)
	b = std.TrimSpace(std.TrimSuffix(b, path.Ext(b)))
	if b == "." || b == "/" {
		return ""
	}
	return b
}

const maxFileName = 96

// FileName reduces a client file name to one blob key segment of [A-Za-z0-9._-]
func FileName(name string) string {
	b := []byte(base(name))
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-', c == '_':
		default:
			b[i] = '_'
		}
	}
	out := std.TrimLeft(string(b), ".")
	if std.Trim(out, "_") == "" {
		return "upload"
	}
	if len(out) > maxFileName {
		ext := path.Ext(out)
		if len(ext) > 10 {
			ext = ""
		}
		out = out[:maxFileName-len(ext)] + ext
	}
	return out
}
