// Package fold produces search keys for case and accent insensitive matching
//
// Fold applies, in order: control stripping, canonical decomposition, removal of
// combining and format marks, NFKC, unicode case folding, width folding and
// whitespace collapsing. "Café", "CAFE" and "ｃａｆｅ" all fold to "cafe"
package fold

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var chains = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			norm.NFKC,
			cases.Fold(),
			width.Fold,
		)
	},
}

// Fold returns the search key of s
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = Clean(s)
	tr := chains.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chains.Put(tr)
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(out), " ")
}

// Contains reports whether needle occurs in haystack after folding both
// an empty needle matches everything
func Contains(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Fold(haystack), n)
}

// Equal compares two strings by their search keys
func Equal(a, b string) bool { return Fold(a) == Fold(b) }
