// Package markup renders post bodies from markdown to sanitized HTML
package markup

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer is safe for concurrent use
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strip  *bluemonday.Policy
}

// New builds a renderer with GFM enabled
// raw HTML passes through goldmark and is cleaned by the UGC policy afterwards
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithUnsafe(),
		),
	)
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &Renderer{md: md, policy: p, strip: bluemonday.StrictPolicy()}
}

// HTML converts markdown to HTML that is safe to embed
func (r *Renderer) HTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return r.policy.Sanitize(buf.String()), nil
}

// Text returns the visible text of a markdown body with whitespace collapsed
func (r *Renderer) Text(src string) string {
	h, err := r.HTML(src)
	if err != nil {
		h = src
	}
	return strings.Join(strings.Fields(html.UnescapeString(r.strip.Sanitize(h))), " ")
}

// Excerpt returns at most n runes of Text, cut on a word boundary with an ellipsis
func (r *Renderer) Excerpt(src string, n int) string {
	t := r.Text(src)
	if n <= 0 || utf8.RuneCountInString(t) <= n {
		return t
	}
	runes := []rune(t)[:n]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
