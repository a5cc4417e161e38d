package listing

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	perr "atelier/internal/platform/errors"
)

// ErrOrderChanged rejects a cursor minted under a different order
var ErrOrderChanged = errors.New("cursor belongs to a different order")

// Token is the wire form of a cursor: opaque, URL safe, and bound to its order
type Token struct {
	Cursor Cursor `json:"c"`
	Order  Order  `json:"o"`
	Page   int    `json:"p"`
}

// Encode returns the URL safe form of t
func (t Token) Encode() string {
	b, _ := json.Marshal(t)
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeToken parses s and checks it was minted under want
func DecodeToken(s string, want Order) (Token, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Token{}, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "malformed cursor")
	}
	var t Token
	if err := json.Unmarshal(raw, &t); err != nil {
		return Token{}, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "malformed cursor")
	}
	if t.Cursor.ID == "" || t.Page < 1 {
		return Token{}, perr.New(perr.ErrorCodeInvalidArgument, "malformed cursor")
	}
	if t.Order != want {
		return Token{}, perr.Wrap(ErrOrderChanged, perr.ErrorCodeInvalidArgument, "cursor belongs to a different order; restart from the first page")
	}
	return t, nil
}

// Links are the tokens a client follows from p
type Links struct {
	Next string
	Prev string
}

// LinksOf mints the next and previous tokens of p
// next needs a full page, previous needs a page past the first
func LinksOf[T any](p Page[T]) Links {
	var l Links
	if p.Full && p.End != nil {
		l.Next = Token{Cursor: *p.End, Order: p.Order, Page: p.Number + 1}.Encode()
	}
	if p.Number > 1 && p.Start != nil {
		l.Prev = Token{Cursor: *p.Start, Order: p.Order, Page: p.Number - 1}.Encode()
	}
	return l
}

// Resume rebuilds the page a token was minted from so Next or Previous can continue it
// an after token resumes the page before it, a before token the page after it
func Resume[T any](t Token, size int, after bool) Page[T] {
	c := t.Cursor
	if after {
		return Page[T]{Number: t.Page - 1, Size: ClampSize(size), Order: t.Order, End: &c}
	}
	return Page[T]{Number: t.Page + 1, Size: ClampSize(size), Order: t.Order, Start: &c}
}
