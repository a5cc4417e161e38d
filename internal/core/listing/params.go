package listing

import (
	"context"
	"strings"

	perr "atelier/internal/platform/errors"
)

// Params are the query parameters every list endpoint shares
//
// After and Before carry tokens minted by LinksOf. Q and Sort narrow the fetched
// page only; they never reach the Source
type Params struct {
	Size    int    `query:"size" validate:"omitempty,min=1,max=100"`
	Order   string `query:"order" validate:"omitempty,max=32"`
	Dir     string `query:"dir" validate:"omitempty,oneof=asc desc ASC DESC"`
	After   string `query:"after" validate:"omitempty,max=512"`
	Before  string `query:"before" validate:"omitempty,max=512"`
	Q       string `query:"q" validate:"omitempty,max=200"`
	Sort    string `query:"sort" validate:"omitempty,max=32"`
	SortDir string `query:"sort_dir" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// Filter builds the in-memory filter of p; category comes from the endpoint's own param
func (p Params) Filter(category string) FilterState {
	return FilterState{
		Search:   p.Q,
		Category: strings.TrimSpace(category),
		SortBy:   strings.TrimSpace(p.Sort),
		Desc:     strings.EqualFold(p.SortDir, string(Desc)),
	}
}

// Serve answers p from acc: the first page, or the page after or before a token
//
// order is resolved against def and allowed before any token is read, so a token
// minted under another order is rejected instead of silently reinterpreted
func Serve[T Record](ctx context.Context, acc *Accessor[T], p Params, def Order, allowed ...string) (Page[T], error) {
	order, err := ParseOrder(p.Order, p.Dir, def, allowed...)
	if err != nil {
		return Page[T]{}, err
	}
	switch {
	case p.After != "" && p.Before != "":
		return Page[T]{}, perr.WithField(perr.New(perr.ErrorCodeInvalidArgument, "after and before cannot be combined"), "before")
	case p.After != "":
		t, err := DecodeToken(p.After, order)
		if err != nil {
			return Page[T]{}, perr.WithField(err, "after")
		}
		return acc.Next(ctx, Resume[T](t, p.Size, true)), nil
	case p.Before != "":
		t, err := DecodeToken(p.Before, order)
		if err != nil {
			return Page[T]{}, perr.WithField(err, "before")
		}
		return acc.Previous(ctx, Resume[T](t, p.Size, false)), nil
	}
	return acc.First(ctx, p.Size, order), nil
}
