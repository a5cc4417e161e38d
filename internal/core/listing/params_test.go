package listing

import (
	"context"
	"reflect"
	"testing"

	perr "atelier/internal/platform/errors"
)

func TestServeFollowsTokens(t *testing.T) {
	t.Parallel()
	acc := NewAccessor[item](seeded(7))
	ctx := context.Background()
	def := newestFirst

	first, err := Serve(ctx, acc, Params{}, def, "created_at")
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(first.Items); !reflect.DeepEqual(got, []string{"t7", "t6", "t5", "t4", "t3"}) {
		t.Fatalf("first = %v", got)
	}
	links := LinksOf(first)
	if links.Next == "" || links.Prev != "" {
		t.Fatalf("first links = %+v", links)
	}

	second, err := Serve(ctx, acc, Params{After: links.Next}, def, "created_at")
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(second.Items); second.Number != 2 || !reflect.DeepEqual(got, []string{"t2", "t1"}) {
		t.Fatalf("second = %d %v", second.Number, got)
	}
	links = LinksOf(second)
	if links.Next != "" || links.Prev == "" {
		t.Fatalf("second links = %+v", links)
	}

	back, err := Serve(ctx, acc, Params{Before: links.Prev}, def, "created_at")
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(back.Items); back.Number != 1 || !reflect.DeepEqual(got, []string{"t7", "t6", "t5", "t4", "t3"}) {
		t.Fatalf("back = %d %v", back.Number, got)
	}
}

func TestServeRejects(t *testing.T) {
	t.Parallel()
	acc := NewAccessor[item](seeded(3))
	ctx := context.Background()
	p := acc.First(ctx, 1, newestFirst)
	tok := LinksOf(p).Next

	cases := []struct {
		name  string
		p     Params
		field string
	}{
		{"unknown order", Params{Order: "title"}, "order"},
		{"bad dir", Params{Dir: "sideways"}, "dir"},
		{"both tokens", Params{After: tok, Before: tok}, "before"},
		{"garbage token", Params{After: "%%%"}, "after"},
		{"token from another order", Params{Dir: "asc", After: tok}, "after"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Serve(ctx, acc, tc.p, newestFirst, "created_at")
			e, ok := perr.As(err)
			if !ok || e.Code() != perr.ErrorCodeInvalidArgument || e.Field() != tc.field {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestParamsFilter(t *testing.T) {
	t.Parallel()
	f := Params{Q: "dawn", Sort: " title ", SortDir: "DESC"}.Filter(" oil ")
	want := FilterState{Search: "dawn", Category: "oil", SortBy: "title", Desc: true}
	if f != want {
		t.Fatalf("filter = %+v", f)
	}
}
