package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"atelier/internal/core/listing"
	artdom "atelier/internal/services/api/art/domain"
	contentdom "atelier/internal/services/api/content/domain"
	usersdom "atelier/internal/services/api/users/domain"

	"github.com/dustin/go-humanize"
)

const help = `commands:
  n               next page
  p               previous page
  o FIELD [DIR]   server order, restarts at page one (created_at, title, name, email; asc, desc)
  / TEXT          search the loaded page
  t TAG           keep items tagged TAG, or with role TAG for users
  s FIELD [DIR]   sort the loaded page
  c               clear search, tag and sort
  x N             expand or collapse item N
  r               reload page one
  h               this help
  q               quit`

// renderer prints one item; expanded items show their full detail
type renderer[T any] func(w io.Writer, n int, item T, expanded bool)

// browse runs the prompt until q, EOF or ctx is done
func browse[T listing.Record](ctx context.Context, in io.Reader, out io.Writer, src listing.Source[T], name string, size int, render renderer[T]) error {
	acc := listing.NewAccessor(src, listing.WithName(name))
	v := listing.NewView(acc, size, listing.Order{Field: "created_at", Dir: listing.Desc})
	v.Load(ctx)
	show(out, v, render)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "h", "help", "?":
			fmt.Fprintln(out, help)
			continue
		case "n":
			if !v.CanNext() {
				fmt.Fprintln(out, "no next page")
				continue
			}
			v.Next(ctx)
		case "p":
			if !v.CanPrevious() {
				fmt.Fprintln(out, "already on the first page")
				continue
			}
			v.Previous(ctx)
		case "r":
			v.Load(ctx)
		case "o":
			o, err := parseOrder(arg, v.Order())
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			v.SetOrder(ctx, o)
		case "/":
			f := v.Filter()
			f.Search = arg
			v.SetFilter(f)
		case "t":
			f := v.Filter()
			f.Category = strings.ToLower(arg)
			v.SetFilter(f)
		case "s":
			f := v.Filter()
			field, dir, _ := strings.Cut(arg, " ")
			f.SortBy, f.Desc = field, strings.EqualFold(strings.TrimSpace(dir), "desc")
			v.SetFilter(f)
		case "c":
			v.SetFilter(listing.FilterState{})
		case "x":
			items := v.Visible()
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 || n > len(items) {
				fmt.Fprintf(out, "x needs an item number between 1 and %d\n", len(items))
				continue
			}
			v.Toggle(items[n-1].RecordID())
		default:
			fmt.Fprintf(out, "unknown command %q, h for help\n", cmd)
			continue
		}
		show(out, v, render)
	}
}

func parseOrder(arg string, cur listing.Order) (listing.Order, error) {
	field, dir, _ := strings.Cut(arg, " ")
	if field == "" {
		return cur, fmt.Errorf("o needs a field")
	}
	o := listing.Order{Field: field, Dir: listing.Asc}
	switch listing.Direction(strings.ToLower(strings.TrimSpace(dir))) {
	case "", listing.Asc:
	case listing.Desc:
		o.Dir = listing.Desc
	default:
		return cur, fmt.Errorf("direction must be asc or desc")
	}
	return o, nil
}

func show[T listing.Record](out io.Writer, v *listing.View[T], render renderer[T]) {
	p := v.Page()
	if err := p.Err(); err != nil {
		fmt.Fprintf(out, "could not load page: %v\n", err)
	}
	items := v.Visible()
	fmt.Fprintf(out, "page %d  order %s", p.Number, p.Order)
	if f := v.Filter(); !f.IsZero() {
		fmt.Fprintf(out, "  filter %q tag %q sort %q", f.Search, f.Category, f.SortBy)
	}
	fmt.Fprintf(out, "  %d of %d shown\n", len(items), len(p.Items))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, it := range items {
		render(tw, i+1, it, v.Expanded(it.RecordID()))
	}
	_ = tw.Flush()

	var nav []string
	if v.CanPrevious() {
		nav = append(nav, "p: previous")
	}
	if v.CanNext() {
		nav = append(nav, "n: next")
	}
	if len(nav) > 0 {
		fmt.Fprintln(out, strings.Join(nav, "  "))
	}
}

func renderPost(w io.Writer, n int, p contentdom.Post, expanded bool) {
	fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", n, p.Title, humanize.Time(p.CreatedAt), strings.Join(p.Tags, ", "))
	if !expanded {
		return
	}
	fmt.Fprintf(w, "\t%s\n", p.Body)
	if p.PhotoURL != "" {
		fmt.Fprintf(w, "\tphoto %s\n", p.PhotoURL)
	}
}

func renderArtwork(w io.Writer, n int, a artdom.Artwork, expanded bool) {
	fmt.Fprintf(w, "%d\t%s\t%dx%d\t%s\t%s\n", n, a.Title, a.Width, a.Height, humanize.IBytes(uint64(a.Size)), strings.Join(a.Tags, ", "))
	if !expanded {
		return
	}
	fmt.Fprintf(w, "\timage %s\n", a.ImageURL)
	if a.ThumbURL != "" {
		fmt.Fprintf(w, "\tthumb %s\n", a.ThumbURL)
	}
	if a.Exif != nil && a.Exif.Model != "" {
		fmt.Fprintf(w, "\tcamera %s %s\n", a.Exif.Make, a.Exif.Model)
	}
}

func renderUser(w io.Writer, n int, u usersdom.User, expanded bool) {
	fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", n, u.Name, u.Email, u.Role, humanize.Time(u.CreatedAt))
	if !expanded {
		return
	}
	if u.Bio != "" {
		fmt.Fprintf(w, "\t%s\n", u.Bio)
	}
	if len(u.Interests) > 0 {
		fmt.Fprintf(w, "\tinterests %s\n", strings.Join(u.Interests, ", "))
	}
}
