// Package httpkit is what api modules route and answer with
// modules use it instead of importing internal/platform/net/http
package httpkit

import (
	"net/http"

	"atelier/internal/core/listing"
	phttp "atelier/internal/platform/net/http"
	"atelier/internal/platform/net/http/bind"
)

type (
	Router           = phttp.Router
	Response         = phttp.Response
	Page             = phttp.Page
	Form             = bind.Form
	MultipartOptions = bind.MultipartOptions
)

func Created(data any) Response  { return phttp.Created(data) }
func Accepted(data any) Response { return Response{Status: http.StatusAccepted, Body: data} }
func NoContent() Response        { return phttp.NoContent() }

// Paged renders a listing page with its opaque next and prev tokens
// has_next follows the unfiltered page so filtering never hides the next link
func Paged[T any](p listing.Page[T], items any) Response {
	links := listing.LinksOf(p)
	return phttp.List(items, Page{
		Page:     p.Number,
		PageSize: p.Size,
		Next:     links.Next,
		Prev:     links.Prev,
		HasNext:  links.Next != "",
		HasPrev:  links.Prev != "",
	})
}

// call answers with what fn returns; a Response picks its own status, anything else is a 200
func call(fn func(*http.Request) (any, error)) phttp.Handler {
	return phttp.Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

func withJSON[T any](fn func(*http.Request, T) (any, error)) phttp.Handler {
	return call(func(r *http.Request) (any, error) {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return nil, err
		}
		return fn(r, in)
	})
}

// the temp files backing the form are removed once fn returns
func withMultipart(opts MultipartOptions, fn func(*http.Request, *Form) (any, error)) phttp.Handler {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := bind.ParseMultipart(w, r, opts)
		if err != nil {
			phttp.RespondError(w, r, err)
			return
		}
		defer form.Close()
		call(func(r *http.Request) (any, error) { return fn(r, form) })(w, r)
	}
}

// Param returns a {name} route segment of r
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }

// Query decodes and validates the URL query of r into T
func Query[T any](r *http.Request) (T, error) { return bind.ParseQuery[T](r) }

// Validate runs the checks JSON bodies get on input assembled from form fields
func Validate(v any) error { return bind.Validate(v) }
