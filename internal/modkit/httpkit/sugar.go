package httpkit

import "net/http"

func Get(r Router, path string, h func(*http.Request) (any, error))    { r.Get(path, call(h)) }
func Delete(r Router, path string, h func(*http.Request) (any, error)) { r.Delete(path, call(h)) }

func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, withJSON(h))
}

func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Put(path, withJSON(h))
}

func PatchJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Patch(path, withJSON(h))
}

func PostMultipart(r Router, path string, opts MultipartOptions, h func(*http.Request, *Form) (any, error)) {
	r.Post(path, withMultipart(opts, h))
}

func PutMultipart(r Router, path string, opts MultipartOptions, h func(*http.Request, *Form) (any, error)) {
	r.Put(path, withMultipart(opts, h))
}
