package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	perr "atelier/internal/platform/errors"

	"github.com/dustin/go-humanize"
)

// JSONOptions tunes ParseJSON
type JSONOptions struct {
	MaxBytes     int64 // default 1MB
	AllowUnknown bool
}

// ParseJSON decodes one JSON document into T and validates it
// an empty body is the zero T for GET and DELETE and a JSON error otherwise
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := JSONOptions{MaxBytes: 1 << 20}
	if len(opts) > 0 {
		o.AllowUnknown = opts[0].AllowUnknown
		if opts[0].MaxBytes > 0 {
			o.MaxBytes = opts[0].MaxBytes
		}
	}
	if r.Body == nil {
		r.Body = http.NoBody
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, o.MaxBytes+1))
	if err != nil {
		return zero, perr.Wrap(err, perr.ErrorCodeJSON, "read body")
	}
	if int64(len(body)) > o.MaxBytes {
		return zero, perr.TooLargef("body exceeds %s", humanize.IBytes(uint64(o.MaxBytes)))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if r.Method == http.MethodGet || r.Method == http.MethodDelete {
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if !o.AllowUnknown {
		dec.DisallowUnknownFields()
	}
	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Validate(dst); err != nil {
		return zero, err
	}
	return dst, nil
}
