package bind

import (
	"net/http"

	perr "atelier/internal/platform/errors"

	"github.com/go-viper/mapstructure/v2"
)

// ParseQuery decodes the URL query into T by `query` tags and validates it
// repeated keys fill slices; scalar fields take the first value
func ParseQuery[T any](r *http.Request) (T, error) {
	var dst, zero T
	raw := make(map[string]any, len(r.URL.Query()))
	for k, vs := range r.URL.Query() {
		if len(vs) == 1 {
			raw[k] = vs[0]
		} else if len(vs) > 1 {
			raw[k] = vs
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "query",
		WeaklyTypedInput: true,
		Result:           &dst,
	})
	if err != nil {
		return zero, perr.Wrap(err, perr.ErrorCodeUnknown, "query decoder")
	}
	if err := dec.Decode(raw); err != nil {
		return zero, perr.InvalidArgf("invalid query: %v", err)
	}
	if err := Validate(dst); err != nil {
		return zero, err
	}
	return dst, nil
}
