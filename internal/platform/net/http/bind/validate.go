// Package bind decodes request bodies and queries into structs and validates them
package bind

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	perr "atelier/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

type validation struct {
	v     *validator.Validate
	trans ut.Translator
}

// shorter than the stock english texts
var messages = map[string]string{
	"min":   "{0} must be at least {1}",
	"max":   "{0} must be at most {1}",
	"oneof": "{0} must be one of [{1}]",
}

var validate = sync.OnceValue(func() validation {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	for tag, text := range messages {
		_ = v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(tag, fe.Field(), fe.Param())
				return msg
			},
		)
	}
	return validation{v: v, trans: trans}
})

// jsonName makes messages and fields use the json key, falling back to the Go name
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// Validate runs the validate tags of v; the first failing field names the error
// values that are not structs carry no tags and pass
func Validate(v any) error {
	s := validate()
	err := s.v.Struct(v)
	var inv *validator.InvalidValidationError
	if err == nil || errors.As(err, &inv) {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "validate")
	}
	fe := fields[0]
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", fe.Translate(s.trans)), fe.Field())
}
