// Package validators holds the struct validator shared by the per-area
// request validators.
package validators

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates s and returns one message per failing field, keyed by the
// field's JSON name. It returns nil when s is valid.
func Struct(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"body": err.Error()}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fieldKey(fe)] = message(fe)
	}
	return out
}

// Var validates a single value against tag.
func Var(value any, tag string) error {
	return validate.Var(value, tag)
}

// fieldKey drops the top-level struct name from the namespace.
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required!"
	case "email":
		return fe.Field() + " must be a valid email!"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param() + "!"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param() + "!"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters long!"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param() + "!"
	default:
		return fe.Field() + " is invalid!"
	}
}
