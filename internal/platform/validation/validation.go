// Package validation checks request structs declared with `validate` tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is wrapped by every *Error so callers can test with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes one failed rule. Field is the json name of the field.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

// Error lists every field that failed validation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return ErrInvalidInput }

// String renders the failure as a short human message, e.g. "email must be a valid email".
func (f FieldError) String() string {
	switch f.Rule {
	case "required":
		return f.Field + " is required"
	case "email":
		return f.Field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", f.Field, f.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f.Field, f.Param)
	default:
		return fmt.Sprintf("%s failed %s", f.Field, f.Rule)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates s and returns *Error when any rule fails.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}
