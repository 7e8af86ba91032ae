// Package validation is the explicit validation step run by handlers
// before any use case or storage call.
//
// Check is a pure function: it takes a decoded request value and returns
// the list of rule violations found in its validate:"..." tags. An empty
// list means the value is valid.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation describes one failed rule on one field.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Message
}

// The validator caches struct metadata, so one instance is shared.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON names ("nomeCompleto") instead of Go names ("FullName"),
	// since that is what the client sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Registration only fails on an empty tag name or nil func.
	_ = v.RegisterValidation("fullname", fullName)
	_ = v.RegisterValidation("notblank", notBlank)

	return v
}

// fullName accepts strings with at least two whitespace-separated words.
func fullName(fl validator.FieldLevel) bool {
	return len(strings.Fields(fl.Field().String())) >= 2
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Check validates v and returns every violation found.
func Check(v any) []Violation {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: v was not a struct. That is a programming
		// error, but it still must not let the request through.
		return []Violation{{Rule: "struct", Message: err.Error()}}
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		violations = append(violations, Violation{
			Field:   e.Field(),
			Rule:    e.ActualTag(),
			Message: message(e),
		})
	}
	return violations
}

func message(e validator.FieldError) string {
	switch e.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("field %s must not be blank", e.Field())
	case "fullname":
		return fmt.Sprintf("field %s must contain a first and a last name", e.Field())
	default:
		return fmt.Sprintf("field %s is invalid", e.Field())
	}
}
