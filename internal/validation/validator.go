// Package validation validates client request values using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/babybuddywidgets/bbclient/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v        *validator.Validate
	messages map[string]string // custom tag -> friendly message
}

// New creates a validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "":
			return fld.Name
		case "-":
			return ""
		}
		return name
	})

	return &Validator{v: v, messages: make(map[string]string)}
}

// RegisterStringCheck adds a custom tag that validates string-kinded fields with fn.
// msg is reported for fields failing the check.
// Must be called before the validator is shared between goroutines.
func (v *Validator) RegisterStringCheck(tag, msg string, fn func(string) bool) error {
	err := v.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.String {
			return false
		}
		return fn(f.String())
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", tag, err)
	}
	v.messages[tag] = msg
	return nil
}

// Validate validates a struct and returns a validation error with per-field details.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return domainerrors.Validation(err.Error())
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	names := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)
		names = append(names, e.Field()+" "+fieldErrors[e.Field()])
	}

	return domainerrors.ValidationWithDetails("validation failed: "+strings.Join(names, "; "), fieldErrors)
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	if msg, ok := v.messages[e.Tag()]; ok {
		return msg
	}
	switch e.Tag() {
	case "required":
		return "is required"
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must not exceed " + e.Param()
	default:
		return "is invalid"
	}
}
