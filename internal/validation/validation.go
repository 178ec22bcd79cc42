// Package validation wraps go-playground/validator so request bodies are
// checked at the handler boundary instead of being passed around as
// untyped maps.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks the struct's validate tags and returns a map of
// field -> human-readable message for every failure.
func (v *Validator) Validate(i any) (map[string]string, error) {
	err := v.validate.Struct(i)
	if err == nil {
		return nil, nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}

	fieldErrors := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		fieldErrors[lowerFirst(fieldError.Field())] = message(fieldError)
	}

	return fieldErrors, nil
}

func message(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not exceed %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("The %s field must be a valid URL", field)
	case "latitude":
		return fmt.Sprintf("The %s field must be a valid latitude", field)
	case "longitude":
		return fmt.Sprintf("The %s field must be a valid longitude", field)
	case "gte":
		return fmt.Sprintf("The %s field must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s field must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
