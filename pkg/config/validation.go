package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Tag     string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors aggregates every invalid field found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Message
	}
	return fmt.Sprintf("config validation failed: %s", strings.Join(msgs, "; "))
}

// Validator wraps go-playground/validator for config structs.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator for Config values.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// ValidateConfig checks every tagged field and returns ValidationErrors
// listing all failures, or nil when the config is valid.
func (v *Validator) ValidateConfig(config *Config) error {
	if config == nil {
		return ValidationErrors{{
			Field:   "Config",
			Tag:     "required",
			Message: "config must not be nil",
		}}
	}

	err := v.validate.Struct(config)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{
			Field:   "Config",
			Tag:     "struct",
			Message: err.Error(),
		}}
	}

	errs := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		field := strings.TrimPrefix(fe.StructNamespace(), "Config.")
		errs = append(errs, ValidationError{
			Field:   field,
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: validationMessage(field, fe),
		})
	}
	return errs
}

func validationMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "required":
		return fmt.Sprintf("%s is required", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
