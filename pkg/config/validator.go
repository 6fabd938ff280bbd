package config

import (
	"errors"
	"fmt"
	"math"
)

// Validator provides a fluent interface for validating configuration values.
// It collects all validation errors rather than failing on the first one.
type Validator struct {
	errors []error
	name   string
}

// NewValidator creates a validator whose messages are prefixed with name.
func NewValidator(name string) *Validator {
	return &Validator{name: name}
}

func (v *Validator) fail(field, format string, args ...any) {
	v.errors = append(v.errors, fmt.Errorf("%s.%s: %s", v.name, field, fmt.Sprintf(format, args...)))
}

// Required validates that a string field is not empty.
func (v *Validator) Required(field, value string) *Validator {
	if value == "" {
		v.fail(field, "required field is empty")
	}
	return v
}

// RangeInt validates that an int field is within [min, max].
func (v *Validator) RangeInt(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.fail(field, "value %d is outside range [%d, %d]", value, min, max)
	}
	return v
}

// NonNegative validates that an int field is non-negative (>= 0).
func (v *Validator) NonNegative(field string, value int) *Validator {
	if value < 0 {
		v.fail(field, "value %d must be non-negative", value)
	}
	return v
}

// RangeFloat validates that a float field is finite and within [min, max].
func (v *Validator) RangeFloat(field string, value, min, max float64) *Validator {
	if math.IsNaN(value) || value < min || value > max {
		v.fail(field, "value %g is outside range [%g, %g]", value, min, max)
	}
	return v
}

// Custom applies a custom validation function.
func (v *Validator) Custom(field string, fn func() error) *Validator {
	if err := fn(); err != nil {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: %w", v.name, field, err))
	}
	return v
}

// When conditionally applies validations if the condition is true.
func (v *Validator) When(condition bool, validations func(*Validator)) *Validator {
	if condition {
		validations(v)
	}
	return v
}

// HasErrors returns true if any validation errors occurred.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []error {
	return v.errors
}

// Validate returns every failure joined, or nil.
func (v *Validator) Validate() error {
	if len(v.errors) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(v.errors...))
}
