package psi

import (
	"fmt"
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("psitype", func(fl validator.FieldLevel) bool {
		return Valid(Type(fl.Field().String()))
	})
	_ = validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.Float64 && f.Kind() != reflect.Float32 {
			return false
		}
		v := f.Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	})
}

// ValidateSet checks a PSI set's id, type symbols and values.
func ValidateSet(s *Set) error {
	if s == nil {
		return fmt.Errorf("%w: nil set", ErrInvalidSet)
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSet, s.ID, formatValidationError(err))
	}
	return nil
}

// ValidatePoint checks a KHI entry.
func ValidatePoint(p *Point) error {
	if p == nil {
		return fmt.Errorf("%w: nil point", ErrInvalidSet)
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSet, p.ID, formatValidationError(err))
	}
	return nil
}

// formatValidationError reports the first failing field in a readable form.
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, e := range validationErrs {
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", e.Field())
		case "min":
			return fmt.Errorf("%s: must have at least %s entries", e.Field(), e.Param())
		case "max":
			return fmt.Errorf("%s: must not exceed %s", e.Field(), e.Param())
		case "psitype":
			return fmt.Errorf("%s: unknown edge type %q", e.Field(), e.Value())
		case "finite":
			return fmt.Errorf("%s: value must be finite", e.Field())
		case "gte":
			return fmt.Errorf("%s: must be at least %s", e.Field(), e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
		}
	}
	return err
}
