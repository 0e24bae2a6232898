package domain

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ErrValidation is returned when request input is malformed.
var ErrValidation = errors.New("validation failed")

// validationError attaches ErrValidation to the field errors produced by ozzo-validation,
// leaving the field map reachable through errors.As.
func validationError(err error) error {
	if err == nil {
		return nil
	}

	return errors.Join(ErrValidation, err)
}

// ValidationErrors extracts the per-field validation errors from err, if any.
func ValidationErrors(err error) (validation.Errors, bool) {
	var errs validation.Errors
	if errors.As(err, &errs) {
		return errs, true
	}

	return nil, false
}

func maxBytes(limit int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > limit {
			return fmt.Errorf("must be no more than %d bytes", limit)
		}

		return nil
	}
}
