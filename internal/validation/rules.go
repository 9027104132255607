// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/healplus/compliance/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// OneOf builds a rule that accepts only the given values. Empty strings pass;
// combine with validation.Required when the field is mandatory.
func OneOf(values ...string) validation.Rule {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return validation.NewStringRuleWithError(
		func(s string) bool {
			if s == "" {
				return true
			}
			_, ok := allowed[s]
			return ok
		},
		validation.NewError("validation_one_of", "must be one of: "+strings.Join(values, ", ")),
	)
}
