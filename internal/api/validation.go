package api

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

// newValidator builds the validator instance used by handlers, with the
// custom password complexity rule registered.
func newValidator() *validator.Validate {
	v := validator.New()
	// Registration cannot fail for a plain func with a non-empty tag.
	_ = v.RegisterValidation("passwordchars", validatePasswordChars)
	return v
}

// validatePasswordChars requires at least one uppercase letter, one
// lowercase letter and one digit. Length is enforced separately by
// min/max tags.
func validatePasswordChars(fl validator.FieldLevel) bool {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
