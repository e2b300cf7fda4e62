package dto

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/mddforum/mdd-api/apperror"
)

var validate = validator.New()

var (
	hasDigit   = regexp.MustCompile(`\d`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasSpecial = regexp.MustCompile(`[^\w\s]`)
)

func length(s string) int {
	return utf8.RuneCountInString(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validEmail(s string) bool {
	return validate.Var(s, "email") == nil
}

// strongPassword requires a digit, a lowercase letter, an uppercase letter and a symbol.
func strongPassword(s string) bool {
	return hasDigit.MatchString(s) && hasLower.MatchString(s) && hasUpper.MatchString(s) && hasSpecial.MatchString(s)
}

// checkLength records an error when value is outside [min, max]. max <= 0 means unbounded.
func checkLength(errs apperror.FieldErrors, field, label, value string, min, max int) {
	n := length(value)
	switch {
	case max > 0 && min > 0 && (n < min || n > max):
		errs.Add(field, fmt.Sprintf("%s must be between %d and %d characters", label, min, max))
	case max > 0 && n > max:
		errs.Add(field, fmt.Sprintf("%s must not exceed %d characters", label, max))
	case min > 0 && n < min:
		errs.Add(field, fmt.Sprintf("%s must be at least %d characters", label, min))
	}
}
