package service

import (
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const minPasswordLength = 8

// validate caches struct metadata and is safe for concurrent use.
var validate = validator.New()

// IsValidEmail reports whether s is a syntactically valid address.
func IsValidEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,email") == nil
}

// IsStrongPassword requires at least 8 characters with a digit, a lowercase and an uppercase letter.
func IsStrongPassword(p string) bool {
	if len([]rune(p)) < minPasswordLength {
		return false
	}
	var digit, lower, upper bool
	for _, r := range p {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && lower && upper
}

// ParseDate accepts YYYY-MM-DD or RFC3339. endOfDay moves a bare date to its last second.
func ParseDate(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}
