// Package validation checks request payloads before they reach a
// service. Validators aggregate every failing field so clients see all
// problems in one response.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps a field name to what is wrong with it.
type FieldErrors map[string]string

func (e FieldErrors) Ok() bool {
	return len(e) == 0
}

const (
	MinPasswordLength = 8
	MaxNameLength     = 100
)

// ValidateRegistration checks a registration payload.
func ValidateRegistration(name, email, password string) FieldErrors {
	errs := FieldErrors{}

	name = strings.TrimSpace(name)
	if name == "" {
		errs["name"] = "name is required"
	} else if len(name) > MaxNameLength {
		errs["name"] = "name must be at most 100 characters"
	}

	validateEmail(email, errs)

	if msg := passwordProblem(password); msg != "" {
		errs["password"] = msg
	}

	return errs
}

// passwordProblem returns what is wrong with a candidate password, or ""
// when it is acceptable.
func passwordProblem(password string) string {
	if len(password) < MinPasswordLength {
		return "password must be at least 8 characters"
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return "password must contain uppercase, lowercase, digit and symbol characters"
	}
	return ""
}

// ValidateLogin checks a login payload.
func ValidateLogin(email, password string) FieldErrors {
	errs := FieldErrors{}
	validateEmail(email, errs)
	if password == "" {
		errs["password"] = "password is required"
	}
	return errs
}

func validateEmail(email string, errs FieldErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs["email"] = "email is required"
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "email is not valid"
	}
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
