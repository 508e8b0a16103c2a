package utils

import (
	"errors"
	"strings"
	"unicode"

	"github.com/taskflow/taskflow-api/internal/constants"
)

var (
	ErrPasswordTooShort        = errors.New("password must be at least 8 characters")
	ErrPasswordEntirelyNumeric = errors.New("password cannot be entirely numeric")
	ErrPasswordTooCommon       = errors.New("password is too common")
)

var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"qwertyuiop": {},
	"iloveyou":   {},
	"letmein1":   {},
	"admin123":   {},
}

// ValidatePassword enforces the registration password rules: a minimum
// length, no entirely numeric passwords, and a common-password denylist.
func ValidatePassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return ErrPasswordEntirelyNumeric
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return ErrPasswordTooCommon
	}

	return nil
}
