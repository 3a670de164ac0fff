// Package validate holds the field validators shared by the registration
// endpoint and the client-side identity workflows, so both sides agree on
// what a well-formed name, email, password, or OTP code looks like.
//
// Each validator returns an empty string when the value is acceptable, or a
// user-facing message for the first rule the value breaks. Rule evaluation
// order is fixed; the first failing rule determines the message.
package validate

import (
	"regexp"
	"strings"
	"unicode"
)

// PasswordSymbols is the punctuation set a password must draw at least one
// character from.
const PasswordSymbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// Name requires a display name of at least 3 characters after trimming.
func Name(s string) string {
	if len(strings.TrimSpace(s)) < 3 {
		return "Name must be at least 3 characters"
	}
	return ""
}

// Email applies a standard RFC-like address pattern.
func Email(s string) string {
	if !emailPattern.MatchString(strings.TrimSpace(s)) {
		return "Invalid email address"
	}
	return ""
}

// Password enforces, in order: length >= 8, at least one lowercase letter,
// one uppercase letter, one digit, and one symbol from PasswordSymbols.
func Password(s string) string {
	if len(s) < 8 {
		return "Password must be at least 8 characters"
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasLower:
		return "Password must contain a lowercase letter"
	case !hasUpper:
		return "Password must contain an uppercase letter"
	case !hasDigit:
		return "Password must contain a number"
	case !hasSymbol:
		return "Password must contain a special character"
	}
	return ""
}

// ConfirmPassword requires the confirmation to match the password exactly.
func ConfirmPassword(password, confirm string) string {
	if password != confirm {
		return "Passwords do not match"
	}
	return ""
}

// OTP requires exactly 4 decimal digits, all filled.
func OTP(s string) string {
	if len(s) != 4 {
		return "Enter the 4-digit code"
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "Enter the 4-digit code"
		}
	}
	return ""
}

// DeleteConfirmation requires the literal text CONFIRM.
func DeleteConfirmation(s string) string {
	if s != "CONFIRM" {
		return "Type CONFIRM to continue"
	}
	return ""
}

// Terms requires the terms-and-policies checkbox to be set at sign-up.
func Terms(accepted bool) string {
	if !accepted {
		return "You must accept the terms and policies"
	}
	return ""
}

// Role reports whether s is one of the known account roles.
func Role(s string) string {
	switch s {
	case "user", "product_manager", "admin":
		return ""
	}
	return "Invalid role"
}
