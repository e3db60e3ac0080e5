// Package validate holds the client-side form predicates. They are pure,
// return booleans only, and run before any network call is made.
package validate

import (
	"regexp"
	"strings"
)

var (
	mobileRe = regexp.MustCompile(`^\d{10}$`)
	otpRe    = regexp.MustCompile(`^\d{6}$`)
)

// IsValidMobile reports whether s is exactly 10 decimal digits.
func IsValidMobile(s string) bool {
	return mobileRe.MatchString(s)
}

// IsValidEmail is deliberately loose: any string containing "@" passes.
// The server performs the real validation; tightening this here would reject
// addresses the backend accepts.
func IsValidEmail(s string) bool {
	return strings.Contains(s, "@")
}

// IsValidOTP reports whether s is exactly 6 decimal digits.
func IsValidOTP(s string) bool {
	return otpRe.MatchString(s)
}

// IsValidPassword reports whether s is at least 6 characters.
func IsValidPassword(s string) bool {
	return len(s) >= 6
}

// IsValidUsername reports whether s is at least 3 characters.
func IsValidUsername(s string) bool {
	return len(s) >= 3
}
