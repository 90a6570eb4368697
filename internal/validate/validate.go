// Package validate holds the stateless input checks shared by the
// resolver operations. Checks accumulate every violated rule instead of
// failing fast, so a response can report all problems at once.
package validate

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/isdelr/social-feed-be/internal/apperr"
)

const minPasswordLen = 5
const minTitleLen = 5
const minContentLen = 5

// IsEmail reports whether s looks like a single well-formed address.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	// mail.ParseAddress accepts display names and local-only addresses;
	// require a bare user@host form.
	return addr.Address == strings.TrimSpace(s) && strings.Contains(addr.Address, "@")
}

// MinLength reports whether s has at least n characters.
func MinLength(s string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= n
}

// Signup checks registration input and returns the violated rules in
// check order.
func Signup(email, password string) []apperr.FieldError {
	var errs []apperr.FieldError
	if !IsEmail(email) {
		errs = append(errs, apperr.FieldError{Message: "email is invalid"})
	}
	if !MinLength(password, minPasswordLen) {
		errs = append(errs, apperr.FieldError{Message: "password is too short"})
	}
	return errs
}

// PostInput checks post title and content.
func PostInput(title, content string) []apperr.FieldError {
	var errs []apperr.FieldError
	if !MinLength(title, minTitleLen) {
		errs = append(errs, apperr.FieldError{Message: "title is too short"})
	}
	if !MinLength(content, minContentLen) {
		errs = append(errs, apperr.FieldError{Message: "content is too short"})
	}
	return errs
}
