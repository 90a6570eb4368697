package validate_test

import (
	"testing"

	"github.com/isdelr/social-feed-be/internal/validate"
)

func TestIsEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"a@x.com", true},
		{"first.last@example.co.uk", true},
		{"", false},
		{"not-an-email", false},
		{"missing@domain@twice.com", false},
		{"Display Name <a@x.com>", false},
		{"  a@x.com  ", true},
	}
	for _, tc := range cases {
		if got := validate.IsEmail(tc.email); got != tc.want {
			t.Errorf("IsEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestSignupAccumulatesAllViolations(t *testing.T) {
	errs := validate.Signup("nope", "abc")
	if len(errs) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(errs), errs)
	}
	// Rules are reported in check order: email first, then password.
	if errs[0].Message != "email is invalid" {
		t.Errorf("first error = %q", errs[0].Message)
	}
	if errs[1].Message != "password is too short" {
		t.Errorf("second error = %q", errs[1].Message)
	}
}

func TestSignupValidInput(t *testing.T) {
	if errs := validate.Signup("a@x.com", "secret1"); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestPostInput(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		content string
		want    int
	}{
		{"both valid", "Hello world", "First post!", 0},
		{"short title", "Hey", "First post!", 1},
		{"short content", "Hello world", "Hi", 1},
		{"both short", "Hey", "Hi", 2},
		{"whitespace only", "     ", "      ", 2},
		{"exactly at minimum", "12345", "12345", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if errs := validate.PostInput(tc.title, tc.content); len(errs) != tc.want {
				t.Errorf("PostInput(%q, %q) yielded %d errors, want %d", tc.title, tc.content, len(errs), tc.want)
			}
		})
	}
}
