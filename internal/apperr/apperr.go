// Package apperr defines the domain error type every resolver operation
// raises. An Error carries a numeric status code and optional field-level
// detail; the GraphQL gateway's formatter turns it into the public
// {status, message, errors} envelope. Anything that is not an *Error is
// treated as an internal failure and reported as a generic 500.
package apperr

import "net/http"

// FieldError describes a single violated validation rule.
type FieldError struct {
	Message string `json:"message"`
}

// Error is a domain error with an HTTP-style status code.
type Error struct {
	Code    int
	Message string
	Data    []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

// Extensions exposes the code and field errors to the GraphQL executor so
// they survive error formatting. Implements gqlerrors.ExtendedError.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"status": e.Code}
	if e.Data != nil {
		ext["data"] = e.Data
	}
	return ext
}

// Unauthenticated reports a request that must be authenticated but is not,
// or a caller that fails an ownership check where the contract uses 401.
func Unauthenticated(message string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: message}
}

// Forbidden reports a caller that is authenticated but not permitted.
func Forbidden(message string) *Error {
	return &Error{Code: http.StatusForbidden, Message: message}
}

// NotFound reports a missing entity.
func NotFound(message string) *Error {
	return &Error{Code: http.StatusNotFound, Message: message}
}

// Invalid reports failed input validation with the accumulated rule
// violations attached as structured data.
func Invalid(message string, fields []FieldError) *Error {
	return &Error{Code: http.StatusUnprocessableEntity, Message: message, Data: fields}
}

// Conflict reports a state conflict, such as a duplicate registration.
// It carries no explicit code so the gateway falls back to 500, matching
// the uncoded-error contract.
func Conflict(message string) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: message}
}

// Code extracts the status code from err, or 500 when err is not a
// domain error.
func Code(err error) int {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return http.StatusInternalServerError
}

// From returns err as a domain error when it is one.
func From(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
