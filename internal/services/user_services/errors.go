// File: internal/services/user_services/errors.go
package user_services

import "errors"

// Authentication failures. Callers surface these as user-visible messages;
// neither is fatal.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
)

// ValidationKind identifies which registration rule was violated first.
type ValidationKind string

const (
	ValidationMissingField     ValidationKind = "missing-required-field"
	ValidationConsent          ValidationKind = "consent-not-given"
	ValidationUsernameLength   ValidationKind = "username-length"
	ValidationUsernameCharset  ValidationKind = "username-charset"
	ValidationPasswordLength   ValidationKind = "password-length"
	ValidationPasswordMismatch ValidationKind = "password-mismatch"
	ValidationUsernameTaken    ValidationKind = "username-taken"
)

// ValidationError reports the first registration rule a form violates.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(kind ValidationKind, msg string) *ValidationError {
	return &ValidationError{Kind: kind, Message: msg}
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
