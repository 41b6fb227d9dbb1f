package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the user as page messages. Handlers
// branch on these with errors.Is and re-render the form; none of them
// is fatal to the process.
var (
	// ErrAuthentication covers both unknown username and wrong
	// password. Deliberately opaque.
	ErrAuthentication = errors.New("incorrect username or password")

	// ErrInactiveAccount means the credentials were correct but the
	// account has not been activated yet.
	ErrInactiveAccount = errors.New("account has not been activated")

	// ErrTokenExpired means the activation link is past its validity
	// window.
	ErrTokenExpired = errors.New("activation link has expired")

	// ErrTokenInvalid means the activation token has a bad signature
	// or a malformed claim.
	ErrTokenInvalid = errors.New("activation link is invalid")
)

// ValidationError reports a user-correctable problem with a single
// form field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ConflictError reports a uniqueness violation, e.g. a duplicate
// username at registration.
type ConflictError struct {
	Resource string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s '%s' already taken", e.Resource, e.Value)
}
