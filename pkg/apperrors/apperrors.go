package apperrors

import (
	"errors"
	"fmt"
)

// Failure taxonomy for backend calls. The response interceptor wraps every
// failed request in exactly one of these sentinels so call sites can branch
// on the class without inspecting status codes.
var (
	ErrAuthExpired        = errors.New("session expired")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrServerFault        = errors.New("server fault")
	ErrRequestRejected    = errors.New("request rejected")
	ErrNetworkUnreachable = errors.New("no response from server")
	ErrRequestSetup       = errors.New("request setup failed")
	ErrBadResponse        = errors.New("malformed server response")
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsAuthExpired returns true if the error is a session expiry error
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

// IsForbidden returns true if the error is a forbidden error
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFound returns true if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsServerFault returns true if the error is a server-side fault
func IsServerFault(err error) bool {
	return errors.Is(err, ErrServerFault)
}

// IsNetworkUnreachable returns true if no response was received at all
func IsNetworkUnreachable(err error) bool {
	return errors.Is(err, ErrNetworkUnreachable)
}

// IsBadResponse returns true if a success response failed shape validation
func IsBadResponse(err error) bool {
	return errors.Is(err, ErrBadResponse)
}
