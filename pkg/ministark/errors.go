package ministark

import "fmt"

// ErrorCode represents a ministark error code.
type ErrorCode int

const (
	// ErrUnknown represents an unknown error.
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid parameter set.
	ErrInvalidConfig

	// ErrInvalidTrace represents a trace that does not match the parameters
	// or does not satisfy the constraint set.
	ErrInvalidTrace

	// ErrProofGeneration represents a proof generation failure.
	ErrProofGeneration

	// ErrProofEncoding represents a proof serialization failure.
	ErrProofEncoding
)

// Error represents a ministark error with a stable code.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ministark error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("ministark error [%d]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
