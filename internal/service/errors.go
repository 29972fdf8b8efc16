package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. Callers check them with errors.Is.
var (
	// ErrInvalidCredentials is returned by Authenticate when the username is
	// unknown or the password does not match. The two cases are not told apart.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ServiceError wraps an unexpected failure with the operation that hit it.
// Sentinels below it stay reachable through errors.Is and errors.As.
type ServiceError struct {
	// Operation is the operation that failed (e.g. "start_word_game", "import_words")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err for operation. A nil err yields nil.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
