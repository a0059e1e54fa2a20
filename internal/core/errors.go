package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeValidation = "validation_error"
	ErrCodeStorage    = "storage_error"
	ErrCodeNotJoined  = "not_joined"
)

var (
	ErrInvalidRoom   = errors.New("invalid room id")
	ErrEmptyMessage  = errors.New("message text is empty")
	ErrMessageTooBig = errors.New("message text exceeds maximum length")
	ErrMissingAuthor = errors.New("author is missing")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
	Err     error
}

func (e *CoreError) Error() string {
	return e.Message
}

func (e *CoreError) Unwrap() error {
	return e.Err
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
