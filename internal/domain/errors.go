package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoRoomAvailable  = errors.New("no rooms available for selected dates")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("not authorized")
	ErrUnauthenticated  = errors.New("authentication required")
	ErrDuplicateEvent   = errors.New("payment event already processed")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// ValidationError reports bad input before any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceError wraps an unexpected store failure. Its message is opaque to callers.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s", e.Op)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err unless it is already part of the domain taxonomy.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoRoomAvailable) ||
		errors.Is(err, ErrDuplicateEvent) || errors.Is(err, ErrForbidden) || IsValidation(err) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
