package common

import (
	"errors"
	"fmt"
)

// Sentinel errors for the persistence layer. Callers match with errors.Is;
// validation and storage failures travel through the same channel so the
// caller never has to tell a constraint violation from an I/O error.
var (
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage error")
)

// ParseError reports that free-form order text did not contain a
// recoverable field. Field names which one ("order_number" or "amount").
type ParseError struct {
	Field   string
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

func NewParseError(field, message string) *ParseError {
	return &ParseError{Field: field, Message: message}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
