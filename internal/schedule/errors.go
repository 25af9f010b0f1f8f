package schedule

import (
	"errors"
	"fmt"
)

// Custom schedule service errors
var (
	// ErrChannelNotFound indicates the requested channel does not exist
	ErrChannelNotFound = errors.New("channel not found")

	// ErrDuplicateShortName indicates a channel with the same short name already exists
	ErrDuplicateShortName = errors.New("channel short name already exists")

	// ErrWrongKind indicates a slot or playlist write against a channel of the other kind
	ErrWrongKind = errors.New("operation does not match channel kind")
)

// ValidationError rejects a schedule write at the store boundary so invalid
// states are never persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schedule validation failed: %s", e.Message)
	}
	return fmt.Sprintf("schedule validation failed: %s: %s", e.Field, e.Message)
}

// IsValidation checks if the error is a schedule validation error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsChannelNotFound checks if the error is a channel not found error
func IsChannelNotFound(err error) bool {
	return errors.Is(err, ErrChannelNotFound)
}

// IsDuplicateShortName checks if the error is a duplicate short name error
func IsDuplicateShortName(err error) bool {
	return errors.Is(err, ErrDuplicateShortName)
}

// IsWrongKind checks if the error is a kind mismatch error
func IsWrongKind(err error) bool {
	return errors.Is(err, ErrWrongKind)
}
