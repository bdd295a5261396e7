package errs

import (
	"errors"
	"fmt"
)

var ErrOrderNotFound = errors.New("order not found")
var ErrSnapshotNotFound = errors.New("snapshot not found")
var ErrInvalidToken = errors.New("invalid token")
var ErrActionUnavailable = errors.New("action not available for this order")
var ErrRequestPending = errors.New("another request for this order is in progress")
var ErrConfirmationRequired = errors.New("disputing a single milestone requires confirmation")
var ErrUnknownModal = errors.New("unknown modal")

// ValidationError is a field-level input problem caught before any call to
// the marketplace.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
