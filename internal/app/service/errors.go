package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrApplicationNotFound = errors.New("application not found")
	ErrArtistNotFound      = errors.New("artist not found")
	ErrArtworkNotFound     = errors.New("artwork not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrDuplicateEmail      = errors.New("email already in use")
	ErrDuplicateOrderID    = errors.New("order id already exists")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrStorage             = errors.New("file storage failed")
	ErrInvalidCredentials  = errors.New("invalid username or password")
)

// validationError wraps ErrValidation with a caller-facing detail.
func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// requireFields returns a validation error naming the first empty field.
// fields alternates name, value.
func requireFields(fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i+1] == "" {
			return validationError("%s is required", fields[i])
		}
	}
	return nil
}
