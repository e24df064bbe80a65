package repository

import (
	"errors"
	"fmt"
)

// ErrInvalidReference is returned when a write refers to a row that does not exist
var ErrInvalidReference = errors.New("referenced entity does not exist")

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	Key      string
	Value    string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s %s not found", e.Resource, e.Key, e.Value)
}

// IsNotFound reports whether err wraps a *NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}
