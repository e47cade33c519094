package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks an unknown business or task id.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks a missing or malformed field on a mutating call.
	ErrValidation = errors.New("validation failed")
	// ErrStorage marks an unreadable or unwritable backing store.
	ErrStorage = errors.New("storage failure")
)

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

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Required returns a ValidationError for an absent field.
func Required(field string) error {
	return &ValidationError{Field: field, Message: "required"}
}

type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
