package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation")
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("duplicate")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DuplicateError names the field that collided with an existing record,
// so the handler can report it without guessing.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("a record with this %s already exists", e.Field)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }
