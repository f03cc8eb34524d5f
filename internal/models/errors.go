package models

import (
	"errors"
	"fmt"
)

// Storage-level sentinel errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateKey      = errors.New("duplicate key violation")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// ValidationError reports a caller input that cannot be processed
type ValidationError struct {
	Message string
	Err     error
}

// NewValidationError creates a ValidationError with a caller-facing message
func NewValidationError(message string, err error) *ValidationError {
	return &ValidationError{Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a referenced record that does not exist
type NotFoundError struct {
	Message string
	Err     error
}

// NewNotFoundError creates a NotFoundError with a caller-facing message
func NewNotFoundError(message string, err error) *NotFoundError {
	return &NotFoundError{Message: message, Err: err}
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("not found: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("not found: %s", e.Message)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// ConflictError reports a write that collides with an existing record
type ConflictError struct {
	Message string
	Err     error
}

// NewConflictError creates a ConflictError with a caller-facing message
func NewConflictError(message string, err error) *ConflictError {
	return &ConflictError{Message: message, Err: err}
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("conflict: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("conflict: %s", e.Message)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// DataIntegrityError reports stored data that violates an assumption of the
// pricing or settlement logic, such as a participant missing from its own
// standings population.
type DataIntegrityError struct {
	Message string
	Err     error
}

// NewDataIntegrityError creates a DataIntegrityError
func NewDataIntegrityError(message string, err error) *DataIntegrityError {
	return &DataIntegrityError{Message: message, Err: err}
}

func (e *DataIntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data integrity error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("data integrity error: %s", e.Message)
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed read or write against the store
type PersistenceError struct {
	Message string
	Err     error
}

// NewPersistenceError creates a PersistenceError wrapping the store failure
func NewPersistenceError(message string, err error) *PersistenceError {
	return &PersistenceError{Message: message, Err: err}
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("persistence error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("persistence error: %s", e.Message)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
