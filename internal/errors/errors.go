// Package errors defines the application error taxonomy shared by services
// and handlers. Services return these typed errors; the HTTP layer maps them
// to status codes.
package errors

import "fmt"

// DomainError is a coded business-rule violation.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// ValidationError carries a field -> message map and maps to HTTP 400.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError for a single field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// NewValidationFields creates a ValidationError from a field error map.
func NewValidationFields(fields map[string]string) *ValidationError {
	msg := "validation failed"
	for _, m := range fields {
		msg = m
		break
	}
	return &ValidationError{Message: msg, Fields: fields}
}

// NotFoundError maps to HTTP 404.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFound creates a NotFoundError for a resource.
func NewNotFound(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// UnauthorizedError maps to HTTP 403 (authenticated but not allowed).
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// NewUnauthorized creates an UnauthorizedError.
func NewUnauthorized(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// ConflictError maps to HTTP 409. Used for retryable write conflicts when
// two requests race on the same state transition.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflict creates a ConflictError.
func NewConflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}
