package domain

import (
	"errors"
	"net/http"
)

// HTTPError is an error that knows the status it should be served with
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors. Match with errors.Is; the typed errors below match their
// sentinel too.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type (
	// NotFoundError names the missing resource
	NotFoundError struct {
		Message string
	}

	// ValidationError is invalid input or a workspace limit being hit
	ValidationError struct {
		Message string
	}

	// UnauthorizedError is a missing or rejected credential
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError is an authenticated caller acting outside its rights
	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// ConflictError reports a write that clashes with stored state, such as a
// duplicate workspace or an element whose workspace vanished mid-request
type ConflictError struct {
	Message      string
	ResourceType string // "workspace" or "element"
	ResourceID   string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) StatusCode() int { return http.StatusConflict }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
