package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/validation"
)

// ErrNotFound indicates no record in a collection carries the requested id
type ErrNotFound struct {
	Collection string
	ID         string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Collection, e.ID)
}

// ErrDuplicateID indicates a create request reused an id already present in the collection
type ErrDuplicateID struct {
	Collection string
	ID         string
}

func (e *ErrDuplicateID) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Collection, e.ID)
}

// ErrInvalidBody indicates the request body could not be decoded
type ErrInvalidBody struct {
	Cause error
}

func (e *ErrInvalidBody) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Cause)
}

func (e *ErrInvalidBody) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound    *ErrNotFound
		duplicate   *ErrDuplicateID
		invalidBody *ErrInvalidBody
		formErr     *validation.Errors
		schemaErr   *schemas.ValidationError
		tooLarge    *http.MaxBytesError
		printErr    *export.PrintError
	)

	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate):
		return http.StatusConflict
	case errors.As(err, &invalidBody), errors.As(err, &formErr), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &printErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorFields returns per-field details for validation failures, or nil.
func errorFields(err error) any {
	var (
		formErr   *validation.Errors
		schemaErr *schemas.ValidationError
	)
	switch {
	case errors.As(err, &formErr):
		return formErr.Fields
	case errors.As(err, &schemaErr):
		return schemaErr.Errors
	default:
		return nil
	}
}
