package inventory

import (
	"errors"
	"fmt"

	"github.com/fairyhunter13/inventory-service/internal/model"
)

var (
	// ErrUnauthenticated is returned when an operation has no current principal.
	ErrUnauthenticated = errors.New("not signed in")
	// ErrMissingID is returned by Delete when no product id was supplied.
	ErrMissingID = errors.New("missing product id")
	// ErrNotFound is returned by Get for products the owner cannot see.
	ErrNotFound = errors.New("product not found")
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PersistenceError wraps an unexpected failure of the persistence gateway.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Result is the structured outcome of a mutation.
type Result struct {
	Success bool           `json:"success"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"message,omitempty"`
	Product *model.Product `json:"product,omitempty"`
}

// Created returns a success result for p.
func Created(p model.Product) Result {
	return Result{Success: true, Product: &p}
}

// ResultFromError converts err into a failure result. A nil err is a success.
// Persistence failures are reported with a generic message.
func ResultFromError(err error) Result {
	if err == nil {
		return Result{Success: true}
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return Result{Field: verr.Field, Message: verr.Message}
	}
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return Result{Message: "something went wrong, please try again"}
	}
	return Result{Message: err.Error()}
}
