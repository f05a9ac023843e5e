package domain

import "fmt"

// Error types for consistent error handling across the API.

// ErrInvalidID indicates a path id that does not match the store's
// identifier format. Distinct from ErrNotFound.
type ErrInvalidID struct {
	ID string
}

func (e *ErrInvalidID) Error() string {
	return fmt.Sprintf("invalid record id: %s", e.ID)
}

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrStoreUnavailable indicates the record store could not be reached or
// returned a transport-level failure.
type ErrStoreUnavailable struct {
	Op  string
	Err error
}

func (e *ErrStoreUnavailable) Error() string {
	return fmt.Sprintf("store unavailable [%s]: %v", e.Op, e.Err)
}

func (e *ErrStoreUnavailable) Unwrap() error {
	return e.Err
}

// ErrAggregation indicates a statistics computation failed.
type ErrAggregation struct {
	Op  string
	Err error
}

func (e *ErrAggregation) Error() string {
	return fmt.Sprintf("aggregation failed [%s]: %v", e.Op, e.Err)
}

func (e *ErrAggregation) Unwrap() error {
	return e.Err
}

// ErrValidation indicates a malformed request (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}
