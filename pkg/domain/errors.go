package domain

import (
	"errors"
	"fmt"
)

// Common domain errors. Every error a service returns satisfies errors.Is
// against exactly one of these kinds.
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when a caller cannot be authenticated
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when a resource may not be read in its current state
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidAmount is returned when an amount is not strictly positive after rounding
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidCurrency is returned for unsupported or mismatched currencies
	ErrInvalidCurrency = errors.New("invalid currency")
	// ErrInvalidState is returned when an account status forbids the operation
	ErrInvalidState = errors.New("invalid state")
	// ErrInsufficientFunds is returned when a debit would make a balance negative
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidOperation is returned for requests that can never succeed, such as self transfers
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrStorageFailure is returned when the ledger store fails
	ErrStorageFailure = errors.New("storage failure")
)

var kinds = []error{
	ErrNotFound,
	ErrAlreadyExists,
	ErrValidation,
	ErrUnauthorized,
	ErrForbidden,
	ErrInvalidAmount,
	ErrInvalidCurrency,
	ErrInvalidState,
	ErrInsufficientFunds,
	ErrInvalidOperation,
	ErrStorageFailure,
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// NewError returns an error with its own message that matches kind under errors.Is.
func NewError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Kind returns the domain kind err belongs to, or nil if it has none.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// AsStorageFailure leaves kinded errors untouched and wraps anything else
// as ErrStorageFailure.
func AsStorageFailure(err error) error {
	if err == nil || Kind(err) != nil {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}

