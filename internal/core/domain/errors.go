package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error kinds; every typed error below matches exactly one of these via errors.Is
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
	ErrOverpayment       = errors.New("settlement exceeds remaining balance")
	ErrConflict          = errors.New("conflict")
	ErrPersistence       = errors.New("persistence failure")
)

var kinds = []error{
	ErrValidation,
	ErrNotFound,
	ErrInvalidTransition,
	ErrForbidden,
	ErrOverpayment,
	ErrConflict,
	ErrPersistence,
}

// IsKnown reports whether err already carries one of the domain error kinds
func IsKnown(err error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// ValidationError reports malformed input rejected before any I/O
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a referenced entity that does not exist
type NotFoundError struct {
	Resource string
	ID       any
}

func NewNotFoundError(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidTransitionError reports a move outside the transition table
type InvalidTransitionError struct {
	From QueueStatus
	To   QueueStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// ForbiddenError reports a role that may not perform the requested action
type ForbiddenError struct {
	Role   Role
	Action string
}

func NewForbiddenTransition(role Role, from, to QueueStatus) *ForbiddenError {
	return &ForbiddenError{Role: role, Action: fmt.Sprintf("change status from %s to %s", from, to)}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %s may not %s", e.Role, e.Action)
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// OverpaymentError reports a settlement larger than the remaining balance
type OverpaymentError struct {
	Requested decimal.Decimal
	Remaining decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("settlement of %s exceeds remaining balance %s",
		e.Requested.StringFixed(2), e.Remaining.StringFixed(2))
}

func (e *OverpaymentError) Is(target error) bool { return target == ErrOverpayment }

// ConflictError reports contention the caller may retry
type ConflictError struct {
	Reason string
	Err    error
}

func NewConflictError(reason string, err error) *ConflictError {
	return &ConflictError{Reason: reason, Err: err}
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("conflict: %s: %v", e.Reason, e.Err)
	}
	return "conflict: " + e.Reason
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func (e *ConflictError) Unwrap() error { return e.Err }

// PersistenceError wraps an unexpected store failure
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }
