package errs

import (
	"errors"
	"fmt"
)

var (
	ErrConflict               = errors.New("conflict")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrForbidden              = errors.New("forbidden")
)

// ConflictError reports that the target record changed under the caller, for example
// an order that another driver claimed first. The caller may re-fetch and retry.
type ConflictError struct {
	ParamName string
	ID        any
	Reason    string
}

func NewConflictError(paramName string, id any, reason string) *ConflictError {
	return &ConflictError{ParamName: paramName, ID: id, Reason: reason}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s %v: %s", ErrConflict, e.ParamName, sanitize(e.ID), e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// InvalidTransitionError reports a state change that is not in the transition table.
// It matches both ErrInvalidTransition and ErrConflict.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func NewInvalidTransitionError(entity string, from, to fmt.Stringer) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, From: from.String(), To: to.String()}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %s to %s", ErrInvalidTransition, e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() []error {
	return []error{ErrInvalidTransition, ErrConflict}
}

// AuthenticationRequiredError reports an operation attempted without a session.
type AuthenticationRequiredError struct {
	Operation string
}

func NewAuthenticationRequiredError(operation string) *AuthenticationRequiredError {
	return &AuthenticationRequiredError{Operation: operation}
}

func (e *AuthenticationRequiredError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAuthenticationRequired, e.Operation)
}

func (e *AuthenticationRequiredError) Unwrap() error {
	return ErrAuthenticationRequired
}

// ForbiddenError reports an authenticated identity that may not perform the operation.
type ForbiddenError struct {
	Operation string
	Reason    string
}

func NewForbiddenError(operation, reason string) *ForbiddenError {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrForbidden, e.Operation, e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}
