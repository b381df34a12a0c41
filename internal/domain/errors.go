package domain

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrValidation        = errors.New("validation failed")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrItemNotFound      = errors.New("packing item not found")
	ErrPalletNotFound    = errors.New("pallet not found")
	ErrBoxSizeNotFound   = errors.New("box size not found")
	ErrPalletNotEmpty    = errors.New("pallet has assigned items")
	ErrPalletShipped     = errors.New("pallet is already shipped")
	ErrPalletEmpty       = errors.New("pallet has no items to ship")
	ErrNoBoxFits         = errors.New("no box size fits the item")
)

// ValidationError reports a rejected input field. Nothing is mutated when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IllegalTransitionError reports a status change outside the item lifecycle
type IllegalTransitionError struct {
	From ItemStatus
	To   ItemStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}

// Is lets errors.Is(err, ErrIllegalTransition) match
func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}
