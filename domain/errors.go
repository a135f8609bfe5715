// Package domain holds the error taxonomy shared by services, repositories and the bot layer.
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrStoreUnavailable wraps every persistence failure so callers can tell an
	// outage apart from an empty result.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrValidation           = errors.New("validation failed")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrConfigurationMissing = errors.New("configuration missing")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrOnCooldown           = errors.New("action on cooldown")

	ErrAlreadyMarried = errors.New("already married")
	ErrNotMarried     = errors.New("not married")

	ErrListingNotFound = errors.New("role is not for sale")
	ErrAlreadyOwnsRole = errors.New("role already owned")
	ErrTargetTooPoor   = errors.New("target balance below rob floor")
)

// ValidationError describes malformed user input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a validation error for a single input field
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// CooldownError reports how long the caller has to wait
type CooldownError struct {
	Action    string
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s on cooldown for %s", e.Action, e.Remaining)
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrOnCooldown
}

// InsufficientFundsError carries the balance that failed the check
type InsufficientFundsError struct {
	Balance  int64
	Required int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: have %d, need %d", e.Balance, e.Required)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// StoreError wraps a driver error with the failed operation
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
