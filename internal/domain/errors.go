package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation             = errors.New("validation error")
	ErrServiceNotFound        = errors.New("service not found")
	ErrServiceInactive        = errors.New("service is not active")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrConcurrencyConflict    = errors.New("concurrent update conflict")
	ErrPersistence            = errors.New("storage unavailable")
	ErrPartialCommission      = errors.New("referral commission not applied")
	ErrReconciliationRequired = errors.New("order outcome unknown, reconciliation required")
	ErrOrderNotFound          = errors.New("order not found")
	ErrAccountNotFound        = errors.New("account not found")
)

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeServiceNotFound     = "SERVICE_NOT_FOUND"
	CodeServiceInactive     = "SERVICE_INACTIVE"
	CodeQuantityOutOfRange  = "QUANTITY_OUT_OF_RANGE"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodePersistence         = "PERSISTENCE_FAILURE"
	CodeReconciliation      = "RECONCILIATION_REQUIRED"
	CodeOrderNotFound       = "ORDER_NOT_FOUND"
	CodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	CodeInternal            = "INTERNAL_ERROR"
)

type QuantityOutOfRangeError struct {
	Min int
	Max int
}

func (e *QuantityOutOfRangeError) Error() string {
	return fmt.Sprintf("quantity must be between %d and %d", e.Min, e.Max)
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Code maps an error returned by the services to its stable public code.
func Code(err error) string {
	var qty *QuantityOutOfRangeError
	switch {
	case errors.As(err, &qty):
		return CodeQuantityOutOfRange
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrServiceNotFound):
		return CodeServiceNotFound
	case errors.Is(err, ErrServiceInactive):
		return CodeServiceInactive
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrConcurrencyConflict):
		return CodeConcurrencyConflict
	case errors.Is(err, ErrReconciliationRequired):
		return CodeReconciliation
	case errors.Is(err, ErrPersistence):
		return CodePersistence
	case errors.Is(err, ErrOrderNotFound):
		return CodeOrderNotFound
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	default:
		return CodeInternal
	}
}
