package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidState          = errors.New("invalid order state")
	ErrOrderNotFound         = errors.New("order not found")
	ErrNotFound              = errors.New("not found")
	ErrOrderAlreadyExists    = errors.New("order already exists")
	ErrNoMoreLegs            = errors.New("no more legs to execute")
	ErrRateLimitExceeded     = errors.New("order rate limit exceeded")
	ErrChargesNotImplemented = errors.New("charges not implemented for segment")
	ErrInvalidChargeInput    = errors.New("invalid charge input")
	ErrPriceUnavailable      = errors.New("reference price unavailable")
)

// ValidationError is returned before any transaction starts.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// InvalidStateError names the status that blocked a transition.
type InvalidStateError struct {
	Entity  string
	Current string
	Action  string
}

func (e *InvalidStateError) Error() string {
	entity := e.Entity
	if entity == "" {
		entity = "order"
	}

	return fmt.Sprintf("cannot %s %s: current status is %s", e.Action, entity, e.Current)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}
