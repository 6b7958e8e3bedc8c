package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrFundsShortfall    = errors.New("available funds are lower than the requested amount")
	ErrUsedUnderflow     = errors.New("used funds are lower than the released amount")
)

// UserFunds keeps Total == Available + Used + Blocked after every mutation.
type UserFunds struct {
	UserID    uuid.UUID
	Total     decimal.Decimal
	Available decimal.Decimal
	Used      decimal.Decimal
	Blocked   decimal.Decimal
	UpdatedAt time.Time
}

func (f UserFunds) Balanced() bool {
	return f.Total.Equal(f.Available.Add(f.Used).Add(f.Blocked))
}

// Reserve moves amount from available to used.
func (f *UserFunds) Reserve(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if f.Available.LessThan(amount) {
		return ErrFundsShortfall
	}

	f.Available = f.Available.Sub(amount)
	f.Used = f.Used.Add(amount)
	return nil
}

// Release moves a previous reservation back from used to available.
func (f *UserFunds) Release(amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	if amount.IsNegative() {
		return ErrNonPositiveAmount
	}
	if f.Used.LessThan(amount) {
		return ErrUsedUnderflow
	}

	f.Used = f.Used.Sub(amount)
	f.Available = f.Available.Add(amount)
	return nil
}

// DebitCharges takes charges out of the account; available may go negative.
func (f *UserFunds) DebitCharges(amount decimal.Decimal) {
	f.Total = f.Total.Sub(amount)
	f.Available = f.Available.Sub(amount)
}

// RefundCharges is the inverse of DebitCharges.
func (f *UserFunds) RefundCharges(amount decimal.Decimal) {
	f.Total = f.Total.Add(amount)
	f.Available = f.Available.Add(amount)
}

func (f *UserFunds) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	f.Total = f.Total.Add(amount)
	f.Available = f.Available.Add(amount)
	return nil
}

func (f *UserFunds) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if f.Available.LessThan(amount) {
		return ErrFundsShortfall
	}

	f.Total = f.Total.Sub(amount)
	f.Available = f.Available.Sub(amount)
	return nil
}

// FailedOrderAttempt is written when creation is refused for lack of funds.
// It is never turned into an Order.
type FailedOrderAttempt struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Symbol         string
	Category       Category
	Side           Side
	Quantity       int64
	Price          *decimal.Decimal
	RequiredMargin decimal.Decimal
	AvailableFunds decimal.Decimal
	Reason         string
	CreatedAt      time.Time
}
