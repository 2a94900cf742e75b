package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error kinds callers can branch on with errors.Is.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateAccount  = errors.New("duplicate account number")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// DuplicateAccountError carries the conflicting account number.
type DuplicateAccountError struct {
	AccountNumber string
}

func (e *DuplicateAccountError) Error() string {
	return fmt.Sprintf("an account with number %s already exists", e.AccountNumber)
}

func (e *DuplicateAccountError) Unwrap() error { return ErrDuplicateAccount }

// InsufficientFundsError carries the current balance and the requested amount
// so callers can display both.
type InsufficientFundsError struct {
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: current balance %s, requested amount %s",
		e.Balance.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// ValidationError is an invalid-input failure. FieldErrors is only populated
// by the strict per-field validation pass; the structural check inside the
// service produces a bare message.
type ValidationError struct {
	Message     string
	FieldErrors map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
