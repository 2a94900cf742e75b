package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account is the bank account aggregate. Timestamps are owned by the entity:
// the factory sets both and every mutation refreshes UpdatedAt.
type Account struct {
	ID            string
	AccountNumber string
	Holder        string
	Balance       decimal.Decimal
	AccountType   AccountType
	Currency      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Active        bool
}

const DefaultCurrency = "EUR"

// NewAccount builds an account ready to persist. It rejects missing required
// fields and a negative opening balance, defaults the currency to EUR and the
// balance to zero, and marks the account active.
func NewAccount(accountNumber, holder string, balance decimal.Decimal, accountType AccountType, currency string) (Account, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	holder = strings.TrimSpace(holder)
	currency = strings.TrimSpace(currency)

	if accountNumber == "" {
		return Account{}, &ValidationError{Message: "account number is required"}
	}
	if holder == "" {
		return Account{}, &ValidationError{Message: "holder is required"}
	}
	if !accountType.Valid() {
		return Account{}, &ValidationError{Message: "account type is required"}
	}
	if balance.IsNegative() {
		return Account{}, &ValidationError{Message: "balance cannot be negative"}
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	now := time.Now().UTC()
	return Account{
		AccountNumber: accountNumber,
		Holder:        holder,
		Balance:       balance,
		AccountType:   accountType,
		Currency:      currency,
		CreatedAt:     now,
		UpdatedAt:     now,
		Active:        true,
	}, nil
}

// Debit decreases the balance. The amount must be positive and must not
// exceed the current balance.
func (a *Account) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Message: "debit amount must be positive"}
	}
	if a.Balance.LessThan(amount) {
		return &InsufficientFundsError{Balance: a.Balance, Requested: amount}
	}
	a.Balance = a.Balance.Sub(amount)
	a.touch()
	return nil
}

// Credit increases the balance. No upper bound is enforced here.
func (a *Account) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Message: "credit amount must be positive"}
	}
	a.Balance = a.Balance.Add(amount)
	a.touch()
	return nil
}

func (a *Account) SetBalance(newBalance decimal.Decimal) error {
	if newBalance.IsNegative() {
		return &ValidationError{Message: "balance cannot be negative"}
	}
	a.Balance = newBalance
	a.touch()
	return nil
}

func (a *Account) SetHolder(holder string) error {
	holder = strings.TrimSpace(holder)
	if holder == "" {
		return &ValidationError{Message: "holder cannot be blank"}
	}
	a.Holder = holder
	a.touch()
	return nil
}

func (a *Account) Activate() {
	a.Active = true
	a.touch()
}

func (a *Account) Deactivate() {
	a.Active = false
	a.touch()
}

func (a *Account) touch() {
	a.UpdatedAt = time.Now().UTC()
}
