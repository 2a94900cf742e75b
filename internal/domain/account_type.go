package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypePayroll  AccountType = "PAYROLL"
	AccountTypeBusiness AccountType = "BUSINESS"
	AccountTypeStudent  AccountType = "STUDENT"
)

// AccountTypes returns all account types in a stable order.
func AccountTypes() []AccountType {
	return []AccountType{
		AccountTypeChecking,
		AccountTypeSavings,
		AccountTypePayroll,
		AccountTypeBusiness,
		AccountTypeStudent,
	}
}

func ParseAccountType(raw string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown account type %q: %w", raw, ErrInvalidInput)
	}
	return t, nil
}

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypePayroll, AccountTypeBusiness, AccountTypeStudent:
		return true
	}
	return false
}

func (t AccountType) Label() string {
	switch t {
	case AccountTypeChecking:
		return "Checking Account"
	case AccountTypeSavings:
		return "Savings Account"
	case AccountTypePayroll:
		return "Payroll Account"
	case AccountTypeBusiness:
		return "Business Account"
	case AccountTypeStudent:
		return "Student Account"
	}
	return string(t)
}

func (t AccountType) Description() string {
	switch t {
	case AccountTypeChecking:
		return "Account for commercial and personal operations"
	case AccountTypeSavings:
		return "Personal savings account with interest"
	case AccountTypePayroll:
		return "Account for salary deposits"
	case AccountTypeBusiness:
		return "Account for company commercial operations"
	case AccountTypeStudent:
		return "Special account for students with benefits"
	}
	return ""
}

// MonthlyFee is the fixed monthly maintenance fee for the account type.
func (t AccountType) MonthlyFee() decimal.Decimal {
	switch t {
	case AccountTypeChecking:
		return decimal.NewFromInt(5)
	case AccountTypeSavings:
		return decimal.NewFromInt(2)
	case AccountTypeBusiness:
		return decimal.NewFromInt(15)
	}
	return decimal.Zero
}

// AllowsOverdraft reports whether the account type is eligible for overdraft.
func (t AccountType) AllowsOverdraft() bool {
	return t == AccountTypeChecking || t == AccountTypeBusiness
}
