package models

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cedrobank/accounts-service/internal/domain"
)

// AccountRequest carries the caller-supplied account payload for create and
// update. Balance and currency are optional: an absent balance means zero and
// an absent currency defaults to EUR.
type AccountRequest struct {
	AccountNumber string           `json:"accountNumber" validate:"required,min=10,max=20,digitsonly"`
	Holder        string           `json:"holder" validate:"required,min=2,max=100,holdername"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	AccountType   string           `json:"accountType" validate:"required,accounttype"`
	Currency      string           `json:"currency,omitempty" validate:"omitempty,currencycode"`
}

const (
	maxBalanceIntegerDigits  = 13
	maxBalanceFractionDigits = 2
)

var (
	digitsOnlyPattern   = regexp.MustCompile(`^[0-9]+$`)
	holderNamePattern   = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑüÜ ]+$`)
	currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	mustRegister(v, "digitsonly", func(fl validator.FieldLevel) bool {
		return digitsOnlyPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "holdername", func(fl validator.FieldLevel) bool {
		return holderNamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "accounttype", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseAccountType(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "currencycode", func(fl validator.FieldLevel) bool {
		return currencyCodePattern.MatchString(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// FieldErrors runs the strict per-field validation pass and returns a
// field-to-message map, or nil when the payload is fully valid.
func (r AccountRequest) FieldErrors() map[string]string {
	fieldErrors := map[string]string{}

	if err := validate.Struct(r); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			fieldErrors["payload"] = "payload could not be validated"
			return fieldErrors
		}
		for _, fe := range validationErrors {
			if _, seen := fieldErrors[fe.Field()]; !seen {
				fieldErrors[fe.Field()] = messageFor(fe)
			}
		}
	}

	if r.Balance != nil {
		if msg := balanceMessage(*r.Balance); msg != "" {
			fieldErrors["balance"] = msg
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must have at least " + fe.Param() + " characters"
	case "max":
		return "must have at most " + fe.Param() + " characters"
	case "digitsonly":
		return "may only contain digits"
	case "holdername":
		return "may only contain letters and spaces"
	case "accounttype":
		return "must be one of CHECKING, SAVINGS, PAYROLL, BUSINESS, STUDENT"
	case "currencycode":
		return "must be a 3-letter uppercase ISO code"
	}
	return "is invalid"
}

func balanceMessage(balance decimal.Decimal) string {
	if balance.IsNegative() {
		return "cannot be negative"
	}
	if !balance.Equal(balance.Round(maxBalanceFractionDigits)) {
		return "must have at most 2 decimal places"
	}
	if len(balance.Abs().Truncate(0).String()) > maxBalanceIntegerDigits {
		return "must have at most 13 integer digits"
	}
	return ""
}

// HasRequiredFields is the minimal structural check that gates creation
// before the duplicate lookup runs: number, holder and type must be present.
func (r AccountRequest) HasRequiredFields() bool {
	if strings.TrimSpace(r.AccountNumber) == "" {
		return false
	}
	if strings.TrimSpace(r.Holder) == "" {
		return false
	}
	if strings.TrimSpace(r.AccountType) == "" {
		return false
	}
	return true
}

// BalanceOrZero resolves the optional balance field.
func (r AccountRequest) BalanceOrZero() decimal.Decimal {
	if r.Balance == nil {
		return decimal.Zero
	}
	return *r.Balance
}

type AccountResponse struct {
	ID               string          `json:"id"`
	AccountNumber    string          `json:"accountNumber"`
	Holder           string          `json:"holder"`
	Balance          decimal.Decimal `json:"balance"`
	AccountType      string          `json:"accountType"`
	AccountTypeLabel string          `json:"accountTypeLabel"`
	MonthlyFee       decimal.Decimal `json:"monthlyFee"`
	AllowsOverdraft  bool            `json:"allowsOverdraft"`
	Currency         string          `json:"currency"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt"`
	Active           bool            `json:"active"`
}

func AccountResponseFrom(account domain.Account) AccountResponse {
	return AccountResponse{
		ID:               account.ID,
		AccountNumber:    account.AccountNumber,
		Holder:           account.Holder,
		Balance:          account.Balance,
		AccountType:      string(account.AccountType),
		AccountTypeLabel: account.AccountType.Label(),
		MonthlyFee:       account.AccountType.MonthlyFee(),
		AllowsOverdraft:  account.AccountType.AllowsOverdraft(),
		Currency:         account.Currency,
		CreatedAt:        account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        account.UpdatedAt.Format(time.RFC3339),
		Active:           account.Active,
	}
}

func AccountResponsesFrom(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, AccountResponseFrom(account))
	}
	return out
}

// AccountPage mirrors the page shape of the list operation.
type AccountPage struct {
	Content       []AccountResponse `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

type Statistics struct {
	TotalAccounts            int64           `json:"totalAccounts"`
	ActiveAccounts           int64           `json:"activeAccounts"`
	InactiveAccounts         int64           `json:"inactiveAccounts"`
	TotalActiveBalance       decimal.Decimal `json:"totalActiveBalance"`
	AverageBalancePerAccount decimal.Decimal `json:"averageBalancePerAccount"`
}

type TypeStatistics struct {
	Count          int64           `json:"count"`
	TotalBalance   decimal.Decimal `json:"totalBalance"`
	AverageBalance decimal.Decimal `json:"averageBalance"`
	Label          string          `json:"label"`
}

// SearchCriteriaRequest is the conjunctive filter of the criteria search.
// Nil members are wildcards.
type SearchCriteriaRequest struct {
	Holder      *string
	AccountType *string
	MinBalance  *decimal.Decimal
	Active      *bool
}

type ErrorResponse struct {
	Status      int               `json:"status"`
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Path        string            `json:"path"`
	Timestamp   string            `json:"timestamp"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}
