package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cedrobank/accounts-service/internal/adapter/http/models"
	"github.com/cedrobank/accounts-service/internal/adapter/repository/repo_interfaces"
	"github.com/cedrobank/accounts-service/internal/domain"
	"github.com/cedrobank/accounts-service/internal/logger"
)

const (
	defaultPageSize = 10
	defaultSortBy   = "createdAt"
)

type AccountService struct {
	repo repo_interfaces.AccountRepository
}

func NewAccountService(repo repo_interfaces.AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

func (s *AccountService) Create(ctx context.Context, req models.AccountRequest) (models.AccountResponse, error) {
	logger.Info("account service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	// Structural gate before the duplicate lookup; the strict per-field
	// pass already ran at the HTTP boundary.
	if !req.HasRequiredFields() {
		err := &domain.ValidationError{Message: "account data is not valid"}
		logger.Error("account service create structural validation failed", err, nil)
		return models.AccountResponse{}, err
	}

	accountNumber := strings.TrimSpace(req.AccountNumber)
	exists, err := s.repo.ExistsByNumber(ctx, accountNumber)
	if err != nil {
		logger.Error("account service create duplicate check failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return models.AccountResponse{}, err
	}
	if exists {
		dupErr := &domain.DuplicateAccountError{AccountNumber: accountNumber}
		logger.Info("account service create duplicate account number", logger.Fields{
			"accountNumber": accountNumber,
		})
		return models.AccountResponse{}, dupErr
	}

	accountType, err := domain.ParseAccountType(req.AccountType)
	if err != nil {
		return models.AccountResponse{}, &domain.ValidationError{Message: "account data is not valid"}
	}

	account, err := domain.NewAccount(accountNumber, req.Holder, req.BalanceOrZero(), accountType, req.Currency)
	if err != nil {
		logger.Error("account service create entity build failed", err, nil)
		return models.AccountResponse{}, err
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		logger.Error("account service create repository failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return models.AccountResponse{}, err
	}

	logger.Info("account service create success", logger.Fields{
		"accountId":     created.ID,
		"accountNumber": created.AccountNumber,
		"holder":        created.Holder,
	})

	return models.AccountResponseFrom(created), nil
}

func (s *AccountService) GetByID(ctx context.Context, id string) (models.AccountResponse, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.AccountResponse{}, err
	}
	return models.AccountResponseFrom(account), nil
}

func (s *AccountService) GetByNumber(ctx context.Context, accountNumber string) (models.AccountResponse, error) {
	account, err := s.repo.GetByAccountNumber(ctx, strings.TrimSpace(accountNumber))
	if err != nil {
		return models.AccountResponse{}, err
	}
	return models.AccountResponseFrom(account), nil
}

func (s *AccountService) List(ctx context.Context, page, size int, sortBy, sortDir string) (models.AccountPage, error) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = defaultPageSize
	}
	if strings.TrimSpace(sortBy) == "" {
		sortBy = defaultSortBy
	}
	descending := !strings.EqualFold(sortDir, "asc")

	accounts, total, err := s.repo.List(ctx, repo_interfaces.ListQuery{
		Page:       page,
		Size:       size,
		SortBy:     sortBy,
		Descending: descending,
	})
	if err != nil {
		return models.AccountPage{}, err
	}

	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}

	return models.AccountPage{
		Content:       models.AccountResponsesFrom(accounts),
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

func (s *AccountService) SearchByHolder(ctx context.Context, holder string) ([]models.AccountResponse, error) {
	accounts, err := s.repo.SearchByHolder(ctx, strings.TrimSpace(holder))
	if err != nil {
		return nil, err
	}
	return models.AccountResponsesFrom(accounts), nil
}

func (s *AccountService) SearchByType(ctx context.Context, accountType string) ([]models.AccountResponse, error) {
	parsed, err := domain.ParseAccountType(accountType)
	if err != nil {
		return nil, &domain.ValidationError{Message: "account type must be one of CHECKING, SAVINGS, PAYROLL, BUSINESS, STUDENT"}
	}

	accounts, err := s.repo.SearchByType(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return models.AccountResponsesFrom(accounts), nil
}

func (s *AccountService) ListActive(ctx context.Context) ([]models.AccountResponse, error) {
	accounts, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return models.AccountResponsesFrom(accounts), nil
}

func (s *AccountService) SearchByCriteria(ctx context.Context, criteria models.SearchCriteriaRequest) ([]models.AccountResponse, error) {
	repoCriteria := repo_interfaces.SearchCriteria{
		Holder:     criteria.Holder,
		MinBalance: criteria.MinBalance,
		Active:     criteria.Active,
	}
	if criteria.AccountType != nil {
		parsed, err := domain.ParseAccountType(*criteria.AccountType)
		if err != nil {
			return nil, &domain.ValidationError{Message: "account type must be one of CHECKING, SAVINGS, PAYROLL, BUSINESS, STUDENT"}
		}
		repoCriteria.AccountType = &parsed
	}

	accounts, err := s.repo.SearchByCriteria(ctx, repoCriteria)
	if err != nil {
		return nil, err
	}
	return models.AccountResponsesFrom(accounts), nil
}

// Update overwrites the mutable fields only. Account number and type stay
// untouched regardless of the payload.
func (s *AccountService) Update(ctx context.Context, id string, req models.AccountRequest) (models.AccountResponse, error) {
	logger.Info("account service update request", logger.Fields{
		"accountId": id,
		"payload":   logger.SanitizePayload(req),
	})

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.AccountResponse{}, err
	}

	if strings.TrimSpace(req.Holder) != "" {
		if err := account.SetHolder(req.Holder); err != nil {
			return models.AccountResponse{}, err
		}
	}
	if req.Balance != nil {
		if err := account.SetBalance(*req.Balance); err != nil {
			return models.AccountResponse{}, err
		}
	}

	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		logger.Error("account service update save failed", err, logger.Fields{"accountId": id})
		return models.AccountResponse{}, err
	}

	logger.Info("account service update success", logger.Fields{"accountId": id})
	return models.AccountResponseFrom(saved), nil
}

// SetBalance validates the new balance before the existence lookup.
func (s *AccountService) SetBalance(ctx context.Context, id string, newBalance *decimal.Decimal) (models.AccountResponse, error) {
	if newBalance == nil || newBalance.IsNegative() {
		err := &domain.ValidationError{Message: "balance cannot be negative"}
		logger.Error("account service set balance rejected", err, logger.Fields{"accountId": id})
		return models.AccountResponse{}, err
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.AccountResponse{}, err
	}

	previous := account.Balance
	if err := account.SetBalance(*newBalance); err != nil {
		return models.AccountResponse{}, err
	}

	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		logger.Error("account service set balance save failed", err, logger.Fields{"accountId": id})
		return models.AccountResponse{}, err
	}

	logger.Info("account service set balance success", logger.Fields{
		"accountId":       id,
		"previousBalance": previous,
		"newBalance":      saved.Balance,
	})
	return models.AccountResponseFrom(saved), nil
}

// Debit validates the amount sign before the existence lookup, then applies
// the entity rules (sufficiency included).
func (s *AccountService) Debit(ctx context.Context, id string, amount decimal.Decimal) (models.AccountResponse, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		err := &domain.ValidationError{Message: "debit amount must be positive"}
		logger.Error("account service debit rejected", err, logger.Fields{"accountId": id})
		return models.AccountResponse{}, err
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.AccountResponse{}, err
	}

	previous := account.Balance
	if err := account.Debit(amount); err != nil {
		logger.Info("account service debit refused", logger.Fields{
			"accountId": id,
			"balance":   previous,
			"amount":    amount,
			"reason":    err.Error(),
		})
		return models.AccountResponse{}, err
	}

	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		logger.Error("account service debit save failed", err, logger.Fields{"accountId": id})
		return models.AccountResponse{}, err
	}

	logger.Info("account service debit success", logger.Fields{
		"accountId":       id,
		"previousBalance": previous,
		"amount":          amount,
		"currentBalance":  saved.Balance,
	})
	return models.AccountResponseFrom(saved), nil
}

func (s *AccountService) Credit(ctx context.Context, id string, amount decimal.Decimal) (models.AccountResponse, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		err := &domain.ValidationError{Message: "credit amount must be positive"}
		logger.Error("account service credit rejected", err, logger.Fields{"accountId": id})
		return models.AccountResponse{}, err
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.AccountResponse{}, err
	}

	previous := account.Balance
	if err := account.Credit(amount); err != nil {
		return models.AccountResponse{}, err
	}

	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		logger.Error("account service credit save failed", err, logger.Fields{"accountId": id})
		return models.AccountResponse{}, err
	}

	logger.Info("account service credit success", logger.Fields{
		"accountId":       id,
		"previousBalance": previous,
		"amount":          amount,
		"currentBalance":  saved.Balance,
	})
	return models.AccountResponseFrom(saved), nil
}

func (s *AccountService) Activate(ctx context.Context, id string) (models.AccountResponse, error) {
	return s.setActive(ctx, id, true)
}

func (s *AccountService) Deactivate(ctx context.Context, id string) (models.AccountResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *AccountService) setActive(ctx context.Context, id string, active bool) (models.AccountResponse, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.AccountResponse{}, err
	}

	if active {
		account.Activate()
	} else {
		account.Deactivate()
	}

	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		logger.Error("account service activation toggle save failed", err, logger.Fields{
			"accountId": id,
			"active":    active,
		})
		return models.AccountResponse{}, err
	}

	logger.Info("account service activation toggle success", logger.Fields{
		"accountId": id,
		"active":    active,
	})
	return models.AccountResponseFrom(saved), nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("account service delete success", logger.Fields{"accountId": id})
	return nil
}

func (s *AccountService) Statistics(ctx context.Context) (models.Statistics, error) {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return models.Statistics{}, err
	}

	average := decimal.Zero
	if stats.ActiveAccounts > 0 {
		average = stats.TotalActiveBalance.Div(decimal.NewFromInt(stats.ActiveAccounts)).Round(2)
	}

	return models.Statistics{
		TotalAccounts:            stats.TotalAccounts,
		ActiveAccounts:           stats.ActiveAccounts,
		InactiveAccounts:         stats.TotalAccounts - stats.ActiveAccounts,
		TotalActiveBalance:       stats.TotalActiveBalance,
		AverageBalancePerAccount: average,
	}, nil
}

// StatisticsByType reports every enumeration value, zero-filled for types
// with no active accounts.
func (s *AccountService) StatisticsByType(ctx context.Context) (map[string]models.TypeStatistics, error) {
	rows, err := s.repo.StatisticsByType(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]models.TypeStatistics, len(domain.AccountTypes()))
	for _, accountType := range domain.AccountTypes() {
		out[string(accountType)] = models.TypeStatistics{
			TotalBalance:   decimal.Zero,
			AverageBalance: decimal.Zero,
			Label:          accountType.Label(),
		}
	}

	for _, row := range rows {
		average := decimal.Zero
		if row.Count > 0 {
			average = row.TotalBalance.Div(decimal.NewFromInt(row.Count)).Round(2)
		}
		out[string(row.AccountType)] = models.TypeStatistics{
			Count:          row.Count,
			TotalBalance:   row.TotalBalance,
			AverageBalance: average,
			Label:          row.AccountType.Label(),
		}
	}

	return out, nil
}

func (s *AccountService) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	return s.repo.ExistsByNumber(ctx, strings.TrimSpace(accountNumber))
}

func (s *AccountService) HoldersWithDuplicateAccounts(ctx context.Context) ([]string, error) {
	holders, err := s.repo.HoldersWithMultipleAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if holders == nil {
		holders = []string{}
	}
	return holders, nil
}
