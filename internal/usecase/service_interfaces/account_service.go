package service_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cedrobank/accounts-service/internal/adapter/http/models"
)

type AccountService interface {
	Create(ctx context.Context, req models.AccountRequest) (models.AccountResponse, error)
	GetByID(ctx context.Context, id string) (models.AccountResponse, error)
	GetByNumber(ctx context.Context, accountNumber string) (models.AccountResponse, error)
	List(ctx context.Context, page, size int, sortBy, sortDir string) (models.AccountPage, error)
	SearchByHolder(ctx context.Context, holder string) ([]models.AccountResponse, error)
	SearchByType(ctx context.Context, accountType string) ([]models.AccountResponse, error)
	ListActive(ctx context.Context) ([]models.AccountResponse, error)
	SearchByCriteria(ctx context.Context, criteria models.SearchCriteriaRequest) ([]models.AccountResponse, error)
	Update(ctx context.Context, id string, req models.AccountRequest) (models.AccountResponse, error)
	SetBalance(ctx context.Context, id string, newBalance *decimal.Decimal) (models.AccountResponse, error)
	Debit(ctx context.Context, id string, amount decimal.Decimal) (models.AccountResponse, error)
	Credit(ctx context.Context, id string, amount decimal.Decimal) (models.AccountResponse, error)
	Activate(ctx context.Context, id string) (models.AccountResponse, error)
	Deactivate(ctx context.Context, id string) (models.AccountResponse, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (models.Statistics, error)
	StatisticsByType(ctx context.Context) (map[string]models.TypeStatistics, error)
	ExistsByNumber(ctx context.Context, accountNumber string) (bool, error)
	HoldersWithDuplicateAccounts(ctx context.Context) ([]string, error)
}
