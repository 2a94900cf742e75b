package repo_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cedrobank/accounts-service/internal/domain"
)

// ListQuery is the pagination request of the list operation. SortBy is a
// response field name; unknown fields fall back to creation time.
type ListQuery struct {
	Page       int
	Size       int
	SortBy     string
	Descending bool
}

// SearchCriteria is a conjunctive filter; nil members are wildcards.
type SearchCriteria struct {
	Holder      *string
	AccountType *domain.AccountType
	MinBalance  *decimal.Decimal
	Active      *bool
}

type Statistics struct {
	TotalAccounts      int64
	ActiveAccounts     int64
	TotalActiveBalance decimal.Decimal
}

type TypeStatisticsRow struct {
	AccountType  domain.AccountType
	Count        int64
	TotalBalance decimal.Decimal
}

type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	List(ctx context.Context, query ListQuery) ([]domain.Account, int64, error)
	SearchByHolder(ctx context.Context, holder string) ([]domain.Account, error)
	SearchByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
	ListActive(ctx context.Context) ([]domain.Account, error)
	SearchByCriteria(ctx context.Context, criteria SearchCriteria) ([]domain.Account, error)
	Save(ctx context.Context, account domain.Account) (domain.Account, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (Statistics, error)
	StatisticsByType(ctx context.Context) ([]TypeStatisticsRow, error)
	ExistsByNumber(ctx context.Context, accountNumber string) (bool, error)
	HoldersWithMultipleAccounts(ctx context.Context) ([]string, error)
}
