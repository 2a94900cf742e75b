package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/cedrobank/accounts-service/internal/adapter/repository/repo_interfaces"
	"github.com/cedrobank/accounts-service/internal/domain"
	"github.com/cedrobank/accounts-service/internal/logger"
)

const uniqueViolationCode = "23505"

const accountColumns = `id, account_number, holder, balance, account_type, currency, created_at, updated_at, active`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
INSERT INTO accounts (
	id,
	account_number,
	holder,
	balance,
	account_type,
	currency,
	created_at,
	updated_at,
	active
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	account.ID = uuid.NewString()

	if _, err := r.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.AccountNumber,
		account.Holder,
		account.Balance,
		string(account.AccountType),
		account.Currency,
		account.CreatedAt,
		account.UpdatedAt,
		account.Active,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
			logger.Info("account repository unique violation on create", logger.Fields{
				"accountNumber": account.AccountNumber,
			})
			return domain.Account{}, &domain.DuplicateAccountError{AccountNumber: account.AccountNumber}
		}
		logger.Error("account repository create failed", err, logger.Fields{
			"accountNumber": account.AccountNumber,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1`

	var account domain.Account
	if err := scanAccount(r.db.QueryRowContext(ctx, query, id), &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		logger.Error("account repository get by id failed", err, logger.Fields{"accountId": id})
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_number = $1`

	var account domain.Account
	if err := scanAccount(r.db.QueryRowContext(ctx, query, accountNumber), &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		logger.Error("account repository get by number failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, fmt.Errorf("get account by number: %w", err)
	}

	return account, nil
}

// sortColumns whitelists the sortable response fields against column names.
var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"accountNumber": "account_number",
	"holder":        "holder",
	"balance":       "balance",
	"accountType":   "account_type",
	"id":            "id",
}

func (r *AccountRepository) List(ctx context.Context, query repo_interfaces.ListQuery) ([]domain.Account, int64, error) {
	column, ok := sortColumns[query.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if query.Descending {
		direction = "DESC"
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		logger.Error("account repository count failed", err, nil)
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	listQuery := fmt.Sprintf(`
SELECT `+accountColumns+`
FROM accounts
ORDER BY %s %s
LIMIT $1 OFFSET $2`, column, direction)

	rows, err := r.db.QueryContext(ctx, listQuery, query.Size, query.Page*query.Size)
	if err != nil {
		logger.Error("account repository list failed", err, logger.Fields{
			"page": query.Page,
			"size": query.Size,
		})
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, total, nil
}

func (r *AccountRepository) SearchByHolder(ctx context.Context, holder string) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE UPPER(holder) LIKE UPPER('%' || $1 || '%')
ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, holder)
	if err != nil {
		logger.Error("account repository search by holder failed", err, logger.Fields{"holder": holder})
		return nil, fmt.Errorf("search accounts by holder: %w", err)
	}
	defer rows.Close()

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, fmt.Errorf("search accounts by holder: %w", err)
	}

	return accounts, nil
}

func (r *AccountRepository) SearchByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_type = $1
ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, string(accountType))
	if err != nil {
		logger.Error("account repository search by type failed", err, logger.Fields{
			"accountType": string(accountType),
		})
		return nil, fmt.Errorf("search accounts by type: %w", err)
	}
	defer rows.Close()

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, fmt.Errorf("search accounts by type: %w", err)
	}

	return accounts, nil
}

func (r *AccountRepository) ListActive(ctx context.Context) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE active = TRUE
ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("account repository list active failed", err, nil)
		return nil, fmt.Errorf("list active accounts: %w", err)
	}
	defer rows.Close()

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, fmt.Errorf("list active accounts: %w", err)
	}

	return accounts, nil
}

func (r *AccountRepository) SearchByCriteria(ctx context.Context, criteria repo_interfaces.SearchCriteria) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE ($1::text IS NULL OR UPPER(holder) LIKE UPPER('%' || $1 || '%'))
  AND ($2::text IS NULL OR account_type = $2)
  AND ($3::numeric IS NULL OR balance >= $3)
  AND ($4::boolean IS NULL OR active = $4)
ORDER BY created_at DESC`

	var accountType *string
	if criteria.AccountType != nil {
		value := string(*criteria.AccountType)
		accountType = &value
	}
	var minBalance *string
	if criteria.MinBalance != nil {
		value := criteria.MinBalance.String()
		minBalance = &value
	}

	rows, err := r.db.QueryContext(ctx, query, criteria.Holder, accountType, minBalance, criteria.Active)
	if err != nil {
		logger.Error("account repository search by criteria failed", err, nil)
		return nil, fmt.Errorf("search accounts by criteria: %w", err)
	}
	defer rows.Close()

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, fmt.Errorf("search accounts by criteria: %w", err)
	}

	return accounts, nil
}

// Save persists the mutable columns of an already-loaded account as one
// atomic row update. Account number, type and creation time never change
// after creation.
func (r *AccountRepository) Save(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
UPDATE accounts
SET holder = $2,
    balance = $3,
    currency = $4,
    active = $5,
    updated_at = $6
WHERE id = $1`

	result, err := r.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Holder,
		account.Balance,
		account.Currency,
		account.Active,
		account.UpdatedAt,
	)
	if err != nil {
		logger.Error("account repository save failed", err, logger.Fields{"accountId": account.ID})
		return domain.Account{}, fmt.Errorf("save account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Account{}, fmt.Errorf("save account rows affected: %w", err)
	}
	if rows == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return account, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		logger.Error("account repository delete failed", err, logger.Fields{"accountId": id})
		return fmt.Errorf("delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) Statistics(ctx context.Context) (repo_interfaces.Statistics, error) {
	const query = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE active),
       COALESCE(SUM(balance) FILTER (WHERE active), 0)
FROM accounts`

	var stats repo_interfaces.Statistics
	if err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalAccounts,
		&stats.ActiveAccounts,
		&stats.TotalActiveBalance,
	); err != nil {
		logger.Error("account repository statistics failed", err, nil)
		return repo_interfaces.Statistics{}, fmt.Errorf("account statistics: %w", err)
	}

	return stats, nil
}

// StatisticsByType groups active accounts only, mirroring the aggregate
// query the statistics endpoint exposes.
func (r *AccountRepository) StatisticsByType(ctx context.Context) ([]repo_interfaces.TypeStatisticsRow, error) {
	const query = `
SELECT account_type, COUNT(*), COALESCE(SUM(balance), 0)
FROM accounts
WHERE active = TRUE
GROUP BY account_type`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("account repository statistics by type failed", err, nil)
		return nil, fmt.Errorf("account statistics by type: %w", err)
	}
	defer rows.Close()

	var out []repo_interfaces.TypeStatisticsRow
	for rows.Next() {
		var row repo_interfaces.TypeStatisticsRow
		var accountType string
		if err := rows.Scan(&accountType, &row.Count, &row.TotalBalance); err != nil {
			return nil, fmt.Errorf("scan type statistics: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("account statistics by type: %w", err)
	}

	return out, nil
}

func (r *AccountRepository) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(&exists); err != nil {
		logger.Error("account repository exists by number failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return false, fmt.Errorf("account exists by number: %w", err)
	}

	return exists, nil
}

// HoldersWithMultipleAccounts returns holder names owning more than one
// account, by exact name match.
func (r *AccountRepository) HoldersWithMultipleAccounts(ctx context.Context) ([]string, error) {
	const query = `
SELECT holder
FROM accounts
GROUP BY holder
HAVING COUNT(*) > 1
ORDER BY holder`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("account repository duplicate holders failed", err, nil)
		return nil, fmt.Errorf("holders with multiple accounts: %w", err)
	}
	defer rows.Close()

	var holders []string
	for rows.Next() {
		var holder string
		if err := rows.Scan(&holder); err != nil {
			return nil, fmt.Errorf("scan duplicate holder: %w", err)
		}
		holders = append(holders, holder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("holders with multiple accounts: %w", err)
	}

	return holders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner, account *domain.Account) error {
	var accountType string
	var balance decimal.Decimal

	if err := row.Scan(
		&account.ID,
		&account.AccountNumber,
		&account.Holder,
		&balance,
		&accountType,
		&account.Currency,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.Active,
	); err != nil {
		return err
	}

	account.Balance = balance
	account.AccountType = domain.AccountType(accountType)
	account.Currency = strings.TrimSpace(account.Currency)
	return nil
}

func collectAccounts(rows *sql.Rows) ([]domain.Account, error) {
	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}
