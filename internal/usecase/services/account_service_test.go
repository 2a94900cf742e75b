package services_test

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cedrobank/accounts-service/internal/adapter/http/models"
	"github.com/cedrobank/accounts-service/internal/adapter/repository/repo_interfaces"
	"github.com/cedrobank/accounts-service/internal/domain"
	"github.com/cedrobank/accounts-service/internal/usecase/services"
)

// fakeAccountRepository is an in-memory stand-in for the postgres repository.
type fakeAccountRepository struct {
	accounts map[string]domain.Account
	order    []string
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{accounts: map[string]domain.Account{}}
}

func (r *fakeAccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	for _, existing := range r.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return domain.Account{}, &domain.DuplicateAccountError{AccountNumber: account.AccountNumber}
		}
	}
	account.ID = uuid.NewString()
	r.accounts[account.ID] = account
	r.order = append(r.order, account.ID)
	return account, nil
}

func (r *fakeAccountRepository) GetByID(_ context.Context, id string) (domain.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}

func (r *fakeAccountRepository) GetByAccountNumber(_ context.Context, accountNumber string) (domain.Account, error) {
	for _, account := range r.accounts {
		if account.AccountNumber == accountNumber {
			return account, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

func (r *fakeAccountRepository) List(_ context.Context, query repo_interfaces.ListQuery) ([]domain.Account, int64, error) {
	all := r.ordered()
	total := int64(len(all))

	start := query.Page * query.Size
	if start >= len(all) {
		return []domain.Account{}, total, nil
	}
	end := start + query.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeAccountRepository) SearchByHolder(_ context.Context, holder string) ([]domain.Account, error) {
	var out []domain.Account
	for _, account := range r.ordered() {
		if strings.Contains(strings.ToUpper(account.Holder), strings.ToUpper(holder)) {
			out = append(out, account)
		}
	}
	return out, nil
}

func (r *fakeAccountRepository) SearchByType(_ context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	var out []domain.Account
	for _, account := range r.ordered() {
		if account.AccountType == accountType {
			out = append(out, account)
		}
	}
	return out, nil
}

func (r *fakeAccountRepository) ListActive(_ context.Context) ([]domain.Account, error) {
	var out []domain.Account
	for _, account := range r.ordered() {
		if account.Active {
			out = append(out, account)
		}
	}
	return out, nil
}

func (r *fakeAccountRepository) SearchByCriteria(_ context.Context, criteria repo_interfaces.SearchCriteria) ([]domain.Account, error) {
	var out []domain.Account
	for _, account := range r.ordered() {
		if criteria.Holder != nil && !strings.Contains(strings.ToUpper(account.Holder), strings.ToUpper(*criteria.Holder)) {
			continue
		}
		if criteria.AccountType != nil && account.AccountType != *criteria.AccountType {
			continue
		}
		if criteria.MinBalance != nil && account.Balance.LessThan(*criteria.MinBalance) {
			continue
		}
		if criteria.Active != nil && account.Active != *criteria.Active {
			continue
		}
		out = append(out, account)
	}
	return out, nil
}

func (r *fakeAccountRepository) Save(_ context.Context, account domain.Account) (domain.Account, error) {
	if _, ok := r.accounts[account.ID]; !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	r.accounts[account.ID] = account
	return account, nil
}

func (r *fakeAccountRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *fakeAccountRepository) Statistics(_ context.Context) (repo_interfaces.Statistics, error) {
	stats := repo_interfaces.Statistics{TotalActiveBalance: decimal.Zero}
	for _, account := range r.accounts {
		stats.TotalAccounts++
		if account.Active {
			stats.ActiveAccounts++
			stats.TotalActiveBalance = stats.TotalActiveBalance.Add(account.Balance)
		}
	}
	return stats, nil
}

func (r *fakeAccountRepository) StatisticsByType(_ context.Context) ([]repo_interfaces.TypeStatisticsRow, error) {
	byType := map[domain.AccountType]*repo_interfaces.TypeStatisticsRow{}
	for _, account := range r.accounts {
		if !account.Active {
			continue
		}
		row, ok := byType[account.AccountType]
		if !ok {
			row = &repo_interfaces.TypeStatisticsRow{AccountType: account.AccountType, TotalBalance: decimal.Zero}
			byType[account.AccountType] = row
		}
		row.Count++
		row.TotalBalance = row.TotalBalance.Add(account.Balance)
	}

	out := make([]repo_interfaces.TypeStatisticsRow, 0, len(byType))
	for _, row := range byType {
		out = append(out, *row)
	}
	return out, nil
}

func (r *fakeAccountRepository) ExistsByNumber(_ context.Context, accountNumber string) (bool, error) {
	for _, account := range r.accounts {
		if account.AccountNumber == accountNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepository) HoldersWithMultipleAccounts(_ context.Context) ([]string, error) {
	counts := map[string]int{}
	for _, account := range r.accounts {
		counts[account.Holder]++
	}
	var out []string
	for holder, count := range counts {
		if count > 1 {
			out = append(out, holder)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeAccountRepository) ordered() []domain.Account {
	out := make([]domain.Account, 0, len(r.order))
	for _, id := range r.order {
		if account, ok := r.accounts[id]; ok {
			out = append(out, account)
		}
	}
	return out
}

func newService() (*services.AccountService, *fakeAccountRepository) {
	repo := newFakeAccountRepository()
	return services.NewAccountService(repo), repo
}

func balancePtr(raw string) *decimal.Decimal {
	b := decimal.RequireFromString(raw)
	return &b
}

func mustCreate(t *testing.T, svc *services.AccountService, req models.AccountRequest) models.AccountResponse {
	t.Helper()
	account, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

func TestAccountServiceCreateAndGetByID(t *testing.T) {
	svc, _ := newService()

	created := mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "1234567890",
		Holder:        "Juan Perez",
		Balance:       balancePtr("1000.00"),
		AccountType:   "CHECKING",
	})

	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Currency != "EUR" {
		t.Fatalf("expected default currency EUR, got %s", created.Currency)
	}
	if created.AccountTypeLabel != "Checking Account" {
		t.Fatalf("unexpected label %s", created.AccountTypeLabel)
	}
	if !created.AllowsOverdraft {
		t.Fatal("expected checking account to allow overdraft")
	}

	fetched, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if fetched.ID != created.ID || fetched.AccountNumber != created.AccountNumber || fetched.Holder != created.Holder {
		t.Fatalf("expected fetched account to equal created account\ncreated: %+v\nfetched: %+v", created, fetched)
	}
	if !fetched.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected fetched balance 1000.00, got %s", fetched.Balance)
	}
}

func TestAccountServiceCreateDuplicateNumber(t *testing.T) {
	svc, _ := newService()

	mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "1234567890",
		Holder:        "Juan Perez",
		AccountType:   "CHECKING",
	})

	_, err := svc.Create(context.Background(), models.AccountRequest{
		AccountNumber: "1234567890",
		Holder:        "Ana Gomez",
		AccountType:   "SAVINGS",
	})
	if !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("expected duplicate account error, got %v", err)
	}

	var dupErr *domain.DuplicateAccountError
	if !errors.As(err, &dupErr) || dupErr.AccountNumber != "1234567890" {
		t.Fatalf("expected typed duplicate error with account number, got %v", err)
	}
}

func TestAccountServiceCreateStructuralValidation(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(context.Background(), models.AccountRequest{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAccountServiceGetByNumber(t *testing.T) {
	svc, _ := newService()

	created := mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "9876543210",
		Holder:        "Ana Gomez",
		AccountType:   "SAVINGS",
	})

	fetched, err := svc.GetByNumber(context.Background(), "9876543210")
	if err != nil {
		t.Fatalf("get by number: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("expected id %s, got %s", created.ID, fetched.ID)
	}

	if _, err := svc.GetByNumber(context.Background(), "0000000000"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAccountServiceListPagination(t *testing.T) {
	svc, _ := newService()

	for i := 0; i < 25; i++ {
		mustCreate(t, svc, models.AccountRequest{
			AccountNumber: "10000000" + strconv.Itoa(10+i),
			Holder:        "Juan Perez",
			AccountType:   "CHECKING",
		})
	}

	page, err := svc.List(context.Background(), 1, 10, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if page.TotalElements != 25 {
		t.Fatalf("expected 25 total elements, got %d", page.TotalElements)
	}
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", page.TotalPages)
	}
	if len(page.Content) != 10 {
		t.Fatalf("expected 10 elements on page 1, got %d", len(page.Content))
	}

	// Out-of-range values fall back to the defaults.
	page, err = svc.List(context.Background(), -3, 0, "", "")
	if err != nil {
		t.Fatalf("list with defaults: %v", err)
	}
	if page.Page != 0 || page.Size != 10 {
		t.Fatalf("expected defaulted page 0 size 10, got page %d size %d", page.Page, page.Size)
	}
}

func TestAccountServiceDebitInsufficientFunds(t *testing.T) {
	svc, repo := newService()

	created := mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "1234567890",
		Holder:        "Juan Perez",
		Balance:       balancePtr("1000.00"),
		AccountType:   "CHECKING",
	})

	_, err := svc.Debit(context.Background(), created.ID, decimal.RequireFromString("1200.00"))
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	stored, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get stored account: %v", err)
	}
	if !stored.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected balance unchanged at 1000.00, got %s", stored.Balance)
	}
}

func TestAccountServiceAmountValidationBeforeLookup(t *testing.T) {
	svc, _ := newService()

	// The id does not exist; an invalid amount must still win.
	if _, err := svc.Debit(context.Background(), "missing-id", decimal.Zero); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("debit: expected invalid input, got %v", err)
	}
	if _, err := svc.Credit(context.Background(), "missing-id", decimal.NewFromInt(-5)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("credit: expected invalid input, got %v", err)
	}
	if _, err := svc.SetBalance(context.Background(), "missing-id", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("set balance nil: expected invalid input, got %v", err)
	}
	negative := decimal.NewFromInt(-1)
	if _, err := svc.SetBalance(context.Background(), "missing-id", &negative); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("set balance negative: expected invalid input, got %v", err)
	}
}

func TestAccountServiceLifecycleScenario(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created := mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "1234567890",
		Holder:        "Juan Perez",
		Balance:       balancePtr("1000.00"),
		AccountType:   "CHECKING",
		Currency:      "EUR",
	})

	if _, err := svc.Debit(ctx, created.ID, decimal.RequireFromString("1200.00")); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds for 1200.00 debit, got %v", err)
	}

	afterDebit, err := svc.Debit(ctx, created.ID, decimal.RequireFromString("200.00"))
	if err != nil {
		t.Fatalf("debit 200.00: %v", err)
	}
	if !afterDebit.Balance.Equal(decimal.RequireFromString("800.00")) {
		t.Fatalf("expected balance 800.00, got %s", afterDebit.Balance)
	}

	afterCredit, err := svc.Credit(ctx, created.ID, decimal.RequireFromString("500.00"))
	if err != nil {
		t.Fatalf("credit 500.00: %v", err)
	}
	if !afterCredit.Balance.Equal(decimal.RequireFromString("1300.00")) {
		t.Fatalf("expected balance 1300.00, got %s", afterCredit.Balance)
	}

	deactivated, err := svc.Deactivate(ctx, created.ID)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if deactivated.Active {
		t.Fatal("expected account to be inactive")
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestAccountServiceUpdateMutableFieldsOnly(t *testing.T) {
	svc, _ := newService()

	created := mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "1234567890",
		Holder:        "Juan Perez",
		Balance:       balancePtr("1000.00"),
		AccountType:   "CHECKING",
	})

	updated, err := svc.Update(context.Background(), created.ID, models.AccountRequest{
		AccountNumber: "9999999999",
		Holder:        "Ana Gomez",
		Balance:       balancePtr("2500.00"),
		AccountType:   "SAVINGS",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Holder != "Ana Gomez" {
		t.Fatalf("expected updated holder, got %s", updated.Holder)
	}
	if !updated.Balance.Equal(decimal.RequireFromString("2500.00")) {
		t.Fatalf("expected updated balance 2500.00, got %s", updated.Balance)
	}
	if updated.AccountNumber != "1234567890" {
		t.Fatalf("expected account number untouched, got %s", updated.AccountNumber)
	}
	if updated.AccountType != "CHECKING" {
		t.Fatalf("expected account type untouched, got %s", updated.AccountType)
	}
}

func TestAccountServiceStatistics(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "1111111111",
		Holder:        "Juan Perez",
		Balance:       balancePtr("100.00"),
		AccountType:   "CHECKING",
	})
	mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "2222222222",
		Holder:        "Ana Gomez",
		Balance:       balancePtr("300.00"),
		AccountType:   "SAVINGS",
	})
	inactive := mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "3333333333",
		Holder:        "Luis Marin",
		Balance:       balancePtr("999.00"),
		AccountType:   "STUDENT",
	})
	if _, err := svc.Deactivate(ctx, inactive.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	stats, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}

	if stats.TotalAccounts != 3 || stats.ActiveAccounts != 2 {
		t.Fatalf("expected 3 total / 2 active, got %d / %d", stats.TotalAccounts, stats.ActiveAccounts)
	}
	if stats.InactiveAccounts != stats.TotalAccounts-stats.ActiveAccounts {
		t.Fatalf("inactive count %d does not match total minus active", stats.InactiveAccounts)
	}
	if !stats.TotalActiveBalance.Equal(decimal.RequireFromString("400.00")) {
		t.Fatalf("expected active balance 400.00, got %s", stats.TotalActiveBalance)
	}
	if !stats.AverageBalancePerAccount.Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("expected average 200.00, got %s", stats.AverageBalancePerAccount)
	}
}

func TestAccountServiceStatisticsEmpty(t *testing.T) {
	svc, _ := newService()

	stats, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("statistics on empty repository: %v", err)
	}

	if stats.TotalAccounts != 0 || stats.ActiveAccounts != 0 || stats.InactiveAccounts != 0 {
		t.Fatalf("expected zero counts, got %+v", stats)
	}
	if !stats.AverageBalancePerAccount.IsZero() {
		t.Fatalf("expected zero average, got %s", stats.AverageBalancePerAccount)
	}
}

func TestAccountServiceStatisticsByTypeZeroFilled(t *testing.T) {
	svc, _ := newService()

	mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "1111111111",
		Holder:        "Juan Perez",
		Balance:       balancePtr("100.00"),
		AccountType:   "CHECKING",
	})

	stats, err := svc.StatisticsByType(context.Background())
	if err != nil {
		t.Fatalf("statistics by type: %v", err)
	}

	if len(stats) != len(domain.AccountTypes()) {
		t.Fatalf("expected %d entries, got %d", len(domain.AccountTypes()), len(stats))
	}

	checking := stats["CHECKING"]
	if checking.Count != 1 || !checking.TotalBalance.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("unexpected checking statistics %+v", checking)
	}

	savings := stats["SAVINGS"]
	if savings.Count != 0 || !savings.TotalBalance.IsZero() {
		t.Fatalf("expected zero-filled savings statistics, got %+v", savings)
	}
	if savings.Label != "Savings Account" {
		t.Fatalf("expected label on zero-filled entry, got %q", savings.Label)
	}
}

func TestAccountServiceSearchByType(t *testing.T) {
	svc, _ := newService()

	mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "1111111111",
		Holder:        "Juan Perez",
		AccountType:   "CHECKING",
	})
	mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "2222222222",
		Holder:        "Ana Gomez",
		AccountType:   "SAVINGS",
	})

	accounts, err := svc.SearchByType(context.Background(), "savings")
	if err != nil {
		t.Fatalf("search by type: %v", err)
	}
	if len(accounts) != 1 || accounts[0].AccountNumber != "2222222222" {
		t.Fatalf("unexpected search result %+v", accounts)
	}

	if _, err := svc.SearchByType(context.Background(), "FOO"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown type, got %v", err)
	}
}

func TestAccountServiceSearchByCriteria(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "1111111111",
		Holder:        "Juan Perez",
		Balance:       balancePtr("100.00"),
		AccountType:   "CHECKING",
	})
	mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "2222222222",
		Holder:        "Juana Lopez",
		Balance:       balancePtr("900.00"),
		AccountType:   "CHECKING",
	})

	holder := "juan"
	minBalance := decimal.RequireFromString("500.00")
	accounts, err := svc.SearchByCriteria(ctx, models.SearchCriteriaRequest{
		Holder:     &holder,
		MinBalance: &minBalance,
	})
	if err != nil {
		t.Fatalf("search by criteria: %v", err)
	}
	if len(accounts) != 1 || accounts[0].AccountNumber != "2222222222" {
		t.Fatalf("unexpected criteria result %+v", accounts)
	}

	unknown := "FOO"
	if _, err := svc.SearchByCriteria(ctx, models.SearchCriteriaRequest{AccountType: &unknown}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown type, got %v", err)
	}
}

func TestAccountServiceExistsAndDuplicateHolders(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "1111111111",
		Holder:        "Juan Perez",
		AccountType:   "CHECKING",
	})
	mustCreate(t, svc, models.AccountRequest{
		AccountNumber: "2222222222",
		Holder:        "Juan Perez",
		AccountType:   "SAVINGS",
	})

	exists, err := svc.ExistsByNumber(ctx, "1111111111")
	if err != nil || !exists {
		t.Fatalf("expected account number to exist, got %v / %v", exists, err)
	}
	exists, err = svc.ExistsByNumber(ctx, "0000000000")
	if err != nil || exists {
		t.Fatalf("expected account number to not exist, got %v / %v", exists, err)
	}

	holders, err := svc.HoldersWithDuplicateAccounts(ctx)
	if err != nil {
		t.Fatalf("duplicate holders: %v", err)
	}
	if len(holders) != 1 || holders[0] != "Juan Perez" {
		t.Fatalf("unexpected duplicate holders %v", holders)
	}
}
