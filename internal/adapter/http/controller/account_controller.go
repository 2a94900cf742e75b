package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cedrobank/accounts-service/internal/adapter/http/models"
	"github.com/cedrobank/accounts-service/internal/domain"
	"github.com/cedrobank/accounts-service/internal/logger"
	"github.com/cedrobank/accounts-service/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/accounts", c.create)
	mux.HandleFunc("GET /api/v1/accounts", c.list)
	mux.HandleFunc("GET /api/v1/accounts/active", c.listActive)
	mux.HandleFunc("GET /api/v1/accounts/search", c.searchByCriteria)
	mux.HandleFunc("GET /api/v1/accounts/search/holder", c.searchByHolder)
	mux.HandleFunc("GET /api/v1/accounts/search/type", c.searchByType)
	mux.HandleFunc("GET /api/v1/accounts/statistics", c.statistics)
	mux.HandleFunc("GET /api/v1/accounts/statistics/type", c.statisticsByType)
	mux.HandleFunc("GET /api/v1/accounts/duplicates", c.duplicateHolders)
	mux.HandleFunc("GET /api/v1/accounts/exists/{accountNumber}", c.exists)
	mux.HandleFunc("GET /api/v1/accounts/number/{accountNumber}", c.getByNumber)
	mux.HandleFunc("GET /api/v1/accounts/{id}", c.getByID)
	mux.HandleFunc("PUT /api/v1/accounts/{id}", c.update)
	mux.HandleFunc("DELETE /api/v1/accounts/{id}", c.delete)
	mux.HandleFunc("PATCH /api/v1/accounts/{id}/balance", c.setBalance)
	mux.HandleFunc("POST /api/v1/accounts/{id}/debit", c.debit)
	mux.HandleFunc("POST /api/v1/accounts/{id}/credit", c.credit)
	mux.HandleFunc("PATCH /api/v1/accounts/{id}/activate", c.activate)
	mux.HandleFunc("PATCH /api/v1/accounts/{id}/deactivate", c.deactivate)
}

func (c *AccountController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &domain.ValidationError{Message: "invalid request body"})
		return
	}
	logRequest(r, req)

	if fieldErrors := req.FieldErrors(); fieldErrors != nil {
		writeError(w, r, &domain.ValidationError{
			Message:     "account data is not valid",
			FieldErrors: fieldErrors,
		})
		return
	}

	account, err := c.service.Create(r.Context(), req)
	if err != nil {
		logError(r, err, nil)
		writeError(w, r, err)
		return
	}

	logResponse(r, http.StatusCreated, account, start)
	writeJSON(w, http.StatusCreated, account)
}

func (c *AccountController) getByID(w http.ResponseWriter, r *http.Request) {
	account, err := c.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (c *AccountController) getByNumber(w http.ResponseWriter, r *http.Request) {
	account, err := c.service.GetByNumber(r.Context(), r.PathValue("accountNumber"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (c *AccountController) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := intParam(query.Get("page"), 0)
	if err != nil {
		writeError(w, r, &domain.ValidationError{Message: "page must be a non-negative integer"})
		return
	}
	size, err := intParam(query.Get("size"), 10)
	if err != nil {
		writeError(w, r, &domain.ValidationError{Message: "size must be a positive integer"})
		return
	}

	pageResponse, err := c.service.List(r.Context(), page, size, query.Get("sortBy"), query.Get("sortDir"))
	if err != nil {
		logError(r, err, nil)
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageResponse)
}

func (c *AccountController) searchByHolder(w http.ResponseWriter, r *http.Request) {
	holder := strings.TrimSpace(r.URL.Query().Get("holder"))
	if holder == "" {
		writeError(w, r, &domain.ValidationError{Message: "holder query parameter is required"})
		return
	}

	accounts, err := c.service.SearchByHolder(r.Context(), holder)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accountList(accounts))
}

func (c *AccountController) searchByType(w http.ResponseWriter, r *http.Request) {
	accountType := strings.TrimSpace(r.URL.Query().Get("type"))
	if accountType == "" {
		writeError(w, r, &domain.ValidationError{Message: "type query parameter is required"})
		return
	}

	accounts, err := c.service.SearchByType(r.Context(), accountType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accountList(accounts))
}

func (c *AccountController) listActive(w http.ResponseWriter, r *http.Request) {
	accounts, err := c.service.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accountList(accounts))
}

func (c *AccountController) searchByCriteria(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var criteria models.SearchCriteriaRequest

	if holder := strings.TrimSpace(query.Get("holder")); holder != "" {
		criteria.Holder = &holder
	}
	if accountType := strings.TrimSpace(query.Get("type")); accountType != "" {
		criteria.AccountType = &accountType
	}
	if raw := strings.TrimSpace(query.Get("minBalance")); raw != "" {
		minBalance, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, r, &domain.ValidationError{Message: "minBalance must be a decimal number"})
			return
		}
		criteria.MinBalance = &minBalance
	}
	if raw := strings.TrimSpace(query.Get("active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, &domain.ValidationError{Message: "active must be true or false"})
			return
		}
		criteria.Active = &active
	}

	accounts, err := c.service.SearchByCriteria(r.Context(), criteria)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accountList(accounts))
}

func (c *AccountController) update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := r.PathValue("id")

	var req models.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &domain.ValidationError{Message: "invalid request body"})
		return
	}
	logRequest(r, req)

	if fieldErrors := req.FieldErrors(); fieldErrors != nil {
		writeError(w, r, &domain.ValidationError{
			Message:     "account data is not valid",
			FieldErrors: fieldErrors,
		})
		return
	}

	account, err := c.service.Update(r.Context(), id, req)
	if err != nil {
		logError(r, err, logger.Fields{"accountId": id})
		writeError(w, r, err)
		return
	}

	logResponse(r, http.StatusOK, account, start)
	writeJSON(w, http.StatusOK, account)
}

func (c *AccountController) setBalance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// The service rejects a missing or negative balance before the
	// existence lookup; only a malformed number is refused here.
	var newBalance *decimal.Decimal
	if raw := strings.TrimSpace(r.URL.Query().Get("newBalance")); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, r, &domain.ValidationError{Message: "newBalance must be a decimal number"})
			return
		}
		newBalance = &parsed
	}

	account, err := c.service.SetBalance(r.Context(), id, newBalance)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (c *AccountController) debit(w http.ResponseWriter, r *http.Request) {
	c.applyAmount(w, r, c.service.Debit)
}

func (c *AccountController) credit(w http.ResponseWriter, r *http.Request) {
	c.applyAmount(w, r, c.service.Credit)
}

func (c *AccountController) applyAmount(
	w http.ResponseWriter,
	r *http.Request,
	operation func(ctx context.Context, id string, amount decimal.Decimal) (models.AccountResponse, error),
) {
	id := r.PathValue("id")

	raw := strings.TrimSpace(r.URL.Query().Get("amount"))
	amount := decimal.Zero
	if raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, r, &domain.ValidationError{Message: "amount must be a decimal number"})
			return
		}
		amount = parsed
	}

	account, err := operation(r.Context(), id, amount)
	if err != nil {
		logError(r, err, logger.Fields{"accountId": id})
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (c *AccountController) activate(w http.ResponseWriter, r *http.Request) {
	account, err := c.service.Activate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (c *AccountController) deactivate(w http.ResponseWriter, r *http.Request) {
	account, err := c.service.Deactivate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (c *AccountController) delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *AccountController) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := c.service.Statistics(r.Context())
	if err != nil {
		logError(r, err, nil)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (c *AccountController) statisticsByType(w http.ResponseWriter, r *http.Request) {
	stats, err := c.service.StatisticsByType(r.Context())
	if err != nil {
		logError(r, err, nil)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (c *AccountController) exists(w http.ResponseWriter, r *http.Request) {
	exists, err := c.service.ExistsByNumber(r.Context(), r.PathValue("accountNumber"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exists)
}

func (c *AccountController) duplicateHolders(w http.ResponseWriter, r *http.Request) {
	holders, err := c.service.HoldersWithDuplicateAccounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, holders)
}

func accountList(accounts []models.AccountResponse) []models.AccountResponse {
	if accounts == nil {
		return []models.AccountResponse{}
	}
	return accounts
}

func intParam(raw string, fallback int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, errors.New("invalid integer parameter")
	}
	return value, nil
}
