package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cedrobank/accounts-service/internal/adapter/http/models"
	"github.com/cedrobank/accounts-service/internal/domain"
	"github.com/cedrobank/accounts-service/internal/logger"
)

func logRequest(r *http.Request, payload any) {
	logger.Info("incoming request", logger.Fields{
		"method":  r.Method,
		"path":    r.URL.Path,
		"payload": logger.SanitizePayload(payload),
	})
}

func logResponse(r *http.Request, status int, payload any, start time.Time) {
	logger.Info("request completed", logger.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
		"payload":    logger.SanitizePayload(payload),
	})
}

func logError(r *http.Request, err error, fields logger.Fields) {
	merged := logger.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}
	for k, v := range fields {
		merged[k] = v
	}
	logger.Error("request failed", err, merged)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("encode response body", err, nil)
	}
}

// writeError maps domain errors onto the error contract. Unknown errors
// never leak their text to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "an unexpected error occurred"
	var fieldErrors map[string]string

	var validationErr *domain.ValidationError
	var duplicateErr *domain.DuplicateAccountError
	var insufficientErr *domain.InsufficientFundsError

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		code = "INVALID_INPUT"
		message = validationErr.Message
		fieldErrors = validationErr.FieldErrors
	case errors.As(err, &duplicateErr):
		status = http.StatusConflict
		code = "DUPLICATE_ACCOUNT"
		message = duplicateErr.Error()
	case errors.As(err, &insufficientErr):
		status = http.StatusBadRequest
		code = "INSUFFICIENT_FUNDS"
		message = insufficientErr.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
		code = "INVALID_INPUT"
		message = err.Error()
	case errors.Is(err, domain.ErrInsufficientFunds):
		status = http.StatusBadRequest
		code = "INSUFFICIENT_FUNDS"
		message = err.Error()
	case errors.Is(err, domain.ErrDuplicateAccount):
		status = http.StatusConflict
		code = "DUPLICATE_ACCOUNT"
		message = err.Error()
	case errors.Is(err, domain.ErrAccountNotFound):
		status = http.StatusNotFound
		code = "ACCOUNT_NOT_FOUND"
		message = err.Error()
	}

	writeJSON(w, status, models.ErrorResponse{
		Status:      status,
		Code:        code,
		Message:     message,
		Path:        r.URL.Path,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		FieldErrors: fieldErrors,
	})
}
