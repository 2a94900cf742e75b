package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cedrobank/accounts-service/internal/adapter/http/models"
	"github.com/cedrobank/accounts-service/internal/logger"
)

const (
	originInternalQuery         = "internal-query"
	originInternalQueryMultiple = "internal-query-multiple"

	defaultInternalQueryTimeout = 5 * time.Second
)

// InternalQueryConfig configures the self-query gateway explicitly at
// construction time. RetryAttempts is the number of extra attempts after the
// first call; zero keeps internal queries single-attempt.
type InternalQueryConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
}

// InternalQueryService calls the service's own query surface over the
// network and wraps every outcome, transport failures included, in an
// envelope.
type InternalQueryService struct {
	cfg    InternalQueryConfig
	client *http.Client
}

func NewInternalQueryService(cfg InternalQueryConfig) *InternalQueryService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultInternalQueryTimeout
	}
	if cfg.RetryAttempts < 0 {
		cfg.RetryAttempts = 0
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &InternalQueryService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *InternalQueryService) AccountByID(ctx context.Context, id string) models.InternalQueryEnvelope {
	url := s.cfg.BaseURL + "/accounts/" + id

	payload, status, err := s.fetch(ctx, url)
	if err != nil {
		return s.errorEnvelope(originInternalQuery, err)
	}

	return models.InternalQueryEnvelope{
		Origin:    originInternalQuery,
		Endpoint:  url,
		QueriedAt: nowMillis(),
		Status:    status,
		Account:   payload,
	}
}

func (s *InternalQueryService) ActiveAccounts(ctx context.Context) models.InternalQueryEnvelope {
	url := s.cfg.BaseURL + "/accounts/active"

	payload, status, err := s.fetch(ctx, url)
	if err != nil {
		return s.errorEnvelope(originInternalQuery, err)
	}

	count, err := countElements(payload)
	if err != nil {
		return s.errorEnvelope(originInternalQuery, err)
	}

	return models.InternalQueryEnvelope{
		Origin:              originInternalQuery,
		Endpoint:            url,
		QueriedAt:           nowMillis(),
		Status:              status,
		ActiveAccounts:      payload,
		TotalActiveAccounts: &count,
	}
}

func (s *InternalQueryService) Statistics(ctx context.Context) models.InternalQueryEnvelope {
	url := s.cfg.BaseURL + "/accounts/statistics"

	payload, status, err := s.fetch(ctx, url)
	if err != nil {
		return s.errorEnvelope(originInternalQuery, err)
	}

	return models.InternalQueryEnvelope{
		Origin:     originInternalQuery,
		Endpoint:   url,
		QueriedAt:  nowMillis(),
		Status:     status,
		Statistics: payload,
	}
}

// FullSummary performs three self-calls in sequence and aggregates them. A
// failure in any of the three fails the whole summary.
func (s *InternalQueryService) FullSummary(ctx context.Context) models.InternalQueryEnvelope {
	statisticsURL := s.cfg.BaseURL + "/accounts/statistics"
	activeURL := s.cfg.BaseURL + "/accounts/active"
	byTypeURL := s.cfg.BaseURL + "/accounts/statistics/type"

	statistics, _, err := s.fetch(ctx, statisticsURL)
	if err != nil {
		return s.errorEnvelope(originInternalQueryMultiple, err)
	}

	active, _, err := s.fetch(ctx, activeURL)
	if err != nil {
		return s.errorEnvelope(originInternalQueryMultiple, err)
	}

	byType, _, err := s.fetch(ctx, byTypeURL)
	if err != nil {
		return s.errorEnvelope(originInternalQueryMultiple, err)
	}

	count, err := countElements(active)
	if err != nil {
		return s.errorEnvelope(originInternalQueryMultiple, err)
	}

	logger.Info("internal query full summary success", logger.Fields{
		"queriesPerformed":    3,
		"totalActiveAccounts": count,
	})

	return models.InternalQueryEnvelope{
		Origin:           originInternalQueryMultiple,
		Endpoints:        []string{statisticsURL, activeURL, byTypeURL},
		QueriedAt:        nowMillis(),
		Statistics:       statistics,
		ActiveAccounts:   active,
		StatisticsByType: byType,
		Summary: &models.InternalQuerySummary{
			TotalActiveAccounts: count,
			QueriesPerformed:    3,
			Status:              "success",
		},
	}
}

// fetch performs the outbound call with up to RetryAttempts extra attempts.
func (s *InternalQueryService) fetch(ctx context.Context, url string) (json.RawMessage, int, error) {
	var lastErr error

	attempts := s.cfg.RetryAttempts + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		payload, status, err := s.doFetch(ctx, url)
		if err == nil {
			return payload, status, nil
		}

		lastErr = err
		logger.Error("internal query call failed", err, logger.Fields{
			"url":     url,
			"attempt": attempt,
		})

		if ctx.Err() != nil {
			break
		}
	}

	return nil, 0, lastErr
}

func (s *InternalQueryService) doFetch(ctx context.Context, url string) (json.RawMessage, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build internal query request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("call internal query endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read internal query response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, 0, fmt.Errorf("internal query endpoint %s answered status %d", url, resp.StatusCode)
	}

	if !json.Valid(body) {
		return nil, 0, fmt.Errorf("internal query endpoint %s answered a non-JSON body", url)
	}

	return json.RawMessage(body), resp.StatusCode, nil
}

func (s *InternalQueryService) errorEnvelope(origin string, err error) models.InternalQueryEnvelope {
	return models.InternalQueryEnvelope{
		Origin:  origin,
		Error:   true,
		Message: "internal query failed: " + err.Error(),
		ErrorAt: nowMillis(),
	}
}

func countElements(payload json.RawMessage) (int, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(payload, &elements); err != nil {
		return 0, fmt.Errorf("decode internal query list payload: %w", err)
	}
	return len(elements), nil
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
