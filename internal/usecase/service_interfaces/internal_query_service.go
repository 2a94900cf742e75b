package service_interfaces

import (
	"context"

	"github.com/cedrobank/accounts-service/internal/adapter/http/models"
)

// InternalQueryService never returns an error: every outcome, including
// transport failures, is folded into the envelope.
type InternalQueryService interface {
	AccountByID(ctx context.Context, id string) models.InternalQueryEnvelope
	ActiveAccounts(ctx context.Context) models.InternalQueryEnvelope
	Statistics(ctx context.Context) models.InternalQueryEnvelope
	FullSummary(ctx context.Context) models.InternalQueryEnvelope
}
