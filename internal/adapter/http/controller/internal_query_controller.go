package controller

import (
	"net/http"

	"github.com/cedrobank/accounts-service/internal/adapter/http/models"
	"github.com/cedrobank/accounts-service/internal/usecase/service_interfaces"
)

// InternalQueryController exposes the endpoints that query the service over
// its own HTTP surface. Failures come back as an error envelope with status
// 500, never as the regular error contract.
type InternalQueryController struct {
	service service_interfaces.InternalQueryService
}

func NewInternalQueryController(service service_interfaces.InternalQueryService) *InternalQueryController {
	return &InternalQueryController{service: service}
}

func (c *InternalQueryController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/internal-query/account/{id}", c.accountByID)
	mux.HandleFunc("GET /api/v1/internal-query/active-accounts", c.activeAccounts)
	mux.HandleFunc("GET /api/v1/internal-query/statistics", c.statistics)
	mux.HandleFunc("GET /api/v1/internal-query/full-summary", c.fullSummary)
}

func (c *InternalQueryController) accountByID(w http.ResponseWriter, r *http.Request) {
	c.writeEnvelope(w, c.service.AccountByID(r.Context(), r.PathValue("id")))
}

func (c *InternalQueryController) activeAccounts(w http.ResponseWriter, r *http.Request) {
	c.writeEnvelope(w, c.service.ActiveAccounts(r.Context()))
}

func (c *InternalQueryController) statistics(w http.ResponseWriter, r *http.Request) {
	c.writeEnvelope(w, c.service.Statistics(r.Context()))
}

func (c *InternalQueryController) fullSummary(w http.ResponseWriter, r *http.Request) {
	c.writeEnvelope(w, c.service.FullSummary(r.Context()))
}

func (c *InternalQueryController) writeEnvelope(w http.ResponseWriter, envelope models.InternalQueryEnvelope) {
	status := http.StatusOK
	if envelope.Error {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, envelope)
}
