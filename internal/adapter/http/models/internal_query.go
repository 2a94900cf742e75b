package models

import "encoding/json"

// InternalQueryEnvelope is the uniform wrapper returned by the self-query
// operations. A success carries the call metadata plus the upstream payload;
// a failure carries Error=true with a message and an error timestamp. The
// envelope is the only shape these operations ever produce.
type InternalQueryEnvelope struct {
	Origin    string   `json:"origin"`
	Endpoint  string   `json:"endpoint,omitempty"`
	Endpoints []string `json:"endpoints,omitempty"`
	QueriedAt int64    `json:"queriedAt,omitempty"`
	Status    int      `json:"status,omitempty"`

	Account             json.RawMessage       `json:"account,omitempty"`
	ActiveAccounts      json.RawMessage       `json:"activeAccounts,omitempty"`
	TotalActiveAccounts *int                  `json:"totalActiveAccounts,omitempty"`
	Statistics          json.RawMessage       `json:"statistics,omitempty"`
	StatisticsByType    json.RawMessage       `json:"statisticsByType,omitempty"`
	Summary             *InternalQuerySummary `json:"summary,omitempty"`

	Error   bool   `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	ErrorAt int64  `json:"errorAt,omitempty"`
}

type InternalQuerySummary struct {
	TotalActiveAccounts int    `json:"totalActiveAccounts"`
	QueriesPerformed    int    `json:"queriesPerformed"`
	Status              string `json:"status"`
}
