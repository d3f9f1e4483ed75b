// internal/workers/lookup/unit-lookup/models.go
package unitlookup

import "unit-lookup/internal/models"

type Status string

const (
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"
	StatusInvalid  Status = "invalid"
)

type Input struct {
	Text      string `json:"text"`
	RequestID string `json:"requestId,omitempty"`
}

type Output struct {
	RequestID      string             `json:"requestId"`
	Status         Status             `json:"status"`
	Query          models.ParsedQuery `json:"query"`
	Summary        *models.Summary    `json:"summary,omitempty"`
	Message        string             `json:"message,omitempty"`
	RecordsScanned int                `json:"recordsScanned"`
}
