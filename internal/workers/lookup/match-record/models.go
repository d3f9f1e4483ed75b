// internal/workers/lookup/match-record/models.go
package matchrecord

import "unit-lookup/internal/models"

type Input struct {
	Query   models.ParsedQuery  `json:"query"`
	Records []models.UnitRecord `json:"records"`
}

type Output struct {
	Found   bool            `json:"found"`
	Summary *models.Summary `json:"summary,omitempty"`
	Text    string          `json:"text,omitempty"`
}

// Line is one labeled field of a rendered summary.
type Line struct {
	Glyph string
	Label string
	Value string
}
