// internal/workers/lookup/interpret-code/models.go
package interpretcode

import "unit-lookup/internal/models"

type Input struct {
	Text string `json:"text"`
}

type Output struct {
	Query models.ParsedQuery `json:"query"`
	Rule  string             `json:"rule"`
}
