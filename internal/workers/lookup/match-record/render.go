// internal/workers/lookup/match-record/render.go
package matchrecord

import (
	"strings"

	"unit-lookup/internal/models"
)

// Lines lays a summary out as labeled fields in display order. The tower
// line is left out when the row has no tower.
func Lines(s *models.Summary, layout Layout) []Line {
	var lines []Line
	if s.Plate != "" {
		lines = append(lines, Line{Glyph: "🚗", Label: "Placa", Value: s.Plate})
	}
	lines = append(lines, Line{Glyph: "🏢", Label: "Tipo", Value: s.Kind})
	if s.Tower != "" {
		lines = append(lines, Line{Glyph: "🏗️", Label: "Torre", Value: s.Tower})
	}

	unitLabel := "Apartamento"
	if sameKind(s.Kind, layout.HouseKind) {
		unitLabel = "Casa"
	}

	return append(lines,
		Line{Glyph: "🏠", Label: unitLabel, Value: s.Unit},
		Line{Glyph: "👤", Label: "Propietario", Value: s.Owner},
		Line{Glyph: "💰", Label: "Saldo", Value: s.Balance},
		Line{Glyph: s.Status.Glyph, Label: "Estado", Value: s.Status.Label},
		Line{Glyph: "🚗", Label: "Placa carro", Value: s.CarPlate},
		Line{Glyph: "🏍️", Label: "Placa moto", Value: s.MotoPlate},
	)
}

// Render is the plain-text form: one "Label: value" per line.
func Render(s *models.Summary, layout Layout) string {
	var b strings.Builder
	for i, l := range Lines(s, layout) {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Label)
		b.WriteString(": ")
		if l.Label == "Estado" {
			b.WriteString(s.Status.String())
			continue
		}
		b.WriteString(l.Value)
	}
	return b.String()
}
