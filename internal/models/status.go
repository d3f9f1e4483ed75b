// internal/models/status.go
package models

import "strings"

// StatusCode is the single-letter account status stored per unit.
type StatusCode string

const (
	StatusRestriction StatusCode = "R"
	StatusAgreement   StatusCode = "A"
	StatusNormal      StatusCode = "V"
	StatusUnspecified StatusCode = ""
)

// Status is a StatusCode with its display glyph and label.
type Status struct {
	Code  StatusCode `json:"code"`
	Glyph string     `json:"glyph"`
	Label string     `json:"label"`
}

var statuses = map[StatusCode]Status{
	StatusRestriction: {Code: StatusRestriction, Glyph: "🔴", Label: "Restricción"},
	StatusAgreement:   {Code: StatusAgreement, Glyph: "🟡", Label: "Acuerdo"},
	StatusNormal:      {Code: StatusNormal, Glyph: "🟢", Label: "Normal"},
}

var unspecified = Status{Code: StatusUnspecified, Glyph: "⚪", Label: "No especificado"}

// ParseStatus maps a raw cell value to a Status. Anything other than R, A
// or V (case-insensitive, trimmed) is unspecified.
func ParseStatus(raw string) Status {
	if s, ok := statuses[StatusCode(strings.ToUpper(strings.TrimSpace(raw)))]; ok {
		return s
	}
	return unspecified
}

func (s Status) String() string {
	return s.Glyph + " " + s.Label
}
