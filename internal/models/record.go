// internal/models/record.go
package models

import (
	"strings"

	"golang.org/x/text/cases"
)

// Cell is one column of a store row.
type Cell struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// UnitRecord is one row of the unit store, with cells kept in header order.
type UnitRecord []Cell

// NewUnitRecord zips headers and values. Missing trailing values become "".
func NewUnitRecord(headers, values []string) UnitRecord {
	rec := make(UnitRecord, 0, len(headers))
	for i, h := range headers {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		rec = append(rec, Cell{Column: h, Value: v})
	}
	return rec
}

// NormalizeHeader case-folds, trims and collapses inner whitespace.
func NormalizeHeader(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// Get returns the value of the first column whose normalized name equals column's.
func (r UnitRecord) Get(column string) (string, bool) {
	want := NormalizeHeader(column)
	for _, c := range r {
		if NormalizeHeader(c.Column) == want {
			return c.Value, true
		}
	}
	return "", false
}

// Value is Get without the presence flag.
func (r UnitRecord) Value(column string) string {
	v, _ := r.Get(column)
	return v
}

// Find returns the first column, in header order, whose normalized name
// contains every given substring.
func (r UnitRecord) Find(substrings ...string) (string, bool) {
	if len(substrings) == 0 {
		return "", false
	}
	subs := make([]string, len(substrings))
	for i, s := range substrings {
		subs[i] = NormalizeHeader(s)
	}

	for _, c := range r {
		name := NormalizeHeader(c.Column)
		matched := true
		for _, s := range subs {
			if !strings.Contains(name, s) {
				matched = false
				break
			}
		}
		if matched {
			return c.Value, true
		}
	}
	return "", false
}

// Columns lists the column names in header order.
func (r UnitRecord) Columns() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Column
	}
	return out
}
