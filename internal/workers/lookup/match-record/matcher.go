// internal/workers/lookup/match-record/matcher.go
package matchrecord

import (
	"math"
	"strconv"
	"strings"

	"unit-lookup/internal/models"
)

// Match returns the summary of the first record, in store order, that
// satisfies q. Rows whose unit number does not parse are skipped.
func Match(q models.ParsedQuery, records []models.UnitRecord, layout Layout) (*models.Summary, bool) {
	if !q.Valid() {
		return nil, false
	}
	for i, rec := range records {
		if matches(q, rec, layout) {
			return summarize(q, rec, layout, i+1), true
		}
	}
	return nil, false
}

func matches(q models.ParsedQuery, rec models.UnitRecord, layout Layout) bool {
	switch q.Kind {
	case models.QueryTowerApartment:
		if !sameKind(rec.Value(layout.KindHeader), layout.TowerKind) {
			return false
		}
		n, ok := unitNumber(rec.Value(layout.UnitHeader))
		if !ok || n != q.Apartment {
			return false
		}
		if q.HasTower() {
			return strings.TrimSpace(rec.Value(layout.TowerHeader)) == strconv.Itoa(q.Tower)
		}
		return true

	case models.QueryHouse:
		if !sameKind(rec.Value(layout.KindHeader), layout.HouseKind) {
			return false
		}
		n, ok := unitNumber(rec.Value(layout.UnitHeader))
		return ok && n == q.House

	case models.QueryPlate:
		want := strings.TrimSpace(q.Plate)
		for _, subs := range [][]string{layout.CarPlate, layout.MotoPlate} {
			if v, ok := rec.Find(subs...); ok && strings.EqualFold(strings.TrimSpace(v), want) {
				return true
			}
		}
	}
	return false
}

// sameKind compares ignoring case and whitespace.
func sameKind(value, kind string) bool {
	squash := func(s string) string { return strings.Join(strings.Fields(s), "") }
	return models.NormalizeHeader(squash(value)) == models.NormalizeHeader(squash(kind))
}

// unitNumber accepts "101", " 101 " and integral floats like "101.0".
func unitNumber(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func summarize(q models.ParsedQuery, rec models.UnitRecord, layout Layout, row int) *models.Summary {
	s := &models.Summary{
		Kind:      strings.TrimSpace(rec.Value(layout.KindHeader)),
		Tower:     strings.TrimSpace(rec.Value(layout.TowerHeader)),
		Unit:      strings.TrimSpace(rec.Value(layout.UnitHeader)),
		Owner:     orDefault(rec.Value(layout.OwnerHeader), layout.OwnerPlaceholder),
		Status:    models.ParseStatus(rec.Value(layout.StatusHeader)),
		CarPlate:  layout.PlatePlaceholder,
		MotoPlate: layout.PlatePlaceholder,
		Balance:   layout.BalancePlaceholder,
		Row:       row,
	}
	if v, ok := rec.Find(layout.Balance...); ok {
		s.Balance = orDefault(v, layout.BalancePlaceholder)
	}
	if v, ok := rec.Find(layout.CarPlate...); ok {
		s.CarPlate = orDefault(v, layout.PlatePlaceholder)
	}
	if v, ok := rec.Find(layout.MotoPlate...); ok {
		s.MotoPlate = orDefault(v, layout.PlatePlaceholder)
	}
	if q.Kind == models.QueryPlate {
		s.Plate = strings.TrimSpace(q.Plate)
	}
	return s
}

func orDefault(v, placeholder string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return placeholder
}
