package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitRecord_Get(t *testing.T) {
	rec := NewUnitRecord(
		[]string{" Tipo  Vivienda ", "TORRE", "Apartamento"},
		[]string{"torre", "1"},
	)

	v, ok := rec.Get("tipo vivienda")
	assert.True(t, ok)
	assert.Equal(t, "torre", v)

	assert.Equal(t, "1", rec.Value("Torre"))

	v, ok = rec.Get("Apartamento")
	assert.True(t, ok, "short rows are padded")
	assert.Equal(t, "", v)

	_, ok = rec.Get("Propietario")
	assert.False(t, ok)
}

func TestUnitRecord_Find(t *testing.T) {
	rec := NewUnitRecord(
		[]string{"Saldo Pendiente", "Placa del Carro ", "Placa Moto", "Carro Color"},
		[]string{"1200", "ABC123", "XYZ12A", "rojo"},
	)

	tests := []struct {
		name  string
		subs  []string
		want  string
		found bool
	}{
		{"car plate", []string{"placa", "carro"}, "ABC123", true},
		{"moto plate", []string{"placa", "moto"}, "XYZ12A", true},
		{"case insensitive", []string{"SALDO"}, "1200", true},
		{"first in header order", []string{"carro"}, "ABC123", true},
		{"no match", []string{"placa", "bici"}, "", false},
		{"no substrings", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rec.Find(tt.subs...)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw   string
		code  StatusCode
		glyph string
		label string
	}{
		{"R", StatusRestriction, "🔴", "Restricción"},
		{"a", StatusAgreement, "🟡", "Acuerdo"},
		{" V ", StatusNormal, "🟢", "Normal"},
		{"", StatusUnspecified, "⚪", "No especificado"},
		{"X", StatusUnspecified, "⚪", "No especificado"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			s := ParseStatus(tt.raw)
			assert.Equal(t, tt.code, s.Code)
			assert.Equal(t, tt.glyph, s.Glyph)
			assert.Equal(t, tt.label, s.Label)
		})
	}
	assert.Equal(t, "🟢 Normal", ParseStatus("V").String())
}

func TestParsedQuery(t *testing.T) {
	assert.True(t, TowerApartmentQuery(1, 101).HasTower())
	assert.False(t, TowerApartmentQuery(0, 301).HasTower())
	assert.False(t, HouseQuery(90).HasTower())
	assert.False(t, InvalidQuery("empty").Valid())
	assert.True(t, PlateQuery("ABC123").Valid())

	assert.Equal(t, "T1-101", TowerApartmentQuery(1, 101).String())
	assert.Equal(t, "apto 301", TowerApartmentQuery(0, 301).String())
	assert.Equal(t, "casa 90", HouseQuery(90).String())
	assert.Equal(t, "placa ABC123", PlateQuery("ABC123").String())
}
