// internal/workers/lookup/match-record/config.go
package matchrecord

import (
	"time"

	"unit-lookup/internal/common/config"
)

// Layout names the store columns the matcher reads and the placeholders it
// shows for empty cells.
type Layout struct {
	TowerKind string
	HouseKind string

	KindHeader   string
	TowerHeader  string
	UnitHeader   string
	OwnerHeader  string
	StatusHeader string

	Balance   []string
	CarPlate  []string
	MotoPlate []string

	BalancePlaceholder string
	PlatePlaceholder   string
	OwnerPlaceholder   string
}

func DefaultLayout() Layout {
	return Layout{
		TowerKind:          "torre",
		HouseKind:          "casa",
		KindHeader:         "Tipo Vivienda",
		TowerHeader:        "Torre",
		UnitHeader:         "Apartamento",
		OwnerHeader:        "Propietario",
		StatusHeader:       "Estado",
		Balance:            []string{"saldo"},
		CarPlate:           []string{"placa", "carro"},
		MotoPlate:          []string{"placa", "moto"},
		BalancePlaceholder: "N/A",
		PlatePlaceholder:   "No registrada",
		OwnerPlaceholder:   "No registrado",
	}
}

// LayoutFromConfig reads lookup.kinds, lookup.headers, lookup.columns and lookup.placeholders.
func LayoutFromConfig(l config.LookupConfig) Layout {
	return Layout{
		TowerKind:          l.Kinds.Tower,
		HouseKind:          l.Kinds.House,
		KindHeader:         l.Headers.Kind,
		TowerHeader:        l.Headers.Tower,
		UnitHeader:         l.Headers.Unit,
		OwnerHeader:        l.Headers.Owner,
		StatusHeader:       l.Headers.Status,
		Balance:            l.Columns.Balance,
		CarPlate:           l.Columns.CarPlate,
		MotoPlate:          l.Columns.MotoPlate,
		BalancePlaceholder: l.Placeholders.Balance,
		PlatePlaceholder:   l.Placeholders.Plate,
		OwnerPlaceholder:   l.Placeholders.Owner,
	}
}

type Config struct {
	Timeout time.Duration
	Layout  Layout
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Layout:  DefaultLayout(),
	}
}
