// internal/models/query.go
package models

import "fmt"

// QueryKind tags which variant a ParsedQuery holds.
type QueryKind string

const (
	QueryTowerApartment QueryKind = "tower_apartment"
	QueryHouse          QueryKind = "house"
	QueryPlate          QueryKind = "plate"
	QueryInvalid        QueryKind = "invalid"
)

// ParsedQuery is the interpreted form of a chat message. Only the fields of
// its Kind are meaningful; Tower == 0 on a tower/apartment query means the
// tower is unconstrained.
type ParsedQuery struct {
	Kind      QueryKind `json:"kind"`
	Tower     int       `json:"tower,omitempty"`
	Apartment int       `json:"apartment,omitempty"`
	House     int       `json:"house,omitempty"`
	Plate     string    `json:"plate,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

func TowerApartmentQuery(tower, apartment int) ParsedQuery {
	return ParsedQuery{Kind: QueryTowerApartment, Tower: tower, Apartment: apartment}
}

func HouseQuery(number int) ParsedQuery {
	return ParsedQuery{Kind: QueryHouse, House: number}
}

func PlateQuery(plate string) ParsedQuery {
	return ParsedQuery{Kind: QueryPlate, Plate: plate}
}

func InvalidQuery(reason string) ParsedQuery {
	return ParsedQuery{Kind: QueryInvalid, Reason: reason}
}

// Valid reports whether the query can be matched against records.
func (q ParsedQuery) Valid() bool {
	return q.Kind == QueryTowerApartment || q.Kind == QueryHouse || q.Kind == QueryPlate
}

// HasTower reports whether a tower/apartment query is constrained to a tower.
func (q ParsedQuery) HasTower() bool {
	return q.Kind == QueryTowerApartment && q.Tower > 0
}

func (q ParsedQuery) String() string {
	switch q.Kind {
	case QueryTowerApartment:
		if q.HasTower() {
			return fmt.Sprintf("T%d-%d", q.Tower, q.Apartment)
		}
		return fmt.Sprintf("apto %d", q.Apartment)
	case QueryHouse:
		return fmt.Sprintf("casa %d", q.House)
	case QueryPlate:
		return "placa " + q.Plate
	default:
		return "invalid"
	}
}
