// internal/models/summary.go
package models

// Summary is the projection of a matched record that gets shown to the user.
type Summary struct {
	Kind      string `json:"kind"`
	Tower     string `json:"tower,omitempty"`
	Unit      string `json:"unit"`
	Owner     string `json:"owner"`
	Balance   string `json:"balance"`
	Status    Status `json:"status"`
	CarPlate  string `json:"carPlate"`
	MotoPlate string `json:"motoPlate"`
	Plate     string `json:"plate,omitempty"` // the plate that was searched, for plate queries
	Row       int    `json:"row"`             // 1-based data row in the snapshot
}
