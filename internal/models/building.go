package models

// ModerationStatus gates whether a building is publicly visible.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

// IsActive reports whether the record participates in search and duplicate
// consideration. Rejected records are excluded.
func (s ModerationStatus) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// Building is a catalog record for a single building.
type Building struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	City    string           `json:"city"`
	Address string           `json:"address,omitempty"`
	Lat     float64          `json:"lat"`
	Lon     float64          `json:"lon"`
	Status  ModerationStatus `json:"status"`
}
