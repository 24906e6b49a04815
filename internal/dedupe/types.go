package dedupe

import (
	"context"

	"archiroutes.org/internal/models"
)

// MatchType identifies which strategy produced a duplicate candidate.
type MatchType string

const (
	MatchExactLocation MatchType = "exact_location"
	MatchExactName     MatchType = "exact_name"
	MatchSimilarName   MatchType = "similar_name"
)

// Confidence is a coarse classification of how likely a candidate truly is
// a duplicate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// rank orders confidence levels: high > medium > low.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// MaxConfidence returns the larger of two confidence levels.
func MaxConfidence(a, b Confidence) Confidence {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// Candidate is an existing catalog record flagged as a possible duplicate of
// a proposed building. DistanceMeters is set for location matches,
// SimilarityScore for name matches; the two are never both present.
type Candidate struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	City            string     `json:"city,omitempty"`
	Address         string     `json:"address,omitempty"`
	Lat             float64    `json:"lat"`
	Lon             float64    `json:"lon"`
	DistanceMeters  *float64   `json:"distanceMeters,omitempty"`
	SimilarityScore *float64   `json:"similarityScore,omitempty"`
	MatchType       MatchType  `json:"matchType"`
	Confidence      Confidence `json:"confidence"`
}

// CheckResult is the outcome of a full duplicate check for one query.
type CheckResult struct {
	IsDuplicate       bool        `json:"isDuplicate"`
	Duplicates        []Candidate `json:"duplicates"`
	HighestConfidence Confidence  `json:"highestConfidence"`
}

// Query describes the proposed building being checked for duplicates.
type Query struct {
	Name string
	City string
	Lat  float64
	Lon  float64
}

// SimilarQuery describes a lightweight name-based probe.
type SimilarQuery struct {
	Name  string
	City  string
	Limit int
}

// NearbyQuery describes a radius search around a point.
type NearbyQuery struct {
	Lat          float64
	Lon          float64
	RadiusMeters float64
}

// NearbyBuilding is an active catalog record with its distance from a query
// point.
type NearbyBuilding struct {
	models.Building
	DistanceMeters float64
}

// CatalogStore is the external lookup boundary the service depends on. It is
// injected rather than imported so tests can substitute mock collaborators.
type CatalogStore interface {
	// FindPotentialDuplicates runs the aggregate lookup: rows whose location
	// falls within a small radius of the query point, or whose name matches
	// the query name within the city. Rows come back tagged with the match
	// type, metric, and confidence computed by the store.
	FindPotentialDuplicates(ctx context.Context, q Query) ([]Candidate, error)

	// SearchActiveBuildings performs a substring name search over records in
	// approved or pending moderation state, optionally constrained to a city.
	SearchActiveBuildings(ctx context.Context, name, city string, limit int) ([]models.Building, error)

	// BuildingsNearby returns active records within radiusMeters of the
	// point, ordered by distance.
	BuildingsNearby(ctx context.Context, lat, lon, radiusMeters float64) ([]NearbyBuilding, error)
}
