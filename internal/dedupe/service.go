package dedupe

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"archiroutes.org/internal/metrics"
)

const (
	// MinSearchLength is the shortest name the lightweight search will act
	// on; shorter inputs produce too much noise to be useful.
	MinSearchLength = 3

	// DefaultSearchLimit caps the lightweight name search.
	DefaultSearchLimit = 5

	// DefaultNearbyRadiusMeters is the radius of the location match.
	DefaultNearbyRadiusMeters = 50

	// HighConfidenceDistanceMeters is the distance under which a location
	// match is considered high confidence.
	HighConfidenceDistanceMeters = 20
)

// Service classifies whether a proposed building is likely already
// cataloged. Every lookup fails open: a store error produces an empty
// result, never an error to the caller, so duplicate detection can never
// block building creation.
type Service struct {
	store   CatalogStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService creates a Service around the injected store. The logger and
// metrics receive the errors the fail-open contract swallows.
func NewService(store CatalogStore, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:   store,
		logger:  logger,
		metrics: m,
	}
}

// CheckBuildingDuplicates runs the full aggregate duplicate lookup for a
// proposed building. On store failure it returns an empty, low-confidence
// result.
func (s *Service) CheckBuildingDuplicates(ctx context.Context, q Query) CheckResult {
	s.metrics.DuplicateChecks.Inc()

	rows, err := s.store.FindPotentialDuplicates(ctx, q)
	if err != nil {
		s.failOpen("duplicate check failed", err, slog.String("name", q.Name), slog.String("city", q.City))
		return CheckResult{IsDuplicate: false, Duplicates: []Candidate{}, HighestConfidence: ConfidenceLow}
	}

	highest := ConfidenceLow
	for _, row := range rows {
		highest = MaxConfidence(highest, row.Confidence)
	}

	if rows == nil {
		rows = []Candidate{}
	}

	return CheckResult{
		IsDuplicate:       len(rows) > 0,
		Duplicates:        rows,
		HighestConfidence: highest,
	}
}

// SearchSimilarBuildings performs a lightweight substring name probe over
// active records. Names shorter than MinSearchLength return an empty result
// without touching the store. Every hit is tagged as a medium-confidence
// similar-name match; this probe does not compute numeric similarity.
func (s *Service) SearchSimilarBuildings(ctx context.Context, q SimilarQuery) []Candidate {
	// Counted in runes so a two-character accented name stays below the guard
	if utf8.RuneCountInString(q.Name) < MinSearchLength {
		return []Candidate{}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	buildings, err := s.store.SearchActiveBuildings(ctx, q.Name, q.City, limit)
	if err != nil {
		s.failOpen("similar building search failed", err, slog.String("name", q.Name))
		return []Candidate{}
	}

	candidates := make([]Candidate, 0, len(buildings))
	for _, b := range buildings {
		candidates = append(candidates, Candidate{
			ID:         b.ID,
			Name:       b.Name,
			City:       b.City,
			Address:    b.Address,
			Lat:        b.Lat,
			Lon:        b.Lon,
			MatchType:  MatchSimilarName,
			Confidence: ConfidenceMedium,
		})
	}
	return candidates
}

// FindNearbyBuildings returns active records within the query radius
// (default 50 m) as exact-location candidates. Matches closer than 20 m are
// high confidence, the rest medium.
func (s *Service) FindNearbyBuildings(ctx context.Context, q NearbyQuery) []Candidate {
	radius := q.RadiusMeters
	if radius <= 0 {
		radius = DefaultNearbyRadiusMeters
	}

	nearby, err := s.store.BuildingsNearby(ctx, q.Lat, q.Lon, radius)
	if err != nil {
		s.failOpen("nearby building lookup failed", err,
			slog.Float64("lat", q.Lat), slog.Float64("lon", q.Lon))
		return []Candidate{}
	}

	return CandidatesFromNearby(nearby)
}

// CandidatesFromNearby converts radius-search hits into exact-location
// candidates, applying the distance-based confidence rule.
func CandidatesFromNearby(nearby []NearbyBuilding) []Candidate {
	candidates := make([]Candidate, 0, len(nearby))
	for _, n := range nearby {
		confidence := ConfidenceMedium
		if n.DistanceMeters < HighConfidenceDistanceMeters {
			confidence = ConfidenceHigh
		}

		dist := n.DistanceMeters
		candidates = append(candidates, Candidate{
			ID:             n.ID,
			Name:           n.Name,
			City:           n.City,
			Address:        n.Address,
			Lat:            n.Lat,
			Lon:            n.Lon,
			DistanceMeters: &dist,
			MatchType:      MatchExactLocation,
			Confidence:     confidence,
		})
	}
	return candidates
}

func (s *Service) failOpen(msg string, err error, attrs ...slog.Attr) {
	s.metrics.DuplicateLookupFailures.Inc()
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.Any("error", err))
	for _, a := range attrs {
		args = append(args, a)
	}
	s.logger.Error(msg, args...)
}
