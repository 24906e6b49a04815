package catalogdb

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/google/uuid"

	"archiroutes.org/internal/dedupe"
	"archiroutes.org/internal/models"
)

// Thresholds applied by the aggregate duplicate lookup. These mirror the
// confidence rules of the duplicate detection service so that rows leave the
// store already tagged.
const (
	duplicateRadiusMeters   = 50.0
	highConfidenceMeters    = 20.0
	minSimilarityForMatch   = 0.6
	duplicateNameCandidates = 25
)

// Queries bundles the hand-written SQL for the building catalog.
// sqlc is not used here: the radius and similarity filters need Go-side
// post-processing, so the queries are maintained manually.
type Queries struct {
	db *sql.DB
}

func NewQueries(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// CreateBuildingParams contains the parameters for inserting a building.
// An empty ID is replaced with a generated UUID.
type CreateBuildingParams struct {
	ID        string
	Name      string
	City      string
	Address   string
	Lat       float64
	Lon       float64
	Status    models.ModerationStatus
	CreatedAt int64
}

const createBuilding = `
INSERT INTO buildings (id, name, city, address, lat, lon, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateBuilding(ctx context.Context, arg CreateBuildingParams) (models.Building, error) {
	if arg.ID == "" {
		arg.ID = uuid.NewString()
	}
	if arg.Status == "" {
		arg.Status = models.StatusPending
	}

	_, err := q.db.ExecContext(ctx, createBuilding,
		arg.ID, arg.Name, arg.City, arg.Address, arg.Lat, arg.Lon, string(arg.Status), arg.CreatedAt)
	if err != nil {
		return models.Building{}, err
	}

	return models.Building{
		ID:      arg.ID,
		Name:    arg.Name,
		City:    arg.City,
		Address: arg.Address,
		Lat:     arg.Lat,
		Lon:     arg.Lon,
		Status:  arg.Status,
	}, nil
}

const getBuilding = `
SELECT id, name, city, address, lat, lon, status
FROM buildings
WHERE id = ?
`

func (q *Queries) GetBuilding(ctx context.Context, id string) (models.Building, error) {
	row := q.db.QueryRowContext(ctx, getBuilding, id)
	return scanBuilding(row)
}

const updateBuildingStatus = `
UPDATE buildings SET status = ? WHERE id = ?
`

func (q *Queries) UpdateBuildingStatus(ctx context.Context, id string, status models.ModerationStatus) error {
	result, err := q.db.ExecContext(ctx, updateBuildingStatus, string(status), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const getActiveBuildings = `
SELECT id, name, city, address, lat, lon, status
FROM buildings
WHERE status IN ('approved', 'pending')
ORDER BY id
`

// GetActiveBuildings returns every approved or pending building. The dedupe
// spatial index is built from this set.
func (q *Queries) GetActiveBuildings(ctx context.Context) ([]models.Building, error) {
	rows, err := q.db.QueryContext(ctx, getActiveBuildings)
	if err != nil {
		return nil, err
	}
	return collectBuildings(rows)
}

const searchActiveBuildings = `
SELECT id, name, city, address, lat, lon, status
FROM buildings
WHERE status IN ('approved', 'pending')
  AND lower(name) LIKE '%' || lower(?) || '%'
  AND (? = '' OR lower(city) = lower(?))
ORDER BY name, id
LIMIT ?
`

// SearchActiveBuildings performs a substring name search over active
// records, optionally constrained to a city, capped at limit rows.
func (q *Queries) SearchActiveBuildings(ctx context.Context, name, city string, limit int) ([]models.Building, error) {
	rows, err := q.db.QueryContext(ctx, searchActiveBuildings, name, city, city, int64(limit))
	if err != nil {
		return nil, err
	}
	return collectBuildings(rows)
}

const buildingsInBounds = `
SELECT id, name, city, address, lat, lon, status
FROM buildings
WHERE status IN ('approved', 'pending')
  AND lat BETWEEN ? AND ?
  AND lon BETWEEN ? AND ?
`

// BuildingsNearby returns active buildings within radiusMeters of the point,
// ordered by distance. The SQL bounding box is a prefilter; the exact radius
// check runs in Go with haversine.
func (q *Queries) BuildingsNearby(ctx context.Context, lat, lon, radiusMeters float64) ([]dedupe.NearbyBuilding, error) {
	bounds := models.BoundsFromRadius(lat, lon, radiusMeters)

	rows, err := q.db.QueryContext(ctx, buildingsInBounds,
		bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon)
	if err != nil {
		return nil, err
	}
	buildings, err := collectBuildings(rows)
	if err != nil {
		return nil, err
	}

	var nearby []dedupe.NearbyBuilding
	for _, b := range buildings {
		dist := models.Haversine(lat, lon, b.Lat, b.Lon)
		if dist <= radiusMeters {
			nearby = append(nearby, dedupe.NearbyBuilding{Building: b, DistanceMeters: dist})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})
	return nearby, nil
}

const buildingsByNameInCity = `
SELECT id, name, city, address, lat, lon, status
FROM buildings
WHERE status IN ('approved', 'pending')
  AND lower(city) = lower(?)
ORDER BY name, id
LIMIT ?
`

// FindPotentialDuplicates runs the aggregate duplicate lookup: the union of
// a 50 m radius filter around the query point and a name filter within the
// city. Each row leaves tagged with its match type, metric, and confidence.
// When a record matches both filters, the location match wins.
func (q *Queries) FindPotentialDuplicates(ctx context.Context, query dedupe.Query) ([]dedupe.Candidate, error) {
	var candidates []dedupe.Candidate
	seen := make(map[string]bool)

	nearby, err := q.BuildingsNearby(ctx, query.Lat, query.Lon, duplicateRadiusMeters)
	if err != nil {
		return nil, err
	}
	for _, n := range nearby {
		confidence := dedupe.ConfidenceMedium
		if n.DistanceMeters < highConfidenceMeters {
			confidence = dedupe.ConfidenceHigh
		}
		dist := n.DistanceMeters
		candidates = append(candidates, dedupe.Candidate{
			ID:             n.ID,
			Name:           n.Name,
			City:           n.City,
			Address:        n.Address,
			Lat:            n.Lat,
			Lon:            n.Lon,
			DistanceMeters: &dist,
			MatchType:      dedupe.MatchExactLocation,
			Confidence:     confidence,
		})
		seen[n.ID] = true
	}

	rows, err := q.db.QueryContext(ctx, buildingsByNameInCity, query.City, duplicateNameCandidates)
	if err != nil {
		return nil, err
	}
	inCity, err := collectBuildings(rows)
	if err != nil {
		return nil, err
	}

	queryName := strings.ToLower(strings.TrimSpace(query.Name))
	for _, b := range inCity {
		if seen[b.ID] {
			continue
		}

		name := strings.ToLower(strings.TrimSpace(b.Name))
		if name == queryName {
			candidates = append(candidates, dedupe.Candidate{
				ID:         b.ID,
				Name:       b.Name,
				City:       b.City,
				Address:    b.Address,
				Lat:        b.Lat,
				Lon:        b.Lon,
				MatchType:  dedupe.MatchExactName,
				Confidence: dedupe.ConfidenceHigh,
			})
			seen[b.ID] = true
			continue
		}

		score := dedupe.StringSimilarity(name, queryName)
		if score >= minSimilarityForMatch {
			s := score
			candidates = append(candidates, dedupe.Candidate{
				ID:              b.ID,
				Name:            b.Name,
				City:            b.City,
				Address:         b.Address,
				Lat:             b.Lat,
				Lon:             b.Lon,
				SimilarityScore: &s,
				MatchType:       dedupe.MatchSimilarName,
				Confidence:      dedupe.ConfidenceMedium,
			})
			seen[b.ID] = true
		}
	}

	return candidates, nil
}

func scanBuilding(row *sql.Row) (models.Building, error) {
	var b models.Building
	var address sql.NullString
	var status string
	if err := row.Scan(&b.ID, &b.Name, &b.City, &address, &b.Lat, &b.Lon, &status); err != nil {
		return models.Building{}, err
	}
	b.Address = address.String
	b.Status = models.ModerationStatus(status)
	return b, nil
}

func collectBuildings(rows *sql.Rows) ([]models.Building, error) {
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var items []models.Building
	for rows.Next() {
		var b models.Building
		var address sql.NullString
		var status string
		if err := rows.Scan(&b.ID, &b.Name, &b.City, &address, &b.Lat, &b.Lon, &status); err != nil {
			return nil, err
		}
		b.Address = address.String
		b.Status = models.ModerationStatus(status)
		items = append(items, b)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
