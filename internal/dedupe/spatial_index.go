package dedupe

import (
	"context"
	"sort"
	"sync"

	"archiroutes.org/internal/models"

	"github.com/tidwall/rtree"
)

// SpatialIndex is an in-memory R-tree over active buildings. It serves
// radius queries without a round trip to the store and is rebuilt whenever
// the catalog changes.
type SpatialIndex struct {
	mu   sync.RWMutex
	tree *rtree.RTree
}

// NewSpatialIndex creates an empty index.
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{tree: &rtree.RTree{}}
}

// ActiveBuildingSource supplies the records the index is built from.
type ActiveBuildingSource interface {
	GetActiveBuildings(ctx context.Context) ([]models.Building, error)
}

// Rebuild replaces the index contents with the current active buildings.
func (idx *SpatialIndex) Rebuild(ctx context.Context, source ActiveBuildingSource) error {
	buildings, err := source.GetActiveBuildings(ctx)
	if err != nil {
		return err
	}

	tree := &rtree.RTree{}
	// Points: min and max are the same [lat, lon]
	for _, b := range buildings {
		tree.Insert(
			[2]float64{b.Lat, b.Lon},
			[2]float64{b.Lat, b.Lon},
			b,
		)
	}

	idx.mu.Lock()
	idx.tree = tree
	idx.mu.Unlock()
	return nil
}

// Len returns the number of indexed buildings.
func (idx *SpatialIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.tree.Len()
}

// Nearby returns the indexed buildings within radiusMeters of the point,
// ordered by distance. The R-tree search uses a bounding box; the corners
// are filtered out with an exact haversine check.
func (idx *SpatialIndex) Nearby(lat, lon, radiusMeters float64) []NearbyBuilding {
	bounds := models.BoundsFromRadius(lat, lon, radiusMeters)

	idx.mu.RLock()
	var results []NearbyBuilding
	idx.tree.Search(
		[2]float64{bounds.MinLat, bounds.MinLon},
		[2]float64{bounds.MaxLat, bounds.MaxLon},
		func(min, max [2]float64, data interface{}) bool {
			if b, ok := data.(models.Building); ok {
				dist := models.Haversine(lat, lon, b.Lat, b.Lon)
				if dist <= radiusMeters {
					results = append(results, NearbyBuilding{Building: b, DistanceMeters: dist})
				}
			}
			return true
		},
	)
	idx.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceMeters != results[j].DistanceMeters {
			return results[i].DistanceMeters < results[j].DistanceMeters
		}
		return models.ComparePoints(
			models.CoordinatePoint{Lat: results[i].Lat, Lon: results[i].Lon},
			models.CoordinatePoint{Lat: results[j].Lat, Lon: results[j].Lon},
		) < 0
	})

	return results
}
