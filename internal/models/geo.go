package models

import "math"

// EarthRadiusMeters is the mean radius of the Earth used for great-circle math.
const EarthRadiusMeters = 6371000.0

// CoordinatePoint is a geographic position in degrees.
type CoordinatePoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ComparePoints orders points by latitude, then longitude. Returns -1, 0, or 1.
func ComparePoints(a, b CoordinatePoint) int {
	if a.Lat < b.Lat {
		return -1
	}
	if a.Lat > b.Lat {
		return 1
	}
	if a.Lon < b.Lon {
		return -1
	}
	if a.Lon > b.Lon {
		return 1
	}
	return 0
}

// Haversine calculates the great-circle distance between two points in meters.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// CoordinateBounds is a latitude/longitude bounding box.
type CoordinateBounds struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// BoundsFromRadius returns a bounding box that fully contains the circle of
// the given radius around a center point. The box is slightly larger than the
// circle; callers filter the corners with Haversine.
func BoundsFromRadius(lat, lon, radiusMeters float64) CoordinateBounds {
	deltaLat := radiusMeters / EarthRadiusMeters * 180 / math.Pi

	// Longitude degrees shrink with latitude. Clamp the cosine away from zero
	// so the poles do not produce infinite spans.
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	deltaLon := deltaLat / cosLat

	return CoordinateBounds{
		MinLat: lat - deltaLat,
		MinLon: lon - deltaLon,
		MaxLat: lat + deltaLat,
		MaxLon: lon + deltaLon,
	}
}

// Contains reports whether the point lies inside the bounds.
func (b CoordinateBounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}
