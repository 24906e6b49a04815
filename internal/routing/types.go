package routing

import "errors"

// ErrNotEnoughPoints is returned when a route is requested over fewer than
// two waypoints. This is the only routing error callers ever see; provider
// failures fall back to a locally synthesized route instead.
var ErrNotEnoughPoints = errors.New("at least 2 points required")

// TransportMode selects the travel profile for a route.
type TransportMode string

const (
	ModeWalking         TransportMode = "walking"
	ModeCycling         TransportMode = "cycling"
	ModeDriving         TransportMode = "driving"
	ModePublicTransport TransportMode = "public_transport"
)

// Valid reports whether the mode is one of the supported profiles.
func (m TransportMode) Valid() bool {
	switch m {
	case ModeWalking, ModeCycling, ModeDriving, ModePublicTransport:
		return true
	}
	return false
}

// assumedSpeedKmh is the fallback travel speed per mode, used when a route
// is synthesized locally.
var assumedSpeedKmh = map[TransportMode]float64{
	ModeWalking:         5,
	ModeCycling:         15,
	ModeDriving:         40,
	ModePublicTransport: 25,
}

// Point is an input waypoint. Title is a label only and plays no part in
// any computation.
type Point struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Title string  `json:"title,omitempty"`
}

// Options configures a route request.
type Options struct {
	Mode         TransportMode `json:"mode"`
	AvoidTolls   bool          `json:"avoidTolls,omitempty"`
	AvoidFerries bool          `json:"avoidFerries,omitempty"`
	PreferGreen  bool          `json:"preferGreen,omitempty"`
}

// Instruction is one turn-by-turn step. WayPoints holds the pair of indices
// into Result.Geometry that the step spans.
type Instruction struct {
	Text            string  `json:"instruction"`
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
	Type            string  `json:"type"`
	WayPoints       [2]int  `json:"wayPoints"`
}

// Summary is the convenience copy of route totals. Ascent and Descent are
// set only when the provider supplies elevation data.
type Summary struct {
	DistanceMeters  float64  `json:"distanceMeters"`
	DurationSeconds float64  `json:"durationSeconds"`
	Ascent          *float64 `json:"ascent,omitempty"`
	Descent         *float64 `json:"descent,omitempty"`
}

// Result is a computed route. Geometry is an ordered sequence of
// [longitude, latitude] pairs with GeoJSON LineString semantics: the first
// point is the first waypoint and the last point the last waypoint.
type Result struct {
	Geometry        [][]float64   `json:"geometry"`
	DistanceMeters  float64       `json:"distanceMeters"`
	DurationSeconds float64       `json:"durationSeconds"`
	Instructions    []Instruction `json:"instructions"`
	Summary         Summary       `json:"summary"`

	// EncodedPolyline is the geometry in Google polyline encoding, for
	// clients that prefer the compact form.
	EncodedPolyline string `json:"encodedPolyline,omitempty"`
}

// OptimizedRoute pairs the reordered waypoints with the route built over
// them.
type OptimizedRoute struct {
	OptimizedPoints []Point `json:"optimizedPoints"`
	Route           *Result `json:"route"`
}
