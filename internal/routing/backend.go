package routing

import (
	"context"
	"fmt"

	"archiroutes.org/internal/models"
)

// Backend turns waypoints into a traversable route. Two implementations
// exist: the external directions provider and the local straight-line
// synthesis. Making the choice a capability keeps "provider disabled" and
// "provider failed" as explicit, separate paths.
type Backend interface {
	Directions(ctx context.Context, points []Point, opts Options) (*Result, error)
}

// Optimizer reorders interior waypoints to shorten total travel. The start
// and end points are pinned; the return value is the visiting order of the
// jobs as indices into the jobs slice.
type Optimizer interface {
	Optimize(ctx context.Context, start Point, jobs []Point, end Point, opts Options) ([]int, error)
}

// StraightLineBackend synthesizes a route by connecting the waypoints
// directly: the geometry is the input points in order, the distance the sum
// of great-circle legs, and the duration derived from an assumed speed for
// the transport mode. It never fails.
type StraightLineBackend struct{}

func (StraightLineBackend) Directions(ctx context.Context, points []Point, opts Options) (*Result, error) {
	geometry := make([][]float64, len(points))
	var totalDistance float64
	for i, p := range points {
		geometry[i] = []float64{p.Lon, p.Lat}
		if i > 0 {
			totalDistance += models.Haversine(points[i-1].Lat, points[i-1].Lon, p.Lat, p.Lon)
		}
	}

	speed := assumedSpeedKmh[opts.Mode]
	if speed == 0 {
		speed = assumedSpeedKmh[ModeWalking]
	}
	duration := totalDistance / 1000 / speed * 3600

	instruction := Instruction{
		Text:            fmt.Sprintf("Follow %s to destination", FormatDistance(totalDistance)),
		DistanceMeters:  totalDistance,
		DurationSeconds: duration,
		Type:            "straight",
		WayPoints:       [2]int{0, len(geometry) - 1},
	}

	result := &Result{
		Geometry:        geometry,
		DistanceMeters:  totalDistance,
		DurationSeconds: duration,
		Instructions:    []Instruction{instruction},
		Summary: Summary{
			DistanceMeters:  totalDistance,
			DurationSeconds: duration,
		},
	}
	return result, nil
}
