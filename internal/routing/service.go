package routing

import (
	"context"
	"log/slog"
	"time"

	"github.com/twpayne/go-polyline"

	"archiroutes.org/internal/metrics"
)

// DefaultProviderTimeout bounds every outbound provider call so the local
// fallback engages even when the provider hangs.
const DefaultProviderTimeout = 10 * time.Second

// Service produces traversable routes from waypoints. The external provider
// and optimizer are optional; whenever either is absent or fails, the
// straight-line backend takes over and the caller still gets a valid route.
type Service struct {
	provider  Backend
	optimizer Optimizer
	fallback  StraightLineBackend

	logger          *slog.Logger
	metrics         *metrics.Metrics
	providerTimeout time.Duration
}

// NewService creates a routing Service. Pass nil for provider or optimizer
// to disable the external calls; a non-positive timeout uses
// DefaultProviderTimeout.
func NewService(provider Backend, optimizer Optimizer, logger *slog.Logger, m *metrics.Metrics, providerTimeout time.Duration) *Service {
	if providerTimeout <= 0 {
		providerTimeout = DefaultProviderTimeout
	}
	return &Service{
		provider:        provider,
		optimizer:       optimizer,
		logger:          logger,
		metrics:         m,
		providerTimeout: providerTimeout,
	}
}

// BuildRoute turns at least two waypoints into a route with geometry,
// totals, and instructions. Provider failures are not retried: the route is
// synthesized locally instead.
func (s *Service) BuildRoute(ctx context.Context, points []Point, opts Options) (*Result, error) {
	if len(points) < 2 {
		return nil, ErrNotEnoughPoints
	}

	result := s.directions(ctx, points, opts)

	if result.EncodedPolyline == "" {
		result.EncodedPolyline = encodeGeometry(result.Geometry)
	}

	s.metrics.RoutesBuilt.Inc()
	return result, nil
}

// directions asks the provider first and falls back to the straight-line
// backend on any error. The straight-line backend itself cannot fail.
func (s *Service) directions(ctx context.Context, points []Point, opts Options) *Result {
	if s.provider != nil {
		providerCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
		defer cancel()

		result, err := s.provider.Directions(providerCtx, points, opts)
		if err == nil {
			return result
		}

		s.metrics.RoutingFallbacks.Inc()
		s.logger.Error("directions provider failed, synthesizing straight-line route",
			slog.Any("error", err),
			slog.Int("points", len(points)),
			slog.String("mode", string(opts.Mode)))
	}

	result, _ := s.fallback.Directions(ctx, points, opts)
	return result
}

// OptimizeRoute reorders the interior waypoints to approximate the shortest
// visiting order, then builds the route over the new order. The first and
// last points are never moved. With three or fewer points there is nothing
// to reorder. Optimizer failures keep the original order.
func (s *Service) OptimizeRoute(ctx context.Context, points []Point, opts Options) (*OptimizedRoute, error) {
	if len(points) <= 3 {
		route, err := s.BuildRoute(ctx, points, opts)
		if err != nil {
			return nil, err
		}
		return &OptimizedRoute{OptimizedPoints: points, Route: route}, nil
	}

	ordered := s.reorder(ctx, points, opts)

	route, err := s.BuildRoute(ctx, ordered, opts)
	if err != nil {
		return nil, err
	}
	return &OptimizedRoute{OptimizedPoints: ordered, Route: route}, nil
}

func (s *Service) reorder(ctx context.Context, points []Point, opts Options) []Point {
	if s.optimizer == nil {
		return points
	}

	start := points[0]
	end := points[len(points)-1]
	jobs := points[1 : len(points)-1]

	optimizerCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	order, err := s.optimizer.Optimize(optimizerCtx, start, jobs, end, opts)
	if err != nil {
		s.metrics.OptimizeFallbacks.Inc()
		s.logger.Error("optimization provider failed, keeping original waypoint order",
			slog.Any("error", err),
			slog.Int("points", len(points)))
		return points
	}

	if !validOrder(order, len(jobs)) {
		s.metrics.OptimizeFallbacks.Inc()
		s.logger.Error("optimization provider returned an invalid job order, keeping original",
			slog.Int("jobs", len(jobs)),
			slog.Int("orderLen", len(order)))
		return points
	}

	ordered := make([]Point, 0, len(points))
	ordered = append(ordered, start)
	for _, idx := range order {
		ordered = append(ordered, jobs[idx])
	}
	ordered = append(ordered, end)
	return ordered
}

// validOrder checks that order is a permutation of [0, n).
func validOrder(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// encodeGeometry converts [lon, lat] geometry into a Google-encoded
// polyline, which expects [lat, lon] pairs.
func encodeGeometry(geometry [][]float64) string {
	coords := make([][]float64, len(geometry))
	for i, pair := range geometry {
		if len(pair) < 2 {
			return ""
		}
		coords[i] = []float64{pair[1], pair[0]}
	}
	return string(polyline.EncodeCoords(coords))
}
