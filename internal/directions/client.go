// Package directions is the REST client for the external directions and
// optimization provider (an OpenRouteService-compatible API). Errors from
// this package are absorbed by the routing service, which falls back to
// locally synthesized routes.
package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"archiroutes.org/internal/routing"
)

// Client calls the provider's directions and optimization endpoints. It
// implements routing.Backend and routing.Optimizer.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a provider client. The API key is sent in the
// Authorization header on every request.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// profileFor maps a transport mode onto a provider routing profile.
// public_transport is aliased to the walking profile: the provider has no
// transit routing, so transit routes get pedestrian geometry. This is a
// known approximation, not real transit modeling.
func profileFor(mode routing.TransportMode) string {
	switch mode {
	case routing.ModeCycling:
		return "cycling-regular"
	case routing.ModeDriving:
		return "driving-car"
	case routing.ModeWalking, routing.ModePublicTransport:
		return "foot-walking"
	default:
		return "foot-walking"
	}
}

type directionsRequest struct {
	Coordinates [][]float64        `json:"coordinates"`
	Elevation   bool               `json:"elevation"`
	Options     *directionsOptions `json:"options,omitempty"`
}

type directionsOptions struct {
	AvoidFeatures []string        `json:"avoid_features,omitempty"`
	ProfileParams json.RawMessage `json:"profile_params,omitempty"`
}

// greenWeighting prefers green surroundings on foot profiles.
var greenWeighting = json.RawMessage(`{"weightings":{"green":{"factor":1.0}}}`)

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Segments []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Steps    []struct {
					Distance    float64 `json:"distance"`
					Duration    float64 `json:"duration"`
					Instruction string  `json:"instruction"`
					Type        int     `json:"type"`
					WayPoints   []int   `json:"way_points"`
				} `json:"steps"`
			} `json:"segments"`
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
			Ascent  *float64 `json:"ascent"`
			Descent *float64 `json:"descent"`
		} `json:"properties"`
	} `json:"features"`
}

// Directions requests a route over the given waypoints and converts the
// GeoJSON response into a routing.Result.
func (c *Client) Directions(ctx context.Context, points []routing.Point, opts routing.Options) (*routing.Result, error) {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lon, p.Lat}
	}

	reqBody := directionsRequest{Coordinates: coords, Elevation: true}
	if o := buildOptions(opts); o != nil {
		reqBody.Options = o
	}

	url := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, profileFor(opts.Mode))
	var parsed directionsResponse
	if err := c.post(ctx, url, reqBody, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Features) == 0 {
		return nil, fmt.Errorf("directions response contains no features")
	}
	feature := parsed.Features[0]
	if len(feature.Geometry.Coordinates) < 2 {
		return nil, fmt.Errorf("directions response geometry has %d coordinates", len(feature.Geometry.Coordinates))
	}

	var instructions []routing.Instruction
	for _, segment := range feature.Properties.Segments {
		for _, step := range segment.Steps {
			if len(step.WayPoints) != 2 {
				return nil, fmt.Errorf("directions step has malformed way_points")
			}
			instructions = append(instructions, routing.Instruction{
				Text:            step.Instruction,
				DistanceMeters:  step.Distance,
				DurationSeconds: step.Duration,
				Type:            stepTypeName(step.Type),
				WayPoints:       [2]int{step.WayPoints[0], step.WayPoints[1]},
			})
		}
	}
	if len(instructions) == 0 {
		return nil, fmt.Errorf("directions response contains no steps")
	}

	return &routing.Result{
		Geometry:        feature.Geometry.Coordinates,
		DistanceMeters:  feature.Properties.Summary.Distance,
		DurationSeconds: feature.Properties.Summary.Duration,
		Instructions:    instructions,
		Summary: routing.Summary{
			DistanceMeters:  feature.Properties.Summary.Distance,
			DurationSeconds: feature.Properties.Summary.Duration,
			Ascent:          feature.Properties.Ascent,
			Descent:         feature.Properties.Descent,
		},
	}, nil
}

func buildOptions(opts routing.Options) *directionsOptions {
	var o directionsOptions
	if opts.AvoidTolls {
		o.AvoidFeatures = append(o.AvoidFeatures, "tollways")
	}
	if opts.AvoidFerries {
		o.AvoidFeatures = append(o.AvoidFeatures, "ferries")
	}
	if opts.PreferGreen && profileFor(opts.Mode) == "foot-walking" {
		o.ProfileParams = greenWeighting
	}
	if len(o.AvoidFeatures) == 0 && o.ProfileParams == nil {
		return nil
	}
	return &o
}

// stepTypeName converts the provider's numeric step type into a tag.
func stepTypeName(t int) string {
	switch t {
	case 10:
		return "arrive"
	case 11:
		return "depart"
	default:
		return "turn"
	}
}

type optimizationRequest struct {
	Jobs     []optimizationJob     `json:"jobs"`
	Vehicles []optimizationVehicle `json:"vehicles"`
}

type optimizationJob struct {
	ID       int       `json:"id"`
	Location []float64 `json:"location"`
}

type optimizationVehicle struct {
	ID      int       `json:"id"`
	Profile string    `json:"profile"`
	Start   []float64 `json:"start"`
	End     []float64 `json:"end"`
}

type optimizationResponse struct {
	Routes []struct {
		Steps []struct {
			Type string `json:"type"`
			ID   int    `json:"id"`
		} `json:"steps"`
	} `json:"routes"`
}

// Optimize submits the interior waypoints as jobs for a single vehicle with
// a fixed start and end, and returns the visiting order as indices into the
// jobs slice.
func (c *Client) Optimize(ctx context.Context, start routing.Point, jobs []routing.Point, end routing.Point, opts routing.Options) ([]int, error) {
	reqJobs := make([]optimizationJob, len(jobs))
	for i, p := range jobs {
		// Job IDs are 1-based; index = id - 1
		reqJobs[i] = optimizationJob{ID: i + 1, Location: []float64{p.Lon, p.Lat}}
	}

	reqBody := optimizationRequest{
		Jobs: reqJobs,
		Vehicles: []optimizationVehicle{{
			ID:      1,
			Profile: profileFor(opts.Mode),
			Start:   []float64{start.Lon, start.Lat},
			End:     []float64{end.Lon, end.Lat},
		}},
	}

	var parsed optimizationResponse
	if err := c.post(ctx, c.baseURL+"/optimization", reqBody, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Routes) == 0 {
		return nil, fmt.Errorf("optimization response contains no routes")
	}

	var order []int
	for _, step := range parsed.Routes[0].Steps {
		if step.Type != "job" {
			continue
		}
		idx := step.ID - 1
		if idx < 0 || idx >= len(jobs) {
			return nil, fmt.Errorf("optimization response references unknown job id %d", step.ID)
		}
		order = append(order, idx)
	}
	if len(order) != len(jobs) {
		return nil, fmt.Errorf("optimization response covers %d of %d jobs", len(order), len(jobs))
	}

	return order, nil
}

func (c *Client) post(ctx context.Context, url string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		// Read a little of the body for the log line, then discard
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}
