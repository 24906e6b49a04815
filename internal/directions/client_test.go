package directions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archiroutes.org/internal/routing"
)

const directionsFixture = `{
	"features": [{
		"geometry": {
			"coordinates": [[13.3762, 52.5186], [13.3770, 52.5180], [13.3777, 52.5163]]
		},
		"properties": {
			"segments": [{
				"distance": 280.5,
				"duration": 202.0,
				"steps": [
					{"distance": 120.0, "duration": 86.4, "instruction": "Head south on Platz der Republik", "type": 11, "way_points": [0, 1]},
					{"distance": 160.5, "duration": 115.6, "instruction": "Arrive at your destination", "type": 10, "way_points": [1, 2]}
				]
			}],
			"summary": {"distance": 280.5, "duration": 202.0},
			"ascent": 3.2,
			"descent": 1.1
		}
	}]
}`

func testPoints() []routing.Point {
	return []routing.Point{
		{Lat: 52.5186, Lon: 13.3762},
		{Lat: 52.5163, Lon: 13.3777},
	}
}

func TestDirectionsSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody directionsRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(directionsFixture))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-api-key", time.Second)
	result, err := client.Directions(context.Background(), testPoints(), routing.Options{Mode: routing.ModeWalking})
	require.NoError(t, err)

	assert.Equal(t, "/v2/directions/foot-walking/geojson", gotPath)
	assert.Equal(t, "test-api-key", gotAuth)
	require.Len(t, gotBody.Coordinates, 2)
	// Coordinates go out as [lon, lat]
	assert.Equal(t, []float64{13.3762, 52.5186}, gotBody.Coordinates[0])

	assert.Equal(t, 280.5, result.DistanceMeters)
	assert.Equal(t, 202.0, result.DurationSeconds)
	require.Len(t, result.Geometry, 3)
	require.Len(t, result.Instructions, 2)
	assert.Equal(t, "depart", result.Instructions[0].Type)
	assert.Equal(t, [2]int{0, 1}, result.Instructions[0].WayPoints)
	assert.Equal(t, "arrive", result.Instructions[1].Type)
	require.NotNil(t, result.Summary.Ascent)
	assert.Equal(t, 3.2, *result.Summary.Ascent)
}

func TestDirectionsProfileMapping(t *testing.T) {
	tests := []struct {
		mode    routing.TransportMode
		profile string
	}{
		{routing.ModeWalking, "foot-walking"},
		{routing.ModeCycling, "cycling-regular"},
		{routing.ModeDriving, "driving-car"},
		// No transit routing available: aliased to the walking profile
		{routing.ModePublicTransport, "foot-walking"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.profile, profileFor(tt.mode))
		})
	}
}

func TestDirectionsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", time.Second)
	_, err := client.Directions(context.Background(), testPoints(), routing.Options{Mode: routing.ModeWalking})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestDirectionsMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Not JSON", `<html>gateway error</html>`},
		{"No features", `{"features": []}`},
		{"Degenerate geometry", `{"features": [{"geometry": {"coordinates": [[13.3, 52.5]]}, "properties": {"summary": {"distance": 1, "duration": 1}}}]}`},
		{"No steps", `{"features": [{"geometry": {"coordinates": [[13.3, 52.5], [13.4, 52.6]]}, "properties": {"segments": [], "summary": {"distance": 1, "duration": 1}}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "key", time.Second)
			_, err := client.Directions(context.Background(), testPoints(), routing.Options{Mode: routing.ModeWalking})
			assert.Error(t, err)
		})
	}
}

func TestDirectionsAvoidOptions(t *testing.T) {
	var gotBody directionsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(directionsFixture))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", time.Second)
	_, err := client.Directions(context.Background(), testPoints(), routing.Options{
		Mode:       routing.ModeDriving,
		AvoidTolls: true, AvoidFerries: true,
	})
	require.NoError(t, err)

	require.NotNil(t, gotBody.Options)
	assert.ElementsMatch(t, []string{"tollways", "ferries"}, gotBody.Options.AvoidFeatures)
}

func TestOptimizeSuccess(t *testing.T) {
	var gotBody optimizationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/optimization", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{
			"routes": [{
				"steps": [
					{"type": "start"},
					{"type": "job", "id": 2},
					{"type": "job", "id": 1},
					{"type": "end"}
				]
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", time.Second)
	start := routing.Point{Lat: 52.50, Lon: 13.30}
	end := routing.Point{Lat: 52.53, Lon: 13.42}
	jobs := []routing.Point{
		{Lat: 52.51, Lon: 13.35},
		{Lat: 52.52, Lon: 13.40},
	}

	order, err := client.Optimize(context.Background(), start, jobs, end, routing.Options{Mode: routing.ModeWalking})
	require.NoError(t, err)

	// Job id 2 first, then job id 1 -> indices 1, 0
	assert.Equal(t, []int{1, 0}, order)

	require.Len(t, gotBody.Jobs, 2)
	assert.Equal(t, 1, gotBody.Jobs[0].ID)
	require.Len(t, gotBody.Vehicles, 1)
	assert.Equal(t, []float64{13.30, 52.50}, gotBody.Vehicles[0].Start)
	assert.Equal(t, []float64{13.42, 52.53}, gotBody.Vehicles[0].End)
}

func TestOptimizeMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"No routes", `{"routes": []}`},
		{"Unknown job id", `{"routes": [{"steps": [{"type": "job", "id": 9}]}]}`},
		{"Missing jobs", `{"routes": [{"steps": [{"type": "start"}, {"type": "end"}]}]}`},
	}

	jobs := []routing.Point{{Lat: 52.51, Lon: 13.35}, {Lat: 52.52, Lon: 13.40}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "key", time.Second)
			_, err := client.Optimize(context.Background(), routing.Point{}, jobs, routing.Point{}, routing.Options{Mode: routing.ModeWalking})
			assert.Error(t, err)
		})
	}
}
