package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archiroutes.org/internal/appconf"
	"archiroutes.org/internal/logging"
)

func TestParseAPIKeys(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Single key",
			input:    "test-key",
			expected: []string{"test-key"},
		},
		{
			name:     "Multiple keys",
			input:    "key1,key2,key3",
			expected: []string{"key1", "key2", "key3"},
		},
		{
			name:     "Keys with spaces",
			input:    " key1 , key2 , key3 ",
			expected: []string{"key1", "key2", "key3"},
		},
		{
			name:     "Empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "Keys with mixed whitespace",
			input:    "key1,  key2  ,   key3",
			expected: []string{"key1", "key2", "key3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseAPIKeys(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func testConfig() appconf.Config {
	return appconf.Config{
		Port:      4000,
		Env:       appconf.Test,
		ApiKeys:   []string{"test"},
		RateLimit: 100,
		DataPath:  ":memory:",
		Directions: appconf.DirectionsConfig{
			Disabled: true,
		},
	}
}

func TestBuildApplicationWithMemoryDB(t *testing.T) {
	cfg := testConfig()

	coreApp, err := BuildApplication(cfg)

	require.NoError(t, err, "BuildApplication should not return an error")
	require.NotNil(t, coreApp, "Application should not be nil")
	defer logging.SafeCloseWithLogging(coreApp.Catalog, coreApp.Logger, "catalog")

	assert.NotNil(t, coreApp.Logger, "Logger should be initialized")
	assert.NotNil(t, coreApp.Dedupe, "Dedupe service should be initialized")
	assert.NotNil(t, coreApp.Routing, "Routing service should be initialized")
	assert.NotNil(t, coreApp.SpatialIndex, "Spatial index should be initialized")
	assert.Equal(t, cfg, coreApp.Config, "Config should match input")
	assert.Equal(t, 0, coreApp.SpatialIndex.Len(), "Empty catalog should yield an empty index")
}

func TestCreateServerServesRequests(t *testing.T) {
	cfg := testConfig()

	coreApp, err := BuildApplication(cfg)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(coreApp.Catalog, coreApp.Logger, "catalog")

	srv, api := CreateServer(coreApp, cfg)
	defer api.Shutdown()

	server := httptest.NewServer(srv.Handler)
	defer server.Close()

	// Health check needs no key
	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	// Authenticated endpoint works with the configured key
	resp, err = http.Get(server.URL + "/api/archiroutes/current-time.json?key=test")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Code    int `json:"code"`
		Version int `json:"version"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, http.StatusOK, envelope.Code)
	assert.Equal(t, 2, envelope.Version)

	// And rejects a bad one
	resp, err = http.Get(server.URL + "/api/archiroutes/current-time.json?key=wrong")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
