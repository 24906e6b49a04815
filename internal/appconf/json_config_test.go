package appconf

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestLoadFromFile_ValidConfig(t *testing.T) {
	config, err := LoadFromFile("testdata/config_valid.json")
	require.NoError(t, err)
	require.NotNil(t, config)

	// Verify explicitly set values
	assert.Equal(t, 3000, config.Port)
	assert.Equal(t, "development", config.Env)

	// Verify defaults were applied
	assert.Equal(t, []string{"test"}, config.ApiKeys)
	assert.Equal(t, 100, config.RateLimit)
	assert.Equal(t, "./archiroutes.db", config.DataPath)
	assert.Equal(t, "https://api.openrouteservice.org", config.Directions.BaseURL)
	assert.Equal(t, 10, config.Directions.TimeoutSeconds)
}

func TestLoadFromFile_FullConfig(t *testing.T) {
	config, err := LoadFromFile("testdata/config_full.json")
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "production", config.Env)
	assert.Equal(t, []string{"key1", "key2", "key3"}, config.ApiKeys)
	assert.Equal(t, 50, config.RateLimit)
	assert.Equal(t, "/data/archiroutes.db", config.DataPath)
	assert.Equal(t, "https://ors.example.com", config.Directions.BaseURL)
	assert.Equal(t, "secret-key", config.Directions.APIKey)
	assert.True(t, config.Directions.Disabled)
	assert.Equal(t, 5, config.Directions.TimeoutSeconds)
}

func TestLoadFromFile_MalformedJSON(t *testing.T) {
	config, err := LoadFromFile("testdata/config_malformed.json")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse JSON config")
}

func TestLoadFromFile_InvalidConfig(t *testing.T) {
	config, err := LoadFromFile("testdata/config_invalid.json")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	config, err := LoadFromFile("testdata/does_not_exist.json")
	assert.Error(t, err)
	assert.Nil(t, config)
}

func TestToConfig(t *testing.T) {
	jsonConfig, err := LoadFromFile("testdata/config_full.json")
	require.NoError(t, err)

	config := jsonConfig.ToConfig()
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, Production, config.Env)
	assert.Equal(t, 50, config.RateLimit)
	assert.True(t, config.Directions.Disabled)
}
