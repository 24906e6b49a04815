package appconf

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONConfig mirrors Config for file-based configuration. Fields left unset
// in the file receive defaults from applyDefaults.
type JSONConfig struct {
	Port       int                  `json:"port"`
	Env        string               `json:"env"`
	ApiKeys    []string             `json:"apiKeys"`
	RateLimit  int                  `json:"rateLimit"`
	DataPath   string               `json:"dataPath"`
	Directions JSONDirectionsConfig `json:"directions"`
}

// JSONDirectionsConfig configures the external directions provider.
type JSONDirectionsConfig struct {
	BaseURL        string `json:"baseUrl"`
	APIKey         string `json:"apiKey"`
	Disabled       bool   `json:"disabled"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// LoadFromFile reads a JSON configuration file, applies defaults for any
// missing fields, and validates the result.
func LoadFromFile(path string) (*JSONConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config JSONConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *JSONConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = 4000
	}
	if c.Env == "" {
		c.Env = "development"
	}
	if len(c.ApiKeys) == 0 {
		c.ApiKeys = []string{"test"}
	}
	if c.RateLimit == 0 {
		c.RateLimit = 100
	}
	if c.DataPath == "" {
		c.DataPath = "./archiroutes.db"
	}
	if c.Directions.BaseURL == "" {
		c.Directions.BaseURL = "https://api.openrouteservice.org"
	}
	if c.Directions.TimeoutSeconds == 0 {
		c.Directions.TimeoutSeconds = 10
	}
}

func (c *JSONConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid config: port %d out of range", c.Port)
	}
	switch c.Env {
	case "development", "test", "production":
	default:
		return fmt.Errorf("invalid config: unknown env %q", c.Env)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid config: rateLimit must not be negative")
	}
	return nil
}

// ToConfig converts the file representation into the runtime Config.
func (c *JSONConfig) ToConfig() Config {
	return Config{
		Port:      c.Port,
		Env:       EnvFlagToEnvironment(c.Env),
		ApiKeys:   c.ApiKeys,
		RateLimit: c.RateLimit,
		DataPath:  c.DataPath,
		Directions: DirectionsConfig{
			BaseURL:        c.Directions.BaseURL,
			APIKey:         c.Directions.APIKey,
			Disabled:       c.Directions.Disabled,
			TimeoutSeconds: c.Directions.TimeoutSeconds,
		},
	}
}
