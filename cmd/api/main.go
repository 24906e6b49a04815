package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"archiroutes.org/internal/appconf"
)

func main() {
	var cfg appconf.Config
	var apiKeysFlag string
	var envFlag string
	var configPath string

	// Parse command-line flags
	flag.IntVar(&cfg.Port, "port", 4000, "API server port")
	flag.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	flag.StringVar(&apiKeysFlag, "api-keys", "test", "Comma Separated API Keys (test, etc)")
	flag.IntVar(&cfg.RateLimit, "rate-limit", 100, "Requests per second per API key for rate limiting")
	flag.StringVar(&cfg.DataPath, "data-path", "./archiroutes.db", "Path to the SQLite database containing the building catalog")
	flag.StringVar(&cfg.Directions.BaseURL, "directions-base-url", "https://api.openrouteservice.org", "Base URL for the directions provider")
	flag.BoolVar(&cfg.Directions.Disabled, "directions-disabled", false, "Disable the external directions provider")
	flag.IntVar(&cfg.Directions.TimeoutSeconds, "directions-timeout", 10, "Timeout in seconds for directions provider calls")
	flag.StringVar(&configPath, "config", "", "Optional path to a JSON config file (overrides other flags)")
	flag.Parse()

	cfg.Verbose = true

	// The provider API key comes from the environment, optionally via .env
	_ = godotenv.Load()
	cfg.Directions.APIKey = os.Getenv("ORS_API_KEY")

	// Parse API keys
	cfg.ApiKeys = ParseAPIKeys(apiKeysFlag)

	// Convert environment flag to enum
	cfg.Env = appconf.EnvFlagToEnvironment(envFlag)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// A JSON config file takes precedence over individual flags
	if configPath != "" {
		jsonCfg, err := appconf.LoadFromFile(configPath)
		if err != nil {
			logger.Error("failed to load config file", "path", configPath, "error", err)
			os.Exit(1)
		}
		fileCfg := jsonCfg.ToConfig()
		if fileCfg.Directions.APIKey == "" {
			fileCfg.Directions.APIKey = cfg.Directions.APIKey
		}
		cfg = fileCfg
	}

	// Build application with dependencies
	coreApp, err := BuildApplication(cfg)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	srv, api := CreateServer(coreApp, cfg)

	// Run server with graceful shutdown
	if err := Run(srv, api, coreApp); err != nil {
		coreApp.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
