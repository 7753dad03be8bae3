package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Config holds all runtime settings for the MapDog backend.
// Values come from an optional YAML file plus environment variables;
// the environment always wins so deployments can override the file.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	MapWise struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		// RequestsPerSecond throttles outbound MapWise calls.
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"mapwise"`

	CORS struct {
		// AllowedOrigins restricts CORS to the listed origins.
		// Empty means echo any origin back (open API).
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// DefaultBaseURL is the MapWise v2 API endpoint.
const DefaultBaseURL = "https://maps.mapwise.com/api_v2"

// Load reads the YAML config file (path from MAPDOG_CONFIG, default
// "mapdog.yaml"; a missing file is fine) and then applies environment
// overrides.
//
// Environment variables:
//   - PORT: HTTP listen port (default "5050")
//   - MAPWISE_API_KEY: bearer token for MapWise (unset = demo mode)
//   - MAPWISE_BASE_URL: override the MapWise endpoint (tests, staging)
func Load() (*Config, error) {
	cfg := &Config{}

	path := os.Getenv("MAPDOG_CONFIG")
	if path == "" {
		path = "mapdog.yaml"
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Server.Port = port
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "5050"
	}

	if key := strings.TrimSpace(os.Getenv("MAPWISE_API_KEY")); key != "" {
		cfg.MapWise.APIKey = key
	}
	if base := strings.TrimSpace(os.Getenv("MAPWISE_BASE_URL")); base != "" {
		cfg.MapWise.BaseURL = base
	}
	if cfg.MapWise.BaseURL == "" {
		cfg.MapWise.BaseURL = DefaultBaseURL
	}
	if cfg.MapWise.RequestsPerSecond <= 0 {
		cfg.MapWise.RequestsPerSecond = 5
	}

	return cfg, nil
}
