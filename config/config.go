package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries everything the server and the operator console need at
// startup. Values come from an optional YAML file, overridden by environment
// variables so deployments can stay file-less.
type Config struct {
	DSN            string `yaml:"dsn"`
	Addr           string `yaml:"addr"`
	MaxConnections int    `yaml:"max_connections"`

	// Timezone is the event's reference timezone for the "today" attendance
	// figure. It is deliberately explicit instead of whatever the database
	// server happens to run in.
	Timezone string `yaml:"timezone"`

	// WebhookURL is the best-effort fallback relay contacted by the scanner
	// client when the primary check-in call fails.
	WebhookURL string `yaml:"webhook_url"`

	// APIBaseURL and CacheFile configure the operator console client.
	APIBaseURL string `yaml:"api_base_url"`
	CacheFile  string `yaml:"cache_file"`
}

// Load reads path (skipped when empty or missing) and applies env overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Addr:           ":8090",
		MaxConnections: 10,
		Timezone:       "America/Santiago",
		APIBaseURL:     "http://localhost:8090",
		CacheFile:      "checkin-cache.json",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unmarshal %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	overrideString(&cfg.DSN, "DSN")
	overrideString(&cfg.Addr, "ADDR")
	overrideString(&cfg.Timezone, "EVENT_TZ")
	overrideString(&cfg.WebhookURL, "WEBHOOK_URL")
	overrideString(&cfg.APIBaseURL, "API_BASE_URL")
	overrideString(&cfg.CacheFile, "CACHE_FILE")
	if v := os.Getenv("MAX_CONNECTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MAX_CONNECTIONS: %w", err)
		}
		cfg.MaxConnections = n
	}

	return cfg, nil
}

// Location resolves the configured reference timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
