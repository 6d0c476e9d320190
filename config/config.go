package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	ListenAddr         string `yaml:"listen_addr"`
	GeminiAPIKey       string `yaml:"gemini_api_key"`
	GeminiModel        string `yaml:"gemini_model"`
	DBPath             string `yaml:"db_path"`
	GenTimeoutSecs     int    `yaml:"gen_timeout_secs"`
	FetchTimeoutSecs   int    `yaml:"fetch_timeout_secs"`
	TrendingCount      int    `yaml:"trending_count"`
	TrendingEveryHours int    `yaml:"trending_every_hours"`
	LogLevel           string `yaml:"log_level"`
}

// Defaults returns a Config with all default values set.
func Defaults() Config {
	return Config{
		ListenAddr:         ":8080",
		GeminiModel:        "gemini-1.5-pro",
		DBPath:             "./portal.db",
		GenTimeoutSecs:     30,
		FetchTimeoutSecs:   10,
		TrendingCount:      3,
		TrendingEveryHours: 3,
		LogLevel:           "info",
	}
}

// Load reads a YAML config file and returns a validated Config.
// Environment variables PORTAL_CONFIG, PORTAL_DB, and PORTAL_GEMINI_KEY
// override the file path, db path, and API key.
func Load(path string) (Config, error) {
	if envPath := os.Getenv("PORTAL_CONFIG"); envPath != "" {
		path = envPath
	}

	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	if envDB := os.Getenv("PORTAL_DB"); envDB != "" {
		cfg.DBPath = envDB
	}
	if envKey := os.Getenv("PORTAL_GEMINI_KEY"); envKey != "" {
		cfg.GeminiAPIKey = envKey
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that required fields are present and values are valid.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("gemini_api_key is required")
	}
	if c.GeminiModel == "" {
		return fmt.Errorf("gemini_model is required")
	}
	if c.GenTimeoutSecs <= 0 {
		return fmt.Errorf("gen_timeout_secs must be positive, got %d", c.GenTimeoutSecs)
	}
	if c.FetchTimeoutSecs <= 0 {
		return fmt.Errorf("fetch_timeout_secs must be positive, got %d", c.FetchTimeoutSecs)
	}
	if c.TrendingCount <= 0 {
		return fmt.Errorf("trending_count must be positive, got %d", c.TrendingCount)
	}
	if c.TrendingEveryHours < 1 || c.TrendingEveryHours > 23 {
		return fmt.Errorf("trending_every_hours must be 1-23, got %d", c.TrendingEveryHours)
	}
	return nil
}
