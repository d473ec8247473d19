package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	Scoring ScoringConfig `json:"scoring"`
	Display DisplayConfig `json:"display"`
}

// GatewayConfig holds the health gateway URL and OAuth credentials
type GatewayConfig struct {
	URL          string `json:"url"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// ScoringConfig holds optional overrides for the readiness scorer.
// Zero values mean "use the built-in default".
type ScoringConfig struct {
	BaselineDays       int     `json:"baseline_days,omitempty"`
	MinSleepHours      float64 `json:"min_sleep_hours,omitempty"`
	MinSleepEfficiency float64 `json:"min_sleep_efficiency,omitempty"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	Timezone string `json:"timezone"` // IANA name, empty means local
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Scoring: ScoringConfig{
			BaselineDays:       14,
			MinSleepHours:      6.5,
			MinSleepEfficiency: 80,
		},
	}
}

// Load reads the configuration from ~/.readiness/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Scoring.BaselineDays == 0 {
		cfg.Scoring.BaselineDays = defaults.Scoring.BaselineDays
	}
	if cfg.Scoring.MinSleepHours == 0 {
		cfg.Scoring.MinSleepHours = defaults.Scoring.MinSleepHours
	}
	if cfg.Scoring.MinSleepEfficiency == 0 {
		cfg.Scoring.MinSleepEfficiency = defaults.Scoring.MinSleepEfficiency
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.readiness/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Gateway = GatewayConfig{
		URL:          "https://gateway.example.com",
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Gateway.URL == "" || c.Gateway.URL == "https://gateway.example.com" {
		return errors.New("gateway.url is required - the base URL of your health gateway")
	}
	if c.Gateway.ClientID == "" || c.Gateway.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("gateway.client_id is required - register the app with your gateway")
	}
	if c.Gateway.ClientSecret == "" || c.Gateway.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("gateway.client_secret is required - register the app with your gateway")
	}

	if c.Scoring.BaselineDays < 0 {
		return fmt.Errorf("scoring.baseline_days must be positive, got %d", c.Scoring.BaselineDays)
	}
	if c.Scoring.MinSleepEfficiency < 0 || c.Scoring.MinSleepEfficiency > 100 {
		return fmt.Errorf("scoring.min_sleep_efficiency must be between 0 and 100, got %v", c.Scoring.MinSleepEfficiency)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".readiness", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".readiness"), nil
}
