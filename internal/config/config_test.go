package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scoring.BaselineDays != 14 {
		t.Errorf("Scoring.BaselineDays = %v, want 14", cfg.Scoring.BaselineDays)
	}
	if cfg.Scoring.MinSleepHours != 6.5 {
		t.Errorf("Scoring.MinSleepHours = %v, want 6.5", cfg.Scoring.MinSleepHours)
	}
	if cfg.Scoring.MinSleepEfficiency != 80 {
		t.Errorf("Scoring.MinSleepEfficiency = %v, want 80", cfg.Scoring.MinSleepEfficiency)
	}

	// Gateway config should be empty by default
	if cfg.Gateway.URL != "" {
		t.Errorf("Gateway.URL should be empty, got %q", cfg.Gateway.URL)
	}
	if cfg.Gateway.ClientID != "" {
		t.Errorf("Gateway.ClientID should be empty, got %q", cfg.Gateway.ClientID)
	}
}

func TestConfigValidate(t *testing.T) {
	validGateway := GatewayConfig{
		URL:          "https://health.example.org",
		ClientID:     "12345",
		ClientSecret: "abc123secret",
	}

	tests := []struct {
		name        string
		config      Config
		expectError bool
		errContains string
	}{
		{
			name:        "valid config",
			config:      Config{Gateway: validGateway},
			expectError: false,
		},
		{
			name: "empty gateway URL",
			config: Config{
				Gateway: GatewayConfig{ClientID: "12345", ClientSecret: "abc123secret"},
			},
			expectError: true,
			errContains: "gateway.url",
		},
		{
			name: "placeholder client ID",
			config: Config{
				Gateway: GatewayConfig{
					URL:          "https://health.example.org",
					ClientID:     "YOUR_CLIENT_ID",
					ClientSecret: "abc123secret",
				},
			},
			expectError: true,
			errContains: "client_id",
		},
		{
			name: "empty client secret",
			config: Config{
				Gateway: GatewayConfig{
					URL:      "https://health.example.org",
					ClientID: "12345",
				},
			},
			expectError: true,
			errContains: "client_secret",
		},
		{
			name: "negative baseline days",
			config: Config{
				Gateway: validGateway,
				Scoring: ScoringConfig{BaselineDays: -1},
			},
			expectError: true,
			errContains: "baseline_days",
		},
		{
			name: "efficiency out of range",
			config: Config{
				Gateway: validGateway,
				Scoring: ScoringConfig{MinSleepEfficiency: 120},
			},
			expectError: true,
			errContains: "min_sleep_efficiency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
