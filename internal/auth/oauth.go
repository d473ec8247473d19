package auth

import (
	"encoding/json"

	"golang.org/x/oauth2"
)

// Scopes required for read access to health samples
var Scopes = []string{"health:read"}

// Config holds the OAuth client credentials and the gateway location
type Config struct {
	GatewayURL   string // e.g., "https://health.example.com"
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "http://localhost:8217/callback"
}

// NewOAuthConfig creates an oauth2.Config from our Config.
// The gateway hosts its own authorize/token endpoints.
func NewOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.GatewayURL + "/oauth/authorize",
			TokenURL: cfg.GatewayURL + "/oauth/token",
		},
		RedirectURL: cfg.RedirectURL,
		Scopes:      Scopes,
	}
}

// AuthResult contains the token and user info from successful auth
type AuthResult struct {
	Token  *oauth2.Token
	UserID int64
}

// ExtractUserID extracts the user ID from the token extras.
// The gateway includes a "user" object in the token response.
func ExtractUserID(token *oauth2.Token) int64 {
	switch user := token.Extra("user").(type) {
	case map[string]interface{}:
		if id, ok := user["id"].(float64); ok {
			return int64(id)
		}
	case json.Number:
		if id, err := user.Int64(); err == nil {
			return id
		}
	}
	return 0
}
