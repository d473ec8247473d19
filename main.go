package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/oauth2"

	tea "github.com/charmbracelet/bubbletea"
	zlog "github.com/rs/zerolog/log"

	"readiness/internal/auth"
	"readiness/internal/config"
	"readiness/internal/healthapi"
	"readiness/internal/logging"
	"readiness/internal/recovery"
	"readiness/internal/service"
	"readiness/internal/store"
	"readiness/internal/tui"
)

func main() {
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if err := run(*verbose); err != nil {
		log.Fatal(err)
	}
}

func run(verbose bool) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your health gateway URL and OAuth credentials.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Logs go to a rotating file; the TUI owns the terminal
	dataDir, err := config.GetConfigDir()
	if err != nil {
		return err
	}
	if err := logging.Init(dataDir, verbose); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Check for existing auth
	storedAuth, err := db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return fmt.Errorf("authentication: %w", err)
		}
		storedAuth, err = db.GetAuth()
		if err != nil {
			return fmt.Errorf("fetching auth after login: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking auth: %w", err)
	}

	// Create token source for API calls (with auto-refresh)
	oauthCfg := auth.NewOAuthConfig(oauthConfigFrom(cfg))

	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	tokenSource := auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
		return db.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})

	// Test token is valid by getting a fresh one
	if _, err := tokenSource.Token(); err != nil {
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return fmt.Errorf("re-authentication: %w", err)
		}
	}

	// Create services
	client := healthapi.NewClient(tokenSource, cfg.Gateway.URL)
	if profile, err := client.GetProfile(ctx); err == nil {
		zlog.Info().Int64("user_id", profile.UserID).Str("name", profile.Name).Msg("gateway profile loaded")
	} else {
		zlog.Warn().Err(err).Msg("fetching gateway profile")
	}

	scorer := recovery.NewScorer(scoringConfigFrom(cfg))
	syncSvc := service.NewSyncService(client, db)
	querySvc := service.NewQueryService(db, scorer, displayLocation(cfg))

	// Launch TUI
	app := tui.NewApp(db, syncSvc, querySvc)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// scoringConfigFrom applies config overrides on top of the defaults
func scoringConfigFrom(cfg *config.Config) recovery.ScoringConfig {
	sc := recovery.DefaultScoringConfig()
	if cfg.Scoring.BaselineDays > 0 {
		sc.BaselineDays = cfg.Scoring.BaselineDays
	}
	if cfg.Scoring.MinSleepHours > 0 {
		sc.MinSleepHours = cfg.Scoring.MinSleepHours
	}
	if cfg.Scoring.MinSleepEfficiency > 0 {
		sc.MinSleepEfficiency = cfg.Scoring.MinSleepEfficiency
	}
	return sc
}

// displayLocation resolves the configured timezone, defaulting to local
func displayLocation(cfg *config.Config) *time.Location {
	if cfg.Display.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		fmt.Printf("Unknown timezone %q, using local time\n", cfg.Display.Timezone)
		return time.Local
	}
	return loc
}

func oauthConfigFrom(cfg *config.Config) auth.Config {
	return auth.Config{
		GatewayURL:   cfg.Gateway.URL,
		ClientID:     cfg.Gateway.ClientID,
		ClientSecret: cfg.Gateway.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	}
}

func authenticate(ctx context.Context, db *store.DB, cfg *config.Config) error {
	oauthCfg := auth.NewOAuthConfig(oauthConfigFrom(cfg))

	result, err := auth.Authenticate(ctx, oauthCfg)
	if err != nil {
		return err
	}

	// Store the tokens
	storedAuth := &store.Auth{
		UserID:       result.UserID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}

	if err := db.SaveAuth(storedAuth); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Println("Successfully authenticated!")
	return nil
}
