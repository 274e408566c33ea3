package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables, highest precedence.
const (
	EnvAPIURL         = "WINELOCALS_API_URL"
	EnvSearchURL      = "WINELOCALS_SEARCH_URL"
	EnvHTTPTimeout    = "WINELOCALS_HTTP_TIMEOUT"
	EnvSiteURL        = "WINELOCALS_SITE_URL"
	EnvRemoteURL      = "WINELOCALS_REMOTE_URL"
	EnvListen         = "WINELOCALS_LISTEN"
	EnvRateLimit      = "WINELOCALS_RATE_LIMIT"
	EnvFeedCooldown   = "WINELOCALS_FEED_COOLDOWN"
	EnvWheelThreshold = "WINELOCALS_WHEEL_THRESHOLD"
	EnvSwipeThreshold = "WINELOCALS_SWIPE_THRESHOLD"
	EnvLogLevel       = "WINELOCALS_LOG_LEVEL"
)

// loadDotEnv primes the environment from .env in the working directory.
// Variables already set win.
func loadDotEnv() error {
	path := os.Getenv("WINELOCALS_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func mergeEnv(cfg *Config) error {
	cfg.API.BaseURL = envString(EnvAPIURL, cfg.API.BaseURL)
	cfg.API.SearchURL = envString(EnvSearchURL, cfg.API.SearchURL)
	cfg.App.SiteURL = envString(EnvSiteURL, cfg.App.SiteURL)
	cfg.App.RemoteURL = envString(EnvRemoteURL, cfg.App.RemoteURL)
	cfg.Host.Listen = envString(EnvListen, cfg.Host.Listen)
	cfg.Log.Level = envString(EnvLogLevel, cfg.Log.Level)

	var err error
	if cfg.API.Timeout, err = envDuration(EnvHTTPTimeout, cfg.API.Timeout); err != nil {
		return err
	}
	if cfg.Feed.Cooldown, err = envDuration(EnvFeedCooldown, cfg.Feed.Cooldown); err != nil {
		return err
	}
	if cfg.Host.RateLimit, err = envInt(EnvRateLimit, cfg.Host.RateLimit); err != nil {
		return err
	}
	if cfg.Feed.WheelThreshold, err = envFloat(EnvWheelThreshold, cfg.Feed.WheelThreshold); err != nil {
		return err
	}
	if cfg.Feed.SwipeThreshold, err = envFloat(EnvSwipeThreshold, cfg.Feed.SwipeThreshold); err != nil {
		return err
	}
	return nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, v, err)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, v, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q: %w", key, v, err)
	}
	return f, nil
}
