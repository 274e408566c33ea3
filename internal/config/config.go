// Package config loads winelocals settings from defaults, an optional YAML
// file and WINELOCALS_* environment variables, in increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gauthierbraillon/winelocals/internal/catalog"
	"github.com/gauthierbraillon/winelocals/internal/feed"
	"github.com/gauthierbraillon/winelocals/internal/shell"
)

// FileName is the config file looked up in the config directory.
const FileName = "config.yaml"

// Config is the resolved configuration.
type Config struct {
	API  APIConfig       `yaml:"api"`
	App  shell.AppConfig `yaml:"app"`
	Host HostConfig      `yaml:"host"`
	Feed FeedConfig      `yaml:"feed"`
	Log  LogConfig       `yaml:"log"`

	// Dir is the config directory; it holds the session record.
	Dir string `yaml:"-"`
	// Source is the config file that was read, if any.
	Source string `yaml:"-"`
}

// APIConfig points at the remote services.
type APIConfig struct {
	BaseURL   string        `yaml:"baseUrl"`
	SearchURL string        `yaml:"searchUrl"`
	Timeout   time.Duration `yaml:"timeout"`
}

// HostConfig configures the local shell host.
type HostConfig struct {
	Listen    string `yaml:"listen"`
	RateLimit int    `yaml:"rateLimit"` // API requests per minute per client
}

// FeedConfig tunes gesture recognition.
type FeedConfig struct {
	WheelThreshold float64       `yaml:"wheelThreshold"`
	SwipeThreshold float64       `yaml:"swipeThreshold"`
	Cooldown       time.Duration `yaml:"cooldown"`
}

// Options converts the feed settings to controller options.
func (f FeedConfig) Options() feed.Options {
	return feed.Options{
		WheelThreshold: f.WheelThreshold,
		SwipeThreshold: f.SwipeThreshold,
		Cooldown:       f.Cooldown,
	}
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:   catalog.DefaultBaseURL,
			SearchURL: catalog.DefaultSearchURL,
			Timeout:   30 * time.Second,
		},
		App: shell.DefaultAppConfig(),
		Host: HostConfig{
			Listen:    "127.0.0.1:8787",
			RateLimit: 120,
		},
		Feed: FeedConfig{
			WheelThreshold: feed.DefaultWheelThreshold,
			SwipeThreshold: feed.DefaultSwipeThreshold,
			Cooldown:       feed.DefaultCooldown,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Dir returns the configuration directory path.
func Dir() string {
	if dir := os.Getenv("WINELOCALS_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "winelocals")
}

// Load resolves the configuration. path overrides the config file location;
// when empty, config.yaml in the config directory is used if present.
func Load(path string) (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	cfg := Defaults()
	cfg.Dir = Dir()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.Dir, FileName)
	}
	if err := mergeFile(&cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	} else {
		cfg.Source = path
	}

	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- config path is provided by the user via flag or env
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("strict config parse error in %s: %w", path, err)
	}
	return nil
}
