// Package config loads client settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	APIURL      string        `env:"JOTTER_API_URL" default:"http://localhost:8000"`
	WebURL      string        `env:"JOTTER_WEB_URL" default:"http://localhost:3000"`
	Home        string        `env:"JOTTER_HOME"`
	LogLevel    string        `env:"JOTTER_LOG_LEVEL" default:"info"`
	LogFormat   string        `env:"JOTTER_LOG_FORMAT" default:"text"`
	HTTPTimeout time.Duration `env:"JOTTER_HTTP_TIMEOUT" default:"30s"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load() //nolint:errcheck

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config.Load: get home dir: %w", err)
		}
		cfg.Home = filepath.Join(home, ".jotter")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LogPath is the log file inside Home.
func (c *Config) LogPath() string {
	return filepath.Join(c.Home, "jotter.log")
}

func validate(cfg *Config) error {
	for name, raw := range map[string]string{
		"JOTTER_API_URL": cfg.APIURL,
		"JOTTER_WEB_URL": cfg.WebURL,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
		}
	}
	if cfg.HTTPTimeout <= 0 {
		return errors.New("JOTTER_HTTP_TIMEOUT must be positive")
	}
	return nil
}
