package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "FIRSTTD_"
	envConfigFile = "FIRSTTD_CONFIG"
	envDotFile    = "FIRSTTD_DOTENV"
	envOddsAPIKey = "ODDS_API_KEY"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if FIRSTTD_CONFIG is set
//  3. env (prefix FIRSTTD_)
//
// A .env file (or the one named by FIRSTTD_DOTENV) is loaded into the process
// environment first; variables already set are not overridden.
func Load(ctx context.Context) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	base := New(ctx)
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// FIRSTTD_LAST_N_GAMES -> last_n_games (flat keys matching koanf tags)
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.OddsAPIKey == "" {
		cfg.OddsAPIKey = os.Getenv(envOddsAPIKey)
	}
	if cfg.Season == 0 {
		cfg.Season = SeasonFor(time.Now())
	}

	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv() error {
	path := os.Getenv(envDotFile)
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, path, err)
}
