package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SAGE_CONFIG is set
//  3. env (prefix SAGE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SAGE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SAGE_ADDR, SAGE_MIN_SCORE, ...
	// Map env keys like SAGE_MAX_SKIP_RATIO -> max_skip_ratio (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SAGE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "sage_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the pipeline cannot run under.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxScore <= c.MinScore:
		return fmt.Errorf("%w: max_score must exceed min_score", ErrInvalidConfig)
	case c.MaxSkipRatio < 0 || c.MaxSkipRatio > 1:
		return fmt.Errorf("%w: max_skip_ratio must be in [0, 1]", ErrInvalidConfig)
	case c.SemestersPerYear < 1:
		return fmt.Errorf("%w: semesters_per_year must be positive", ErrInvalidConfig)
	case c.Thresholds.Improvement <= 0 || c.Thresholds.Decline <= 0:
		return fmt.Errorf("%w: delta thresholds must be positive", ErrInvalidConfig)
	case c.Thresholds.SuddenDrop <= c.Thresholds.Decline:
		// The precedence rule is meaningless unless a sudden drop is
		// strictly harder to trigger than a plain decline.
		return fmt.Errorf("%w: sudden_drop threshold must exceed decline threshold", ErrInvalidConfig)
	case c.Thresholds.Correlation <= 0 || c.Thresholds.Correlation > 1:
		return fmt.Errorf("%w: correlation threshold must be in (0, 1]", ErrInvalidConfig)
	case c.Thresholds.MinVariancePeriods < 2:
		return fmt.Errorf("%w: min_variance_periods must be at least 2", ErrInvalidConfig)
	case c.MinCorrelationSamples < 2:
		return fmt.Errorf("%w: min_correlation_samples must be at least 2", ErrInvalidConfig)
	}
	return nil
}
