// Package config loads pipeline settings from the environment. Command-line
// flags are applied on top by the cmd package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the explicit inputs of a pipeline run.
type Config struct {
	DataDir string `env:"TACKLE_DATA_DIR" envDefault:"data"`
	Weeks   []int  `env:"TACKLE_WEEKS" envSeparator:"," envDefault:"1,2,3,4,5,6,7,8,9"`
	Workers int    `env:"TACKLE_WORKERS" envDefault:"0"`
	OutPath string `env:"TACKLE_OUT" envDefault:"processed_data.csv"`
	DBPath  string `env:"TACKLE_DB"`
}

// Load parses the environment into a Config. An unset TACKLE_DB resolves to
// ~/.tacklemetrics/runs.db.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	return cfg, nil
}

// DefaultDBPath is the run ledger location used when TACKLE_DB is unset.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".tacklemetrics", "runs.db")
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data dir is required")
	}
	if len(c.Weeks) == 0 {
		return fmt.Errorf("at least one tracking week is required")
	}
	for _, w := range c.Weeks {
		if w <= 0 {
			return fmt.Errorf("invalid week %d", w)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return nil
}

// ParseWeeks parses a comma-separated week list such as "1,2,3" or a range "1-9".
func ParseWeeks(s string) ([]int, error) {
	var weeks []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			from, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid week range %q: %w", part, err)
			}
			to, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid week range %q: %w", part, err)
			}
			if to < from {
				return nil, fmt.Errorf("invalid week range %q", part)
			}
			for w := from; w <= to; w++ {
				weeks = append(weeks, w)
			}
			continue
		}
		w, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid week %q: %w", part, err)
		}
		weeks = append(weeks, w)
	}
	return weeks, nil
}

// WeeksString renders weeks back into the comma form accepted by ParseWeeks.
func WeeksString(weeks []int) string {
	parts := make([]string, len(weeks))
	for i, w := range weeks {
		parts[i] = strconv.Itoa(w)
	}
	return strings.Join(parts, ",")
}
