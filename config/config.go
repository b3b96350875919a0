/*
Package config carries the server's runtime configuration.

PURPOSE:
  One struct holds everything the process needs: listen address, database
  path, scheduler cadence, and the path to an optional tenant rule-set
  file. Values layer defaults, an optional YAML file, and environment
  variables, in that order of precedence.

USAGE:
  cfg, err := config.Load()
  // PERF_CONFIG=/etc/perf.yaml PERF_ADDR=:9090 override file and defaults

SEE ALSO:
  - cmd/server/main.go: Flag handling on top of the loaded config
  - factory/rules.go: Format of the tenant rule-set file
*/
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file. ":memory:" runs fully in memory.
	DBPath string `koanf:"db_path"`

	// DefaultOrgID scopes requests that do not carry an explicit org.
	DefaultOrgID string `koanf:"default_org_id"`

	// RulesPath points to an optional tenant rule-set JSON file.
	RulesPath string `koanf:"rules_path"`

	// SchedulerEnabled turns the periodic suggestion generation on.
	SchedulerEnabled bool `koanf:"scheduler_enabled"`

	// SchedulerInterval is the time between generation runs.
	SchedulerInterval time.Duration `koanf:"scheduler_interval"`

	// SchedulerPeriod is the period type the scheduler generates for.
	SchedulerPeriod string `koanf:"scheduler_period"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		Addr:              ":8080",
		DBPath:            "performance.db",
		DefaultOrgID:      "default",
		SchedulerEnabled:  true,
		SchedulerInterval: 1 * time.Hour,
		SchedulerPeriod:   "MONTH",
		ShutdownTimeout:   10 * time.Second,
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PERF_CONFIG is set
//  3. env (prefix PERF_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("PERF_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: PERF_ADDR, PERF_DB_PATH, ...
	// Underscores are preserved so keys match the koanf tags above.
	envProvider := env.Provider("PERF_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "perf_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.DBPath == "" {
		return nil, errors.New("db_path must not be empty")
	}
	if cfg.SchedulerInterval <= 0 {
		return nil, errors.New("scheduler_interval must be positive")
	}
	return &cfg, nil
}
