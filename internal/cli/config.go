package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coachkit/taskplan/recurrence"
)

// Config is the recurctl YAML config file.
type Config struct {
	// MaxInstances overrides the engine's per-call instance ceiling.
	MaxInstances int `yaml:"max_instances"`
	// Timezone applies to due dates given without an offset, and to rules
	// that do not carry their own timezone.
	Timezone string `yaml:"timezone"`
	Verbose  bool   `yaml:"verbose"`
}

// LoadConfig reads the config file at path. An empty path yields the zero
// config; a named but unreadable or malformed file is an error.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.MaxInstances < 0 {
		return cfg, fmt.Errorf("config %s: max_instances must not be negative", path)
	}
	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return cfg, fmt.Errorf("config %s: unknown timezone %q", path, cfg.Timezone)
		}
	}
	return cfg, nil
}

// plannerConfig maps the file config onto the engine config. An operator
// setting max_instances raises or lowers both the default and the hard
// ceiling; that override lives here, not in embedding application code.
func (c Config) plannerConfig() recurrence.Config {
	engineCfg := recurrence.UncachedConfig
	if c.MaxInstances > 0 {
		engineCfg.DefaultMaxInstances = c.MaxInstances
		engineCfg.HardInstanceLimit = c.MaxInstances
	}
	return engineCfg
}

// parseDueDate accepts RFC 3339 timestamps or plain dates. Plain dates are
// anchored at midnight in the configured timezone (UTC when unset).
func (c Config) parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	loc := time.UTC
	if c.Timezone != "" {
		l, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return time.Time{}, err
		}
		loc = l
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q (want RFC 3339 or YYYY-MM-DD)", s)
}
