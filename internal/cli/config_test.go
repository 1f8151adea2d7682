package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachkit/taskplan/recurrence"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recurctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "max_instances: 5\ntimezone: Europe/Berlin\nverbose: true\n")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxInstances)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "max_instances: [oops\n"},
		{"negative limit", "max_instances: -1\n"},
		{"unknown timezone", "timezone: Atlantis/Utopia\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPlannerConfigOverride(t *testing.T) {
	engineCfg := Config{MaxInstances: 25}.plannerConfig()
	assert.Equal(t, 25, engineCfg.DefaultMaxInstances)
	assert.Equal(t, 25, engineCfg.HardInstanceLimit)

	engineCfg = Config{}.plannerConfig()
	assert.Equal(t, recurrence.UncachedConfig.DefaultMaxInstances, engineCfg.DefaultMaxInstances)
}

func TestParseDueDate(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name     string
		cfg      Config
		input    string
		expected time.Time
	}{
		{
			name:     "rfc3339 keeps its offset",
			input:    "2025-01-06T09:00:00+02:00",
			expected: time.Date(2025, 1, 6, 9, 0, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			name:     "plain date defaults to utc midnight",
			input:    "2025-01-06",
			expected: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "plain date uses configured timezone",
			cfg:      Config{Timezone: "Europe/Berlin"},
			input:    "2025-01-06",
			expected: time.Date(2025, 1, 6, 0, 0, 0, 0, berlin),
		},
		{
			name:     "datetime without offset uses configured timezone",
			cfg:      Config{Timezone: "Europe/Berlin"},
			input:    "2025-01-06T09:30:00",
			expected: time.Date(2025, 1, 6, 9, 30, 0, 0, berlin),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.parseDueDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "want %v, got %v", tt.expected, got)
		})
	}

	_, err = Config{}.parseDueDate("someday")
	assert.Error(t, err)
}

func TestNormalizeRuleArg(t *testing.T) {
	rule, err := normalizeRuleArg("FREQ=WEEKLY;BYDAY=MO", Config{Timezone: "Europe/Berlin"})
	require.NoError(t, err)
	assert.Equal(t, recurrence.Weekly, rule.Frequency)
	assert.Equal(t, "Europe/Berlin", rule.Timezone)

	rule, err = normalizeRuleArg(`{"rule":{"frequency":"DAILY","interval":3}}`, Config{})
	require.NoError(t, err)
	assert.Equal(t, recurrence.Daily, rule.Frequency)
	assert.Equal(t, 3, rule.Interval)

	_, err = normalizeRuleArg(`{"not json`, Config{})
	assert.Error(t, err)

	_, err = normalizeRuleArg("every full moon", Config{})
	assert.Error(t, err)
}
