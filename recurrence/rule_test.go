package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	until := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		fields   map[string]any
		expected *Rule
		errField string
	}{
		{
			name: "minimal daily rule",
			fields: map[string]any{
				"frequency": "DAILY",
			},
			expected: &Rule{Frequency: Daily, Interval: 1},
		},
		{
			name: "full weekly rule",
			fields: map[string]any{
				"frequency": "WEEKLY",
				"interval":  float64(2),
				"count":     float64(5),
				"byWeekday": []any{"MO", "FR"},
				"weekStart": "SU",
				"timezone":  "America/New_York",
			},
			expected: &Rule{
				Frequency: Weekly,
				Interval:  2,
				Count:     5,
				ByWeekday: []Weekday{Monday, Friday},
				WeekStart: Sunday,
				Timezone:  "America/New_York",
			},
		},
		{
			name: "monthly rule with negative month day",
			fields: map[string]any{
				"frequency":  "MONTHLY",
				"byMonthDay": []any{float64(-1)},
				"until":      "2025-06-30T00:00:00Z",
			},
			expected: &Rule{
				Frequency:  Monthly,
				Interval:   1,
				ByMonthDay: []int{-1},
				Until:      &until,
			},
		},
		{
			name: "lowercase frequency accepted",
			fields: map[string]any{
				"frequency": "yearly",
			},
			expected: &Rule{Frequency: Yearly, Interval: 1},
		},
		{
			name: "numeric weekday indices wrap",
			fields: map[string]any{
				"frequency": "WEEKLY",
				"byWeekday": []any{float64(-1), float64(7)},
			},
			expected: &Rule{
				Frequency: Weekly,
				Interval:  1,
				ByWeekday: []Weekday{Sunday, Monday},
			},
		},
		{
			name:     "missing frequency",
			fields:   map[string]any{"interval": float64(2)},
			errField: "frequency",
		},
		{
			name: "unrecognized frequency",
			fields: map[string]any{
				"frequency": "FORTNIGHTLY",
			},
			errField: "frequency",
		},
		{
			name: "zero interval",
			fields: map[string]any{
				"frequency": "DAILY",
				"interval":  float64(0),
			},
			errField: "interval",
		},
		{
			name: "fractional interval",
			fields: map[string]any{
				"frequency": "DAILY",
				"interval":  1.5,
			},
			errField: "interval",
		},
		{
			name: "bad weekday code",
			fields: map[string]any{
				"frequency": "WEEKLY",
				"byWeekday": []any{"XX"},
			},
			errField: "byWeekday",
		},
		{
			name: "empty weekday list",
			fields: map[string]any{
				"frequency": "WEEKLY",
				"byWeekday": []any{},
			},
			errField: "byWeekday",
		},
		{
			name: "month day zero",
			fields: map[string]any{
				"frequency":  "MONTHLY",
				"byMonthDay": []any{float64(0)},
			},
			errField: "byMonthDay",
		},
		{
			name: "month day out of range",
			fields: map[string]any{
				"frequency":  "MONTHLY",
				"byMonthDay": []any{float64(32)},
			},
			errField: "byMonthDay",
		},
		{
			name: "negative count",
			fields: map[string]any{
				"frequency": "DAILY",
				"count":     float64(-2),
			},
			errField: "count",
		},
		{
			name: "malformed until",
			fields: map[string]any{
				"frequency": "DAILY",
				"until":     "next tuesday",
			},
			errField: "until",
		},
		{
			name: "unknown timezone",
			fields: map[string]any{
				"frequency": "DAILY",
				"timezone":  "Mars/Olympus_Mons",
			},
			errField: "timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := ParseRule(tt.fields)

			if tt.errField != "" {
				require.Error(t, err)
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				fields := make([]string, 0, len(verr.Fields))
				for _, f := range verr.Fields {
					fields = append(fields, f.Field)
				}
				assert.Contains(t, fields, tt.errField)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, rule)
		})
	}
}

func TestParseRuleAccumulatesErrors(t *testing.T) {
	_, err := ParseRule(map[string]any{
		"interval":  float64(0),
		"byWeekday": []any{"QQ"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3) // frequency, interval, byWeekday
}

func TestFromWeekdayIndex(t *testing.T) {
	tests := []struct {
		index    int
		expected Weekday
	}{
		{0, Monday},
		{6, Sunday},
		{7, Monday},
		{-1, Sunday},
		{-7, Monday},
		{-13, Tuesday},
		{13, Sunday},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FromWeekdayIndex(tt.index), "index %d", tt.index)
	}
}

func TestRuleNormalized(t *testing.T) {
	rule := Rule{
		Frequency:  Weekly,
		ByWeekday:  []Weekday{Friday, Monday, Friday},
		ByMonthDay: []int{15, -1, 15},
	}

	normalized := rule.Normalized()

	assert.Equal(t, 1, normalized.Interval)
	assert.Equal(t, []Weekday{Monday, Friday}, normalized.ByWeekday)
	assert.Equal(t, []int{-1, 15}, normalized.ByMonthDay)
	// The original is untouched.
	assert.Equal(t, 0, rule.Interval)
	assert.Equal(t, []Weekday{Friday, Monday, Friday}, rule.ByWeekday)
}
