package recurrence

import (
	"fmt"
	"strings"
	"time"
)

// ParseRule builds a Rule from a loose field map, the shape recurrence data
// has after JSON decoding at the system boundary. Field names follow the wire
// schema: frequency, interval, count, until, byWeekday, byMonthDay,
// bySetPosition, weekStart, timezone. Unknown keys are ignored.
//
// Every invalid field is reported; the returned error is a *ValidationError
// listing all of them.
func ParseRule(fields map[string]any) (*Rule, error) {
	verr := &ValidationError{}
	rule := Rule{Interval: 1}

	if raw, ok := fields["frequency"]; ok {
		if s, ok := stringValue(raw); ok {
			f := Frequency(strings.ToUpper(s))
			if f.Valid() {
				rule.Frequency = f
			} else {
				verr.add("frequency", fmt.Sprintf("unrecognized frequency %q", s))
			}
		} else {
			verr.add("frequency", "must be a string")
		}
	} else {
		verr.add("frequency", "missing")
	}

	if raw, ok := fields["interval"]; ok {
		if n, ok := intValue(raw); ok && n >= 1 {
			rule.Interval = n
		} else {
			verr.add("interval", "must be an integer >= 1")
		}
	}

	if raw, ok := fields["count"]; ok && raw != nil {
		if n, ok := intValue(raw); ok && n >= 1 {
			rule.Count = n
		} else {
			verr.add("count", "must be an integer >= 1")
		}
	}

	if raw, ok := fields["until"]; ok && raw != nil {
		switch v := raw.(type) {
		case time.Time:
			rule.Until = &v
		case string:
			t, err := parseTimestamp(v)
			if err != nil {
				verr.add("until", "must be an RFC 3339 or YYYY-MM-DD timestamp")
			} else {
				rule.Until = &t
			}
		default:
			verr.add("until", "must be a timestamp")
		}
	}

	if raw, ok := fields["byWeekday"]; ok && raw != nil {
		days, ok := weekdayList(raw)
		switch {
		case !ok:
			verr.add("byWeekday", "entry not a recognized weekday code")
		case len(days) == 0:
			verr.add("byWeekday", "must not be empty")
		default:
			rule.ByWeekday = days
		}
	}

	if raw, ok := fields["byMonthDay"]; ok && raw != nil {
		if days, ok := intList(raw); ok {
			rule.ByMonthDay = days
		} else {
			verr.add("byMonthDay", "must be a list of integers")
		}
	}

	if raw, ok := fields["bySetPosition"]; ok && raw != nil {
		if positions, ok := intList(raw); ok {
			rule.BySetPos = positions
		} else {
			verr.add("bySetPosition", "must be a list of integers")
		}
	}

	if raw, ok := fields["weekStart"]; ok && raw != nil {
		if s, ok := stringValue(raw); ok {
			if day, ok := ParseWeekday(strings.ToUpper(s)); ok {
				rule.WeekStart = day
			} else {
				verr.add("weekStart", fmt.Sprintf("unrecognized weekday code %q", s))
			}
		} else if n, ok := intValue(raw); ok {
			rule.WeekStart = FromWeekdayIndex(n)
		} else {
			verr.add("weekStart", "must be a weekday code or index")
		}
	}

	if raw, ok := fields["timezone"]; ok && raw != nil {
		if s, ok := stringValue(raw); ok {
			rule.Timezone = s
		} else {
			verr.add("timezone", "must be a string")
		}
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return &rule, nil
}

// Validate checks the rule invariants. It does not apply defaults; call
// Normalized first for rules assembled by hand.
func (r *Rule) Validate() error {
	verr := &ValidationError{}

	if r.Frequency == "" {
		verr.add("frequency", "missing")
	} else if !r.Frequency.Valid() {
		verr.add("frequency", fmt.Sprintf("unrecognized frequency %q", string(r.Frequency)))
	}
	if r.Interval < 1 {
		verr.add("interval", "must be >= 1")
	}
	if r.Count < 0 {
		verr.add("count", "must be >= 1 when set")
	}
	for _, d := range r.ByWeekday {
		if !d.Valid() {
			verr.add("byWeekday", fmt.Sprintf("weekday index %d out of range", int(d)))
			break
		}
	}
	for _, d := range r.ByMonthDay {
		if d == 0 || d > 31 || d < -31 {
			verr.add("byMonthDay", fmt.Sprintf("month day %d out of range", d))
			break
		}
	}
	for _, p := range r.BySetPos {
		if p == 0 || p > 366 || p < -366 {
			verr.add("bySetPosition", fmt.Sprintf("set position %d out of range", p))
			break
		}
	}
	if !r.WeekStart.Valid() {
		verr.add("weekStart", fmt.Sprintf("weekday index %d out of range", int(r.WeekStart)))
	}
	if r.Timezone != "" {
		if _, err := time.LoadLocation(r.Timezone); err != nil {
			verr.add("timezone", fmt.Sprintf("unknown IANA timezone %q", r.Timezone))
		}
	}

	return verr.orNil()
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func stringValue(raw any) (string, bool) {
	s, ok := raw.(string)
	return s, ok
}

// intValue accepts the integer representations JSON decoding produces.
func intValue(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

func intList(raw any) ([]int, bool) {
	switch v := raw.(type) {
	case []int:
		return v, true
	case []any:
		out := make([]int, 0, len(v))
		for _, item := range v {
			n, ok := intValue(item)
			if !ok {
				return nil, false
			}
			out = append(out, n)
		}
		return out, true
	}
	return nil, false
}

func weekdayList(raw any) ([]Weekday, bool) {
	var items []any
	switch v := raw.(type) {
	case []Weekday:
		return v, true
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	case []any:
		items = v
	default:
		return nil, false
	}

	out := make([]Weekday, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			day, ok := ParseWeekday(strings.ToUpper(v))
			if !ok {
				return nil, false
			}
			out = append(out, day)
		default:
			n, ok := intValue(item)
			if !ok {
				return nil, false
			}
			out = append(out, FromWeekdayIndex(n))
		}
	}
	return out, true
}
