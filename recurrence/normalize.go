package recurrence

import (
	"strings"

	"github.com/samber/mo"
	"github.com/teambition/rrule-go"
)

// Normalize reduces any of the recurrence shapes seen at the system boundary
// to a single validated *Rule, or nil meaning "no recurrence requested".
//
// Accepted shapes: nil, a canonical RRULE string, an already-typed Rule or
// PersistedRule, or a loose field map. Field maps may wrap the actual rule
// under a nested "rule" or "options" key or carry the textual form under
// "rrule"; the probes run in that order and the first hit wins. Anything else
// fails with a *RecurrenceError.
func Normalize(input any) (*Rule, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case string:
		return parseRuleString(v)
	case Rule:
		return normalizeRule(v)
	case *Rule:
		if v == nil {
			return nil, nil
		}
		return normalizeRule(*v)
	case PersistedRule:
		return normalizeRule(v.Rule)
	case *PersistedRule:
		if v == nil {
			return nil, nil
		}
		return normalizeRule(v.Rule)
	case map[string]any:
		return normalizeMap(v)
	default:
		return nil, &RecurrenceError{Msg: "unsupported recurrence payload"}
	}
}

func normalizeRule(r Rule) (*Rule, error) {
	normalized := r.Normalized()
	if err := normalized.Validate(); err != nil {
		return nil, err
	}
	return &normalized, nil
}

func normalizeMap(fields map[string]any) (*Rule, error) {
	if _, ok := fields["frequency"]; ok {
		return parsedMap(fields)
	}
	for _, probe := range nestedProbes {
		if nested := probe(fields); nested.IsPresent() {
			return Normalize(nested.MustGet())
		}
	}
	// No recognizable shape; ParseRule fails deterministically on the
	// missing frequency.
	return parsedMap(fields)
}

func parsedMap(fields map[string]any) (*Rule, error) {
	rule, err := ParseRule(fields)
	if err != nil {
		return nil, err
	}
	return normalizeRule(*rule)
}

// nestedProbes unwrap the container shapes recurrence data arrives in:
// round-tripped persisted rules nest under "rule", UI payloads under
// "options", legacy records carry only the textual form under "rrule".
var nestedProbes = []func(map[string]any) mo.Option[any]{
	probeKey("rule"),
	probeKey("options"),
	probeRRuleText,
}

func probeKey(key string) func(map[string]any) mo.Option[any] {
	return func(fields map[string]any) mo.Option[any] {
		if v, ok := fields[key]; ok && v != nil {
			return mo.Some(v)
		}
		return mo.None[any]()
	}
}

func probeRRuleText(fields map[string]any) mo.Option[any] {
	if s, ok := fields["rrule"].(string); ok && s != "" {
		return mo.Some[any](s)
	}
	return mo.None[any]()
}

var rruleFrequencies = map[rrule.Frequency]Frequency{
	rrule.DAILY:   Daily,
	rrule.WEEKLY:  Weekly,
	rrule.MONTHLY: Monthly,
	rrule.YEARLY:  Yearly,
}

// parseRuleString parses canonical RRULE text back into a Rule. The "RRULE:"
// prefix is tolerated since persisted values sometimes retain it.
func parseRuleString(s string) (*Rule, error) {
	text := strings.TrimPrefix(strings.TrimSpace(s), "RRULE:")
	opt, err := rrule.StrToROption(text)
	if err != nil {
		return nil, &RecurrenceError{Msg: "unsupported recurrence string", Err: err}
	}

	freq, ok := rruleFrequencies[opt.Freq]
	if !ok {
		return nil, &RecurrenceError{Msg: "unsupported recurrence string"}
	}

	rule := Rule{
		Frequency:  freq,
		Interval:   opt.Interval,
		Count:      opt.Count,
		ByMonthDay: opt.Bymonthday,
		BySetPos:   opt.Bysetpos,
		WeekStart:  FromWeekdayIndex(opt.Wkst.Day()),
	}
	if !opt.Until.IsZero() {
		until := opt.Until
		rule.Until = &until
	}
	for _, day := range opt.Byweekday {
		rule.ByWeekday = append(rule.ByWeekday, FromWeekdayIndex(day.Day()))
	}

	return normalizeRule(rule)
}
