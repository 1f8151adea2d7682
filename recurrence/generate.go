package recurrence

import (
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const untilLayout = "20060102T150405Z"

var frequencyToRRule = map[Frequency]rrule.Frequency{
	Daily:   rrule.DAILY,
	Weekly:  rrule.WEEKLY,
	Monthly: rrule.MONTHLY,
	Yearly:  rrule.YEARLY,
}

var weekdayToRRule = [7]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// Generate expands a rule from the anchor date into at most limit occurrences
// in ascending order, honoring the rule's own count/until bounds when they
// are tighter. A rule whose constraints match nothing yields the anchor date
// itself with AnchorFallback set, never an empty schedule.
func Generate(start time.Time, rule *Rule, limit int) (Schedule, error) {
	if limit < 1 {
		return Schedule{}, &RecurrenceError{Msg: "instance limit must be positive"}
	}
	normalized := rule.Normalized()
	if err := normalized.Validate(); err != nil {
		return Schedule{}, err
	}

	dtstart := start
	if normalized.Timezone != "" {
		loc, err := time.LoadLocation(normalized.Timezone)
		if err != nil {
			return Schedule{}, &RecurrenceError{Msg: "unsupported recurrence combination", Err: err}
		}
		dtstart = start.In(loc)
	}

	opt := rrule.ROption{
		Freq:       frequencyToRRule[normalized.Frequency],
		Dtstart:    dtstart,
		Interval:   normalized.Interval,
		Wkst:       weekdayToRRule[normalized.WeekStart],
		Count:      normalized.Count,
		Bymonthday: normalized.ByMonthDay,
		Bysetpos:   normalized.BySetPos,
	}
	if normalized.Until != nil {
		opt.Until = *normalized.Until
	}
	for _, day := range normalized.ByWeekday {
		opt.Byweekday = append(opt.Byweekday, weekdayToRRule[day])
	}

	rr, err := rrule.NewRRule(opt)
	if err != nil {
		return Schedule{}, &RecurrenceError{Msg: "unsupported recurrence combination", Err: err}
	}

	bound := limit
	if normalized.Count > 0 && normalized.Count < bound {
		bound = normalized.Count
	}

	next := rr.Iterator()
	occurrences := make([]time.Time, 0, bound)
	for len(occurrences) < bound {
		t, ok := next()
		if !ok {
			break
		}
		occurrences = append(occurrences, t)
	}

	sched := Schedule{Occurrences: occurrences, RRule: normalized.rruleString()}
	if len(sched.Occurrences) == 0 {
		sched.Occurrences = []time.Time{start}
		sched.AnchorFallback = true
	}
	return sched, nil
}

// RRuleString returns the canonical textual serialization of the rule.
func (r Rule) RRuleString() string {
	return r.Normalized().rruleString()
}

// rruleString serializes an already-normalized rule. The field order is fixed
// (FREQ, INTERVAL, COUNT, UNTIL, BYDAY, BYMONTHDAY, BYSETPOS, WKST) and
// INTERVAL is always written, so a given normalized rule maps to exactly one
// string. The timezone is not part of the text; it rides on the persisted
// record alongside the anchor date.
func (r Rule) rruleString() string {
	parts := []string{
		"FREQ=" + string(r.Frequency),
		"INTERVAL=" + strconv.Itoa(r.Interval),
	}
	if r.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(r.Count))
	}
	if r.Until != nil {
		parts = append(parts, "UNTIL="+r.Until.UTC().Format(untilLayout))
	}
	if len(r.ByWeekday) > 0 {
		codes := make([]string, len(r.ByWeekday))
		for i, day := range r.ByWeekday {
			codes[i] = day.String()
		}
		parts = append(parts, "BYDAY="+strings.Join(codes, ","))
	}
	if len(r.ByMonthDay) > 0 {
		parts = append(parts, "BYMONTHDAY="+joinInts(r.ByMonthDay))
	}
	if len(r.BySetPos) > 0 {
		parts = append(parts, "BYSETPOS="+joinInts(r.BySetPos))
	}
	if r.WeekStart != Monday {
		parts = append(parts, "WKST="+r.WeekStart.String())
	}
	return strings.Join(parts, ";")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
