package recurrence

import (
	"sort"
	"time"
)

// Frequency is the base unit a rule recurs in.
type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

// Valid reports whether f is one of the four supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Weekday is a day of the week on the canonical MO=0..SU=6 index scale.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayCodes = [7]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// String returns the two-letter iCalendar code for the weekday.
func (w Weekday) String() string {
	if !w.Valid() {
		return "??"
	}
	return weekdayCodes[w]
}

// ParseWeekday maps a two-letter code (MO..SU) to a Weekday.
func ParseWeekday(code string) (Weekday, bool) {
	for i, c := range weekdayCodes {
		if c == code {
			return Weekday(i), true
		}
	}
	return 0, false
}

// FromWeekdayIndex maps an arbitrary integer weekday index onto the MO=0..SU=6
// scale. Negative and overflowing indices wrap; the normalization is written
// out explicitly rather than relying on the sign behavior of Go's % operator.
func FromWeekdayIndex(i int) Weekday {
	return Weekday(((i % 7) + 7) % 7)
}

// Rule is a validated, structured recurrence rule.
//
// Count == 0 and Until == nil mean the corresponding bound is unset. Interval
// 0 is treated as the default of 1 by Normalized. ByMonthDay entries may be
// negative, counting backward from the end of the month.
type Rule struct {
	Frequency  Frequency  `json:"frequency"`
	Interval   int        `json:"interval"`
	Count      int        `json:"count,omitempty"`
	Until      *time.Time `json:"until,omitempty"`
	ByWeekday  []Weekday  `json:"byWeekday,omitempty"`
	ByMonthDay []int      `json:"byMonthDay,omitempty"`
	BySetPos   []int      `json:"bySetPosition,omitempty"`
	WeekStart  Weekday    `json:"weekStart"`
	Timezone   string     `json:"timezone,omitempty"`
}

// Normalized returns a copy of the rule with defaults applied and the
// constraint sets sorted and deduplicated, so that equal rules serialize to
// identical canonical strings.
func (r Rule) Normalized() Rule {
	if r.Interval == 0 {
		r.Interval = 1
	}
	r.ByWeekday = dedupeSorted(r.ByWeekday, func(a, b Weekday) bool { return a < b })
	r.ByMonthDay = dedupeSorted(r.ByMonthDay, func(a, b int) bool { return a < b })
	r.BySetPos = dedupeSorted(r.BySetPos, func(a, b int) bool { return a < b })
	return r
}

func dedupeSorted[T comparable](in []T, less func(a, b T) bool) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// PersistedRule is the durable form of a rule: the structured fields plus the
// anchor date and the canonical RRULE text the rule was serialized to.
type PersistedRule struct {
	Rule
	StartDate time.Time `json:"startDate"`
	RRule     string    `json:"rrule"`
}

// ScheduleEntry is one planned occurrence of a recurring task. DueDate and
// ScheduledDate are identical today; they are kept distinct so a display date
// can diverge from the enforcement date later without a schema change.
type ScheduleEntry struct {
	DueDate       time.Time `json:"dueDate"`
	ScheduledDate time.Time `json:"scheduledDate"`
}

// Plan is the planner's output: the persisted rule (nil for one-shot tasks)
// and the materialized instances in chronological order.
type Plan struct {
	Rule      *PersistedRule  `json:"recurrenceRule"`
	Instances []ScheduleEntry `json:"instances"`
}

// PlanRequest carries the inputs of one planning call. Recurrence accepts any
// of the shapes Normalize understands; MaxInstances 0 means the configured
// default.
type PlanRequest struct {
	DueDate      *time.Time
	Recurrence   any
	MaxInstances int
}

// Schedule is the generator's output: the expanded occurrences and the
// canonical RRULE text. AnchorFallback is set when the rule matched no dates
// and the anchor was substituted.
type Schedule struct {
	Occurrences    []time.Time
	RRule          string
	AnchorFallback bool
}
