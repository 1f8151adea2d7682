package recurrence

import (
	"log/slog"
	"time"
)

// Planner is the public entry point of the engine: it normalizes whatever
// recurrence payload arrived at the boundary, expands it into a bounded
// schedule, and assembles the persisted rule. Planning is deterministic in
// its inputs and safe for concurrent use.
type Planner struct {
	cfg    Config
	cache  *ScheduleCache
	logger *slog.Logger
}

// New creates a Planner with DefaultConfig.
func New() *Planner {
	return NewWithConfig(DefaultConfig)
}

// NewWithConfig creates a Planner with custom configuration. Zero-valued
// limits fall back to the defaults, and a per-request default above the hard
// limit is clamped to it.
func NewWithConfig(cfg Config) *Planner {
	if cfg.HardInstanceLimit <= 0 {
		cfg.HardInstanceLimit = DefaultConfig.HardInstanceLimit
	}
	if cfg.DefaultMaxInstances <= 0 {
		cfg.DefaultMaxInstances = DefaultConfig.DefaultMaxInstances
	}
	if cfg.DefaultMaxInstances > cfg.HardInstanceLimit {
		cfg.DefaultMaxInstances = cfg.HardInstanceLimit
	}

	var cache *ScheduleCache
	if cfg.CacheEnabled {
		cacheCfg := cfg.Cache
		if cacheCfg.TTL <= 0 {
			cacheCfg = DefaultCacheConfig
		}
		cache = NewScheduleCache(cacheCfg)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Planner{cfg: cfg, cache: cache, logger: logger}
}

// Plan turns a due date and an optional recurrence payload into a
// RecurrencePlan.
//
// A nil due date with no recurrence yields an empty plan; a nil due date with
// a recurrence payload is rejected, since recurrence without an anchor is
// meaningless. A payload that normalizes to nil yields the one-shot plan: a
// single instance on the due date and no persisted rule. Validation and
// normalization errors propagate to the caller unchanged.
func (p *Planner) Plan(req PlanRequest) (*Plan, error) {
	if req.DueDate == nil {
		if req.Recurrence == nil {
			return &Plan{Instances: []ScheduleEntry{}}, nil
		}
		return nil, &RecurrenceError{Msg: "A due date is required when specifying a recurrence rule."}
	}

	rule, err := Normalize(req.Recurrence)
	if err != nil {
		return nil, err
	}

	due := *req.DueDate
	if rule == nil {
		return &Plan{
			Instances: []ScheduleEntry{{DueDate: due, ScheduledDate: due}},
		}, nil
	}

	sched, err := p.generate(due, rule, p.effectiveLimit(req.MaxInstances))
	if err != nil {
		return nil, err
	}
	if sched.AnchorFallback {
		p.logger.Warn("recurrence rule matched no dates, substituting anchor",
			"rrule", sched.RRule, "anchor", due)
	}

	persisted := &PersistedRule{Rule: *rule, StartDate: due, RRule: sched.RRule}
	instances := make([]ScheduleEntry, len(sched.Occurrences))
	for i, occ := range sched.Occurrences {
		instances[i] = ScheduleEntry{DueDate: occ, ScheduledDate: occ}
	}
	p.logger.Debug("assembled recurrence plan",
		"rrule", sched.RRule, "instances", len(instances))

	return &Plan{Rule: persisted, Instances: instances}, nil
}

// effectiveLimit is the most restrictive of the caller's request, the
// configured default, and the hard ceiling.
func (p *Planner) effectiveLimit(maxInstances int) int {
	limit := p.cfg.DefaultMaxInstances
	if maxInstances > 0 {
		limit = maxInstances
	}
	if limit > p.cfg.HardInstanceLimit {
		limit = p.cfg.HardInstanceLimit
	}
	return limit
}

func (p *Planner) generate(start time.Time, rule *Rule, limit int) (Schedule, error) {
	if p.cache == nil {
		return Generate(start, rule, limit)
	}

	key := rule.RRuleString()
	if sched, ok := p.cache.Get(start, key, limit); ok {
		return sched, nil
	}
	sched, err := Generate(start, rule, limit)
	if err != nil {
		return Schedule{}, err
	}
	p.cache.Set(start, key, limit, sched)
	return sched, nil
}

// CacheStats reports schedule-cache statistics, or zeroes when caching is
// disabled.
func (p *Planner) CacheStats() CacheStats {
	if p.cache == nil {
		return CacheStats{}
	}
	return p.cache.Stats()
}

// Close releases the planner's background resources. Only relevant when
// caching is enabled.
func (p *Planner) Close() {
	if p.cache != nil {
		p.cache.Close()
	}
}
