package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T, cfg CacheConfig) *ScheduleCache {
	t.Helper()
	c := NewScheduleCache(cfg)
	t.Cleanup(c.Close)
	return c
}

func TestScheduleCacheRoundTrip(t *testing.T) {
	c := testCache(t, DefaultCacheConfig)
	start := date(2025, 1, 6)
	sched := Schedule{
		Occurrences: []time.Time{date(2025, 1, 6), date(2025, 1, 13)},
		RRule:       "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO",
	}

	_, ok := c.Get(start, sched.RRule, 2)
	assert.False(t, ok)

	c.Set(start, sched.RRule, 2, sched)

	got, ok := c.Get(start, sched.RRule, 2)
	require.True(t, ok)
	assert.Equal(t, sched, got)

	// A different limit is a different key.
	_, ok = c.Get(start, sched.RRule, 3)
	assert.False(t, ok)

	// So is a different anchor.
	_, ok = c.Get(date(2025, 1, 7), sched.RRule, 2)
	assert.False(t, ok)
}

func TestScheduleCacheExpiry(t *testing.T) {
	c := testCache(t, CacheConfig{TTL: 10 * time.Millisecond, MaxEntries: 16, CleanupInterval: time.Hour})
	start := date(2025, 1, 6)
	sched := Schedule{Occurrences: []time.Time{start}, RRule: "FREQ=DAILY;INTERVAL=1"}

	c.Set(start, sched.RRule, 1, sched)
	_, ok := c.Get(start, sched.RRule, 1)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.Get(start, sched.RRule, 1)
	assert.False(t, ok)
}

func TestScheduleCacheTrimsLeastRecentlyUsed(t *testing.T) {
	c := testCache(t, CacheConfig{TTL: time.Hour, MaxEntries: 3, CleanupInterval: time.Hour})
	sched := Schedule{RRule: "FREQ=DAILY;INTERVAL=1"}

	for day := 1; day <= 4; day++ {
		c.Set(date(2025, 1, day), sched.RRule, 1, sched)
		time.Sleep(time.Millisecond) // distinct access times
	}

	stats := c.Stats()
	assert.Equal(t, 3, stats.TotalEntries)

	// The oldest entry was evicted.
	_, ok := c.Get(date(2025, 1, 1), sched.RRule, 1)
	assert.False(t, ok)
	_, ok = c.Get(date(2025, 1, 4), sched.RRule, 1)
	assert.True(t, ok)
}

func TestScheduleCacheStats(t *testing.T) {
	c := testCache(t, CacheConfig{TTL: time.Hour, MaxEntries: 16, CleanupInterval: time.Hour})
	sched := Schedule{RRule: "FREQ=DAILY;INTERVAL=1"}

	assert.Equal(t, CacheStats{}, c.Stats())

	c.Set(date(2025, 1, 1), sched.RRule, 1, sched)
	c.Set(date(2025, 1, 2), sched.RRule, 1, sched)

	stats := c.Stats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 2, stats.ActiveEntries)
	assert.Equal(t, 0, stats.ExpiredEntries)
}
