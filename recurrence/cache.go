package recurrence

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"sync"
	"time"
)

// CacheConfig holds configuration for the schedule cache.
type CacheConfig struct {
	TTL             time.Duration // how long entries stay valid
	MaxEntries      int           // entry count that triggers a trim
	CleanupInterval time.Duration // how often expired entries are swept
}

// ScheduleCache memoizes generator output. Plans are deterministic in
// (anchor, canonical rule, limit), so a hit can be returned verbatim.
type ScheduleCache struct {
	entries         map[string]*cacheEntry
	mu              sync.RWMutex
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

type cacheEntry struct {
	sched      Schedule
	expiresAt  time.Time
	accessedAt time.Time
}

// NewScheduleCache creates a schedule cache and starts its cleanup loop.
// Callers own the cache and must Close it.
func NewScheduleCache(cfg CacheConfig) *ScheduleCache {
	c := &ScheduleCache{
		entries:         make(map[string]*cacheEntry),
		ttl:             cfg.TTL,
		maxEntries:      cfg.MaxEntries,
		cleanupInterval: cfg.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

func cacheKey(start time.Time, rruleText string, limit int) string {
	h := sha256.New()
	h.Write([]byte(start.Format(time.RFC3339Nano)))
	h.Write([]byte{0})
	h.Write([]byte(rruleText))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(limit)))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached schedule for the given planning inputs, if present
// and not expired.
func (c *ScheduleCache) Get(start time.Time, rruleText string, limit int) (Schedule, bool) {
	key := cacheKey(start, rruleText, limit)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Schedule{}, false
	}

	now := time.Now()
	if now.After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return Schedule{}, false
	}

	c.mu.Lock()
	entry.accessedAt = now
	c.mu.Unlock()
	return entry.sched, true
}

// Set stores a generated schedule.
func (c *ScheduleCache) Set(start time.Time, rruleText string, limit int, sched Schedule) {
	key := cacheKey(start, rruleText, limit)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		sched:      sched,
		expiresAt:  now.Add(c.ttl),
		accessedAt: now,
	}
	if len(c.entries) > c.maxEntries {
		c.trim()
	}
}

// trim removes expired entries and, if still over the limit, the least
// recently accessed ones. Caller must hold the write lock.
func (c *ScheduleCache) trim() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) <= c.maxEntries {
		return
	}

	type access struct {
		key        string
		accessedAt time.Time
	}
	byAge := make([]access, 0, len(c.entries))
	for key, entry := range c.entries {
		byAge = append(byAge, access{key: key, accessedAt: entry.accessedAt})
	}
	sort.Slice(byAge, func(i, j int) bool {
		return byAge[i].accessedAt.Before(byAge[j].accessedAt)
	})

	excess := len(c.entries) - c.maxEntries
	for i := 0; i < excess; i++ {
		delete(c.entries, byAge[i].key)
	}
}

func (c *ScheduleCache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.trim()
			c.mu.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and drops all entries.
func (c *ScheduleCache) Close() {
	close(c.stopCleanup)
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// CacheStats describes the cache's current contents.
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}

// Stats returns cache statistics.
func (c *ScheduleCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	expired := 0
	for _, entry := range c.entries {
		if now.After(entry.expiresAt) {
			expired++
		}
	}
	return CacheStats{
		TotalEntries:   len(c.entries),
		ExpiredEntries: expired,
		ActiveEntries:  len(c.entries) - expired,
	}
}
