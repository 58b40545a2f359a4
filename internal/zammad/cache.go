package zammad

import (
	"sync"
	"sync/atomic"

	"github.com/zammad-tools/zammad-mcp/internal/metrics"
	"github.com/zammad-tools/zammad-mcp/internal/models"
)

// lookupCache holds the slow-changing reference tables (groups, ticket
// states, ticket priorities) keyed by id. Entries have no expiry: the
// tables change rarely and staleness is cheap next to a network round
// trip. Invalidate is the only refresh path besides process restart.
//
// Reads and writes are guarded by an RWMutex so concurrent tool
// invocations on OS threads stay safe; each read-check-insert completes
// without an intervening remote call, so no partially-populated table
// is ever observable.
type lookupCache struct {
	mu       sync.RWMutex
	disabled bool

	groups     map[int]models.Group
	states     map[int]models.State
	priorities map[int]models.Priority

	// complete flags mark that a full list fetch has populated the
	// table, letting list operations skip the network entirely.
	groupsComplete     bool
	statesComplete     bool
	prioritiesComplete bool

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats is a point-in-time copy of cache counters.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

func newLookupCache(disabled bool) *lookupCache {
	return &lookupCache{
		disabled:   disabled,
		groups:     make(map[int]models.Group),
		states:     make(map[int]models.State),
		priorities: make(map[int]models.Priority),
	}
}

// Invalidate drops every cached entry.
func (c *lookupCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.groups = make(map[int]models.Group)
	c.states = make(map[int]models.State)
	c.priorities = make(map[int]models.Priority)
	c.groupsComplete = false
	c.statesComplete = false
	c.prioritiesComplete = false
}

// Stats returns a copy of the counters.
func (c *lookupCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: len(c.groups) + len(c.states) + len(c.priorities),
	}
}

func (c *lookupCache) getGroups() ([]models.Group, bool) {
	if c.disabled {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.groupsComplete {
		c.misses.Add(1)
		metrics.CacheMisses.WithLabelValues("group").Inc()
		return nil, false
	}
	c.hits.Add(1)
	metrics.CacheHits.WithLabelValues("group").Inc()
	out := make([]models.Group, 0, len(c.groups))
	for _, g := range c.groups {
		out = append(out, g)
	}
	return out, true
}

func (c *lookupCache) setGroups(groups []models.Group) {
	if c.disabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.groups = make(map[int]models.Group, len(groups))
	for _, g := range groups {
		c.groups[g.ID] = g
	}
	c.groupsComplete = true
}

func (c *lookupCache) getStates() ([]models.State, bool) {
	if c.disabled {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.statesComplete {
		c.misses.Add(1)
		metrics.CacheMisses.WithLabelValues("state").Inc()
		return nil, false
	}
	c.hits.Add(1)
	metrics.CacheHits.WithLabelValues("state").Inc()
	out := make([]models.State, 0, len(c.states))
	for _, s := range c.states {
		out = append(out, s)
	}
	return out, true
}

func (c *lookupCache) setStates(states []models.State) {
	if c.disabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.states = make(map[int]models.State, len(states))
	for _, s := range states {
		c.states[s.ID] = s
	}
	c.statesComplete = true
}

func (c *lookupCache) getState(id int) (models.State, bool) {
	if c.disabled {
		return models.State{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.states[id]
	if ok {
		c.hits.Add(1)
		metrics.CacheHits.WithLabelValues("state").Inc()
	} else {
		c.misses.Add(1)
		metrics.CacheMisses.WithLabelValues("state").Inc()
	}
	return s, ok
}

func (c *lookupCache) getPriorities() ([]models.Priority, bool) {
	if c.disabled {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.prioritiesComplete {
		c.misses.Add(1)
		metrics.CacheMisses.WithLabelValues("priority").Inc()
		return nil, false
	}
	c.hits.Add(1)
	metrics.CacheHits.WithLabelValues("priority").Inc()
	out := make([]models.Priority, 0, len(c.priorities))
	for _, p := range c.priorities {
		out = append(out, p)
	}
	return out, true
}

func (c *lookupCache) setPriorities(priorities []models.Priority) {
	if c.disabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.priorities = make(map[int]models.Priority, len(priorities))
	for _, p := range priorities {
		c.priorities[p.ID] = p
	}
	c.prioritiesComplete = true
}
