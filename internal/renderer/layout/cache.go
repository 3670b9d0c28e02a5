package layout

import (
	"sync/atomic"
)

// Cache holds the most recent wrap result.
//
// It is a single slot: the lines are recomputed when the cache has been
// invalidated or when the width or metrics changed since the last call. The
// owner calls Invalidate whenever the text changes.
type Cache struct {
	metrics Metrics
	width   float64
	lines   []Line
	dirty   bool

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache creates an empty, dirty cache.
func NewCache(m Metrics, width float64) *Cache {
	return &Cache{
		metrics: m,
		width:   width,
		dirty:   true,
	}
}

// Lines returns the wrapped lines of text, recomputing them if needed.
// The returned slice must not be modified.
func (c *Cache) Lines(text string) []Line {
	if !c.dirty && c.lines != nil {
		c.hits.Add(1)
		return c.lines
	}
	c.misses.Add(1)
	c.lines = Wrap(text, c.width, c.metrics)
	c.dirty = false
	return c.lines
}

// Invalidate marks the cached lines as stale.
func (c *Cache) Invalidate() {
	c.dirty = true
}

// IsDirty reports whether the next Lines call will recompute.
func (c *Cache) IsDirty() bool {
	return c.dirty
}

// Width returns the wrap width.
func (c *Cache) Width() float64 {
	return c.width
}

// SetWidth changes the wrap width and invalidates the cache if it differs.
func (c *Cache) SetWidth(width float64) {
	if width == c.width {
		return
	}
	c.width = width
	c.dirty = true
}

// Metrics returns the metrics used for wrapping.
func (c *Cache) Metrics() Metrics {
	return c.metrics
}

// SetMetrics replaces the metrics and invalidates the cache.
func (c *Cache) SetMetrics(m Metrics) {
	c.metrics = m
	c.dirty = true
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Lines:   len(c.lines),
		Hits:    hits,
		Misses:  misses,
		HitRate: hitRate,
	}
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Lines   int     // Number of lines in the cached result
	Hits    uint64  // Number of cache hits
	Misses  uint64  // Number of recomputations
	HitRate float64 // Hit rate (0.0 - 1.0)
}
