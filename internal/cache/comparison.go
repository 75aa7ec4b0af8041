package cache

import (
	"strconv"
	"strings"
	"time"

	"splitcalc/internal/core"
)

// Comparisons caches aligned comparisons by history revision and selection.
// A new revision never reuses an old entry, so nothing needs invalidating.
type Comparisons struct {
	lru *LRUCache[core.Comparison]
}

func NewComparisons(size int, ttl time.Duration) *Comparisons {
	return &Comparisons{lru: NewLRUCache[core.Comparison](size, ttl)}
}

// ComparisonKey renders the cache key, e.g. "7:100,200".
func ComparisonKey(revision uint64, selection []int64) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(revision, 10))
	b.WriteByte(':')
	for i, id := range selection {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}

// GetOrCompute returns the cached comparison for the key or stores the
// result of compute.
func (c *Comparisons) GetOrCompute(revision uint64, selection []int64, compute func() core.Comparison) (core.Comparison, bool) {
	key := ComparisonKey(revision, selection)
	if cmp, ok := c.lru.Get(key); ok {
		return cmp, true
	}
	cmp := compute()
	c.lru.Set(key, cmp)
	return cmp, false
}

func (c *Comparisons) CleanExpired() int {
	return c.lru.CleanExpired()
}

func (c *Comparisons) Size() int {
	return c.lru.Size()
}
