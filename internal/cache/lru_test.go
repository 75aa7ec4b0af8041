package cache

import (
	"testing"
	"time"

	"splitcalc/internal/core"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be present")
	}
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("a = %q, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("Size = %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c, clock := newTestCache(4, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	clock.t = clock.t.Add(2 * time.Minute)
	c.Set("c", "3")

	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired = %d, want 2", n)
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("fresh entry removed")
	}

	clock.t = clock.t.Add(2 * time.Minute)
	if _, ok := c.Get("c"); ok {
		t.Fatal("expired entry returned")
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("stats = %d/%d", hits, misses)
	}
}

func TestLRUDeleteAndPurge(t *testing.T) {
	c, _ := newTestCache(4, time.Minute)
	c.Set("a", "1")
	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" {
		t.Fatalf("overwrite failed: %q", v)
	}
	c.Delete("a")
	c.Delete("missing")
	c.Set("b", "1")
	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("Size after purge = %d", c.Size())
	}
}

func TestComparisons(t *testing.T) {
	if got := ComparisonKey(7, []int64{100, 200}); got != "7:100,200" {
		t.Fatalf("ComparisonKey = %q", got)
	}
	if got := ComparisonKey(0, nil); got != "0:" {
		t.Fatalf("ComparisonKey = %q", got)
	}

	c := NewComparisons(8, time.Minute)
	calls := 0
	compute := func() core.Comparison {
		calls++
		return core.Comparison{Categories: []string{"Water Bill"}}
	}

	if _, hit := c.GetOrCompute(1, []int64{5}, compute); hit {
		t.Fatal("first lookup should miss")
	}
	cmp, hit := c.GetOrCompute(1, []int64{5}, compute)
	if !hit || calls != 1 || cmp.Categories[0] != "Water Bill" {
		t.Fatalf("expected cached value, calls=%d hit=%v", calls, hit)
	}
	if _, hit := c.GetOrCompute(2, []int64{5}, compute); hit || calls != 2 {
		t.Fatal("new revision must recompute")
	}
}

func TestManagerSweep(t *testing.T) {
	c, clock := newTestCache(4, time.Second)
	c.Set("a", "1")
	clock.t = clock.t.Add(time.Minute)

	m := NewManager(nil)
	m.Register(c)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("Sweep = %d", n)
	}
}
