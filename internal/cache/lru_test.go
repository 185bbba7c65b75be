package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clk := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clk.now
	return c, clk
}

func TestLRUCacheEviction(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	if _, ok := c.Get("a"); !ok { // a becomes most recent
		t.Fatal("a should be cached")
	}
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatal("b was least recently used and should be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("a = %q, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	c.Set("k", "v")
	clk.t = clk.t.Add(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry should still be fresh")
	}
	clk.t = clk.t.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should have expired")
	}

	c.Set("x", "1")
	c.Set("y", "2")
	clk.t = clk.t.Add(2 * time.Minute)
	c.Set("z", "3")
	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired removed %d, want 2", n)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUCacheDeletePrefix(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set(OwnerKey("user:1", "weekly"), "a")
	c.Set(OwnerKey("user:1", "monthly", "2025-01-01"), "b")
	c.Set(OwnerKey("user:10", "weekly"), "c")

	if n := c.DeletePrefix(OwnerPrefix("user:1")); n != 2 {
		t.Fatalf("deleted %d, want 2", n)
	}
	if _, ok := c.Get(OwnerKey("user:10", "weekly")); !ok {
		t.Fatal("an owner whose id shares a prefix must not be invalidated")
	}
}

func TestLRUCacheStats(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set("k", "v")
	c.Get("k")
	c.Get("missing")
	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Size != 1 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestManagerStopWithoutStart(t *testing.T) {
	m := NewManager()
	m.Register(NewLRUCache[int](1, time.Second))
	m.Stop() // must not block

	m.StartCleanup(time.Millisecond)
	m.Stop()
}

func TestManagerInvalidateOwner(t *testing.T) {
	payloads := NewLRUCache[string](10, time.Minute)
	counts := NewLRUCache[int](10, time.Minute)
	m := NewManager()
	m.Register(payloads)
	m.Register(counts)

	payloads.Set(OwnerKey("user:1", "weekly"), "a")
	payloads.Set(OwnerKey("user:2", "weekly"), "b")
	counts.Set(OwnerKey("user:1", "categories"), 3)

	m.InvalidateOwner("user:1")

	if payloads.Size() != 1 || counts.Size() != 0 {
		t.Fatalf("sizes = %d, %d; want 1, 0", payloads.Size(), counts.Size())
	}
	if _, ok := payloads.Get(OwnerKey("user:2", "weekly")); !ok {
		t.Fatal("other owner's entry was dropped")
	}
}

func TestStoreIfCurrent(t *testing.T) {
	payloads := NewLRUCache[string](10, time.Minute)
	m := NewManager()
	m.Register(payloads)
	key := OwnerKey("user:1", "weekly")

	gen := m.Generation("user:1")
	if !StoreIfCurrent(m, payloads, "user:1", gen, key, "fresh") {
		t.Fatal("store with current generation rejected")
	}

	stale := m.Generation("user:1")
	m.InvalidateOwner("user:1")
	if StoreIfCurrent(m, payloads, "user:1", stale, key, "stale") {
		t.Fatal("value computed before invalidation was stored")
	}
	if _, ok := payloads.Get(key); ok {
		t.Fatal("stale value visible after invalidation")
	}

	// Other owners are unaffected.
	if !StoreIfCurrent(m, payloads, "user:2", m.Generation("user:2"), OwnerKey("user:2", "weekly"), "b") {
		t.Fatal("unrelated owner rejected")
	}
}
