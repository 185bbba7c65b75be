// Package cache provides the in-process response cache for stats payloads.
package cache

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	DeletePrefix(prefix string) int
	InvalidateOwner(owner string)
	Size() int
}

// Cleaner is implemented by caches that can drop expired entries.
type Cleaner interface {
	CleanExpired() int
}

// OwnerKey builds a key scoped to one owner so all of that owner's entries
// can be invalidated together with OwnerPrefix.
func OwnerKey(owner string, parts ...string) string {
	return OwnerPrefix(owner) + strings.Join(parts, "|")
}

func OwnerPrefix(owner string) string {
	return owner + "\x00"
}

// Manager runs periodic expiry for registered caches and tracks a per-owner
// generation so results computed before an invalidation are never stored.
type Manager struct {
	caches []Cleaner

	mu          sync.Mutex
	generations map[string]uint64

	stopCleanup chan struct{}
	cleanupDone chan struct{}
	started     bool
}

func NewManager() *Manager {
	return &Manager{
		generations: make(map[string]uint64),
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup begins periodic cleanup of all registered caches.
func (m *Manager) StartCleanup(interval time.Duration) {
	m.started = true
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			total := 0
			for _, c := range m.caches {
				total += c.CleanExpired()
			}
			if total > 0 {
				slog.Debug("Expired cache entries removed", "component", "cache", "count", total)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// InvalidateOwner drops the owner's entries from every registered cache and
// bumps the owner's generation.
func (m *Manager) InvalidateOwner(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generations[owner]++
	for _, c := range m.caches {
		if inv, ok := c.(interface{ InvalidateOwner(string) }); ok {
			inv.InvalidateOwner(owner)
		}
	}
}

// Generation returns the owner's invalidation count. Read it before
// computing a value that will be passed to StoreIfCurrent.
func (m *Manager) Generation(owner string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[owner]
}

// StoreIfCurrent sets key only if owner has not been invalidated since gen
// was read, and reports whether it did.
func StoreIfCurrent[T any](m *Manager, c Cache[T], owner string, gen uint64, key string, v T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generations[owner] != gen {
		return false
	}
	c.Set(key, v)
	return true
}

// Stop ends the cleanup goroutine and waits for it to exit.
func (m *Manager) Stop() {
	if !m.started {
		return
	}
	close(m.stopCleanup)
	<-m.cleanupDone
	m.started = false
}
