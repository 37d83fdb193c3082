package cache

import (
	"context"
	"sync"
	"time"
)

// InMemoryReplayGuard is the single-instance fallback used when Redis is
// disabled in configuration. Slots expire after guardTTL just like the Redis
// variant so a crashed request cannot pin its key.
type InMemoryReplayGuard struct {
	mu    sync.Mutex
	slots map[string]time.Time
}

// NewInMemoryReplayGuard creates an empty guard.
func NewInMemoryReplayGuard() *InMemoryReplayGuard {
	return &InMemoryReplayGuard{slots: make(map[string]time.Time)}
}

// Acquire claims the slot for (key, endpoint). Returns false when another
// attempt currently holds it.
func (g *InMemoryReplayGuard) Acquire(ctx context.Context, key, endpoint string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	slot := guardKey(key, endpoint)
	if expiry, held := g.slots[slot]; held && now.Before(expiry) {
		return false, nil
	}
	g.slots[slot] = now.Add(guardTTL)
	return true, nil
}

// Release frees the slot.
func (g *InMemoryReplayGuard) Release(ctx context.Context, key, endpoint string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.slots, guardKey(key, endpoint))
}
