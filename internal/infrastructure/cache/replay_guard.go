package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/possync/backend/internal/infrastructure/config"
)

// guardKeyPrefix namespaces guard slots in a shared Redis instance.
const guardKeyPrefix = "pos:replay-guard:"

// guardTTL caps how long a crashed attempt can hold its slot. Losers poll the
// outcome store rather than waiting on the guard, so a leaked slot only
// delays, never deadlocks.
const guardTTL = 30 * time.Second

// RedisReplayGuard serializes concurrent first attempts for one
// (request key, endpoint) across all server instances. SETNX with a TTL is
// the whole mechanism; correctness still rests on the outcome store's unique
// constraint.
type RedisReplayGuard struct {
	client *redis.Client
}

// NewRedisReplayGuard connects to Redis and verifies the connection.
func NewRedisReplayGuard(cfg *config.RedisConfig) (*RedisReplayGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReplayGuard{client: client}, nil
}

// NewRedisReplayGuardWithClient wraps an existing client. Useful for tests
// and for sharing one client across components.
func NewRedisReplayGuardWithClient(client *redis.Client) *RedisReplayGuard {
	return &RedisReplayGuard{client: client}
}

// Acquire claims the slot for (key, endpoint). Returns false when another
// attempt currently holds it.
func (g *RedisReplayGuard) Acquire(ctx context.Context, key, endpoint string) (bool, error) {
	ok, err := g.client.SetNX(ctx, guardKey(key, endpoint), "1", guardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire replay guard: %w", err)
	}
	return ok, nil
}

// Release frees the slot. Errors are ignored: the TTL reclaims leaked slots.
func (g *RedisReplayGuard) Release(ctx context.Context, key, endpoint string) {
	g.client.Del(ctx, guardKey(key, endpoint))
}

// Close closes the underlying client.
func (g *RedisReplayGuard) Close() error {
	return g.client.Close()
}

func guardKey(key, endpoint string) string {
	return guardKeyPrefix + endpoint + ":" + key
}
