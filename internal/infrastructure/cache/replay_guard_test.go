package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryReplayGuard_AcquireAndContend(t *testing.T) {
	guard := NewInMemoryReplayGuard()
	ctx := context.Background()

	ok, err := guard.Acquire(ctx, "req-1", "invoices.create")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.Acquire(ctx, "req-1", "invoices.create")
	require.NoError(t, err)
	assert.False(t, ok, "second attempt for the same slot must be rejected")
}

func TestInMemoryReplayGuard_SlotsScopedByEndpoint(t *testing.T) {
	guard := NewInMemoryReplayGuard()
	ctx := context.Background()

	ok, err := guard.Acquire(ctx, "req-1", "invoices.create")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = guard.Acquire(ctx, "req-1", "payments.create")
	require.NoError(t, err)
	assert.True(t, ok, "the same key on a different endpoint is a distinct slot")
}

func TestInMemoryReplayGuard_ReleaseFreesSlot(t *testing.T) {
	guard := NewInMemoryReplayGuard()
	ctx := context.Background()

	ok, err := guard.Acquire(ctx, "req-1", "invoices.create")
	require.NoError(t, err)
	require.True(t, ok)

	guard.Release(ctx, "req-1", "invoices.create")

	ok, err = guard.Acquire(ctx, "req-1", "invoices.create")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryReplayGuard_ExpiredSlotReclaimed(t *testing.T) {
	guard := NewInMemoryReplayGuard()
	ctx := context.Background()

	ok, err := guard.Acquire(ctx, "req-1", "invoices.create")
	require.NoError(t, err)
	require.True(t, ok)

	guard.mu.Lock()
	guard.slots[guardKey("req-1", "invoices.create")] = time.Now().Add(-time.Second)
	guard.mu.Unlock()

	ok, err = guard.Acquire(ctx, "req-1", "invoices.create")
	require.NoError(t, err)
	assert.True(t, ok, "an expired slot must be reclaimable")
}

func TestGuardKey(t *testing.T) {
	assert.Equal(t, "pos:replay-guard:invoices.create:req-1", guardKey("req-1", "invoices.create"))
}
