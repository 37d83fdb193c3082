package idempotency

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadHashIsOrderInsensitive(t *testing.T) {
	a := map[string]any{
		"customer": "CUST-001",
		"items": []any{
			map[string]any{"item_code": "SKU-1", "qty": 2.0},
		},
		"total": 19.9,
	}
	b := map[string]any{
		"total":    19.9,
		"customer": "CUST-001",
		"items": []any{
			map[string]any{"qty": 2.0, "item_code": "SKU-1"},
		},
	}

	ha, err := PayloadHash(a)
	require.NoError(t, err)
	hb, err := PayloadHash(b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)
}

func TestPayloadHashDistinguishesValues(t *testing.T) {
	h1, err := PayloadHash(map[string]any{"total": 10.0})
	require.NoError(t, err)
	h2, err := PayloadHash(map[string]any{"total": 10.5})
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestResolveRequestKey(t *testing.T) {
	assert.Equal(t, "abc", ResolveRequestKey("abc", "cashier@shop", "deadbeef"))
	assert.Equal(t, "cashier@shop:deadbeef", ResolveRequestKey("", "cashier@shop", "deadbeef"))
}

func TestClassify(t *testing.T) {
	now := time.Now()
	response := json.RawMessage(`{"name":"SINV-0001"}`)

	t.Run("no record is fresh", func(t *testing.T) {
		out := Classify(nil, "h1", now)
		assert.Equal(t, Fresh, out.Kind)
	})

	t.Run("expired record is fresh", func(t *testing.T) {
		rec := NewCompleted("k", "invoice.create", "h1", response, Reference{}, now.Add(-3*24*time.Hour))
		out := Classify(rec, "h1", now)
		assert.Equal(t, Fresh, out.Kind)
	})

	t.Run("same hash replays stored response", func(t *testing.T) {
		ref := Reference{DocType: "Sales Invoice", DocID: "SINV-0001"}
		rec := NewCompleted("k", "invoice.create", "h1", response, ref, now)
		out := Classify(rec, "h1", now)
		assert.Equal(t, Replay, out.Kind)
		assert.Equal(t, response, out.Response)
		assert.Equal(t, ref, out.Reference)
	})

	t.Run("different hash is a conflict", func(t *testing.T) {
		rec := NewCompleted("k", "invoice.create", "h1", response, Reference{}, now)
		out := Classify(rec, "h2", now)
		assert.Equal(t, Conflict, out.Kind)
	})

	t.Run("failed record re-surfaces the failure", func(t *testing.T) {
		rec := NewFailed("k", "invoice.create", "h1", "customer is disabled", now)
		out := Classify(rec, "h1", now)
		assert.Equal(t, PriorFailure, out.Kind)
		assert.Equal(t, "customer is disabled", out.FailureMessage)
	})
}

func TestRecordRetention(t *testing.T) {
	now := time.Now()
	rec := NewCompleted("k", "invoice.create", "h1", nil, Reference{}, now)

	assert.Equal(t, now.Add(RetentionPeriod), rec.ExpiresAt)
	assert.False(t, rec.Expired(now.Add(RetentionPeriod-time.Minute)))
	assert.True(t, rec.Expired(now.Add(RetentionPeriod+time.Minute)))
}
