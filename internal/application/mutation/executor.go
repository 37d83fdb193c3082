package mutation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/possync/backend/internal/domain/idempotency"
	"github.com/possync/backend/internal/domain/shared"
)

// ReplayGuard serializes concurrent first attempts for one (key, endpoint).
// Acquire returns false when another attempt currently holds the slot.
type ReplayGuard interface {
	Acquire(ctx context.Context, key, endpoint string) (bool, error)
	Release(ctx context.Context, key, endpoint string)
}

// ErrAttemptInFlight is returned when a concurrent retry arrives while the
// first attempt is still executing. Clients retry with the same key and get
// the recorded outcome.
var ErrAttemptInFlight = shared.NewDomainError(shared.CodeConflict, "This operation is already in progress, retry shortly")

// Request carries the idempotency identity of one mutating call.
type Request struct {
	// ClientKey is the client-chosen request key. Empty means "derive one".
	ClientKey string
	// Endpoint scopes the key, so the same key on two endpoints never collides.
	Endpoint string
	// Actor is the authenticated user, used for the derived-key fallback.
	Actor string
	// Payload is the parsed request body, hashed to detect key reuse.
	Payload map[string]any
}

// ApplyFunc performs the actual mutation. It runs at most once per logical
// operation and returns a JSON-serializable summary plus the document the
// mutation produced.
type ApplyFunc func(ctx context.Context) (any, idempotency.Reference, error)

// Executor runs every state-changing endpoint through the same sequence:
// resolve key, check the idempotency store, and only on a fresh attempt
// validate-apply-persist. Replays return the stored response unchanged.
type Executor struct {
	store  idempotency.Store
	guard  ReplayGuard
	logger *zap.Logger
	now    func() time.Time
}

// NewExecutor creates an executor. guard may be nil, in which case concurrent
// first attempts are resolved by the store's unique constraint alone.
func NewExecutor(store idempotency.Store, guard ReplayGuard, logger *zap.Logger) *Executor {
	return &Executor{
		store:  store,
		guard:  guard,
		logger: logger,
		now:    time.Now,
	}
}

// Execute runs one mutating call. The returned message is the stored response
// snapshot: a replay of the same key and payload yields the identical bytes.
func (e *Executor) Execute(ctx context.Context, req Request, apply ApplyFunc) (json.RawMessage, error) {
	if req.Endpoint == "" {
		return nil, shared.ValidationFailed("Endpoint name is required")
	}

	hash, err := idempotency.PayloadHash(req.Payload)
	if err != nil {
		return nil, err
	}
	key := idempotency.ResolveRequestKey(req.ClientKey, req.Actor, hash)

	outcome, err := e.store.Check(ctx, key, req.Endpoint, hash)
	if err != nil {
		return nil, err
	}
	if resp, done, err := e.settle(key, outcome); done {
		return resp, err
	}

	if e.guard != nil {
		ok, err := e.guard.Acquire(ctx, key, req.Endpoint)
		if err != nil {
			// The guard is an optimization over the store's unique constraint,
			// not the correctness mechanism. Proceed without it.
			e.logger.Warn("replay guard unavailable",
				zap.String("request_key", key),
				zap.String("endpoint", req.Endpoint),
				zap.Error(err))
		} else if !ok {
			return e.awaitWinner(ctx, key, req.Endpoint, hash)
		} else {
			defer e.guard.Release(ctx, key, req.Endpoint)
			// Re-check under the guard: an attempt that completed between our
			// first check and the acquire must be replayed, not re-applied.
			outcome, err := e.store.Check(ctx, key, req.Endpoint, hash)
			if err != nil {
				return nil, err
			}
			if resp, done, err := e.settle(key, outcome); done {
				return resp, err
			}
		}
	}

	result, ref, err := apply(ctx)
	if err != nil {
		e.recordFailure(ctx, key, req.Endpoint, hash, err)
		return nil, err
	}

	snapshot, err := json.Marshal(result)
	if err != nil {
		// The mutation is already committed at this point. The failure must
		// still be recorded, or a retry with the same key would apply it again.
		e.recordFailure(ctx, key, req.Endpoint, hash, err)
		return nil, err
	}

	rec := idempotency.NewCompleted(key, req.Endpoint, hash, snapshot, ref, e.now())
	if err := e.store.Complete(ctx, rec); err != nil {
		if errors.Is(err, idempotency.ErrDuplicateAttempt) {
			// Another attempt won the unique-constraint race. Its outcome is
			// the truth for this key; ours was a double-apply averted too late
			// to matter for the response, so return the winner's.
			return e.awaitWinner(ctx, key, req.Endpoint, hash)
		}
		return nil, err
	}

	return snapshot, nil
}

// settle maps a non-fresh outcome to its response. done is false for Fresh.
func (e *Executor) settle(key string, outcome idempotency.Outcome) (json.RawMessage, bool, error) {
	switch outcome.Kind {
	case idempotency.Replay:
		return outcome.Response, true, nil
	case idempotency.Conflict:
		return nil, true, idempotency.ConflictError(key)
	case idempotency.PriorFailure:
		return nil, true, shared.ValidationFailed(outcome.FailureMessage)
	default:
		return nil, false, nil
	}
}

// awaitWinner re-reads the store after losing a race, polling briefly for the
// winning attempt to record its outcome. If it has not shown up within the
// window, the caller is told to retry with the same key, which is safe.
func (e *Executor) awaitWinner(ctx context.Context, key, endpoint, hash string) (json.RawMessage, error) {
	const (
		pollInterval = 25 * time.Millisecond
		maxPolls     = 80
	)
	for i := 0; i < maxPolls; i++ {
		outcome, err := e.store.Check(ctx, key, endpoint, hash)
		if err != nil {
			return nil, err
		}
		if resp, done, err := e.settle(key, outcome); done {
			return resp, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return nil, ErrAttemptInFlight
}

// recordFailure persists a Failed record so an identical retry re-surfaces
// this failure instead of re-attempting the mutation. Losing the record race
// is fine: some attempt's outcome is recorded either way.
func (e *Executor) recordFailure(ctx context.Context, key, endpoint, hash string, cause error) {
	rec := idempotency.NewFailed(key, endpoint, hash, cause.Error(), e.now())
	if err := e.store.Fail(ctx, rec); err != nil && !errors.Is(err, idempotency.ErrDuplicateAttempt) {
		e.logger.Error("failed to record mutation failure",
			zap.String("request_key", key),
			zap.String("endpoint", endpoint),
			zap.Error(err))
	}
}

// payloadOf renders a typed request as the map the idempotency hash is
// computed over, so handler-parsed structs and raw retry bodies hash equal.
func payloadOf(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
