package idempotency

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/possync/backend/internal/domain/shared"
)

// OutcomeKind classifies what the store already knows about an attempt.
type OutcomeKind int

const (
	// Fresh means no record exists; the mutation may proceed.
	Fresh OutcomeKind = iota
	// Replay means an identical attempt already completed; return the stored response.
	Replay
	// Conflict means the key was reused with a different payload.
	Conflict
	// PriorFailure means an identical attempt already failed; the failure is terminal.
	PriorFailure
)

// Outcome is the result of checking a request key against the store.
type Outcome struct {
	Kind           OutcomeKind
	Response       json.RawMessage
	Reference      Reference
	FailureMessage string
}

// ErrDuplicateAttempt is returned by Complete/Fail when another attempt for
// the same (key, endpoint) won the race to persist first. The caller should
// re-check and return the winner's outcome instead of its own.
var ErrDuplicateAttempt = shared.NewDomainError(shared.CodeConflict, "Another attempt for this request key is already recorded")

// Store persists attempt outcomes keyed by (request key, endpoint).
// Implementations must enforce a unique constraint on that pair so concurrent
// retries cannot both record an outcome.
type Store interface {
	// Check classifies an incoming attempt. Expired records are treated as absent.
	Check(ctx context.Context, key, endpoint, requestHash string) (Outcome, error)

	// Complete records a successful attempt. Returns ErrDuplicateAttempt when a
	// record for (key, endpoint) already exists.
	Complete(ctx context.Context, rec *Record) error

	// Fail records a failed attempt. Returns ErrDuplicateAttempt when a record
	// for (key, endpoint) already exists.
	Fail(ctx context.Context, rec *Record) error

	// Sweep deletes all records whose retention window ended before now and
	// reports how many were removed.
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

// Classify maps a stored record against an incoming attempt's payload hash.
// Shared by store implementations so the replay/conflict rules live in one place.
func Classify(rec *Record, requestHash string, now time.Time) Outcome {
	if rec == nil || rec.Expired(now) {
		return Outcome{Kind: Fresh}
	}
	if rec.RequestHash != requestHash {
		return Outcome{Kind: Conflict}
	}
	if rec.Status == StatusFailed {
		return Outcome{Kind: PriorFailure, FailureMessage: rec.FailureMessage}
	}
	return Outcome{Kind: Replay, Response: rec.ResponseSnapshot, Reference: rec.Reference}
}

// ConflictError builds the validation error surfaced when a request key is
// reused with a different payload. Failing loudly here is deliberate: silent
// acceptance would let a buggy client apply two different mutations under one key.
func ConflictError(key string) *shared.DomainError {
	return shared.ValidationFailed(fmt.Sprintf("Request key %q was already used with a different payload", key))
}
