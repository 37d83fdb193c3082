package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/possync/backend/internal/domain/shared"
)

// RetentionPeriod is how long an outcome stays replayable. Records older than
// this are removed by the background sweep.
const RetentionPeriod = 48 * time.Hour

// Status marks the terminal state of a recorded attempt.
type Status string

const (
	// StatusCompleted means the mutation was applied and its response snapshot stored.
	StatusCompleted Status = "Completed"
	// StatusFailed means the mutation was attempted and raised an error. A retry
	// with the same key and payload re-surfaces the stored failure instead of
	// re-applying the mutation.
	StatusFailed Status = "Failed"
)

// Reference points at the document a completed mutation produced.
type Reference struct {
	DocType string `json:"doc_type"`
	DocID   string `json:"doc_id"`
}

// Record is the persisted outcome of one logical client operation.
// For a given (RequestKey, Endpoint) at most one record exists; a request
// reusing the key with a different payload hash is a client bug and is
// rejected, never overwritten.
type Record struct {
	RequestKey       string
	Endpoint         string
	RequestHash      string
	Status           Status
	ResponseSnapshot json.RawMessage
	FailureMessage   string
	Reference        Reference
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

// NewCompleted builds a Completed record with the standard retention window.
func NewCompleted(key, endpoint, requestHash string, response json.RawMessage, ref Reference, now time.Time) *Record {
	return &Record{
		RequestKey:       key,
		Endpoint:         endpoint,
		RequestHash:      requestHash,
		Status:           StatusCompleted,
		ResponseSnapshot: response,
		Reference:        ref,
		CreatedAt:        now,
		ExpiresAt:        now.Add(RetentionPeriod),
	}
}

// NewFailed builds a Failed record with the standard retention window.
func NewFailed(key, endpoint, requestHash, failureMessage string, now time.Time) *Record {
	return &Record{
		RequestKey:     key,
		Endpoint:       endpoint,
		RequestHash:    requestHash,
		Status:         StatusFailed,
		FailureMessage: failureMessage,
		CreatedAt:      now,
		ExpiresAt:      now.Add(RetentionPeriod),
	}
}

// Expired reports whether the record is past its retention window.
func (r *Record) Expired(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}

// PayloadHash hashes a canonical JSON rendering of the payload. Map keys are
// emitted in sorted order with compact separators, so semantically identical
// payloads hash equal regardless of key order or whitespace in the original
// request body.
func PayloadHash(payload map[string]any) (string, error) {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", shared.ValidationFailed("request payload is not serializable")
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// ResolveRequestKey returns the client-supplied key verbatim when present.
// Without one, identical retries still collapse: the key is derived from the
// acting user plus the payload hash.
func ResolveRequestKey(clientKey, user string, payloadHash string) string {
	if clientKey != "" {
		return clientKey
	}
	return user + ":" + payloadHash
}
