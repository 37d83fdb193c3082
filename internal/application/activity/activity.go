package activity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/possync/backend/internal/domain/document"
)

// Entry is one line of the activity feed: who did what to which document.
type Entry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	DocType   string    `json:"doc_type"`
	DocID     string    `json:"doc_id"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Log is the persistence port for activity entries.
type Log interface {
	// Append stores one entry.
	Append(ctx context.Context, e *Entry) error

	// Scan returns up to batch entries strictly before the (before, beforeID)
	// cursor under (created_at DESC, id DESC) ordering. An empty beforeID
	// means strictly before the timestamp alone. The compound cursor keeps
	// entries sharing one timestamp from being skipped across batches.
	Scan(ctx context.Context, before time.Time, beforeID string, batch int) ([]Entry, error)
}

// Recorder writes activity entries on a best-effort basis. A failed write is
// reported to the log and swallowed: the feed is a side channel and must
// never fail the mutation it describes.
type Recorder struct {
	log    Log
	logger *zap.Logger
	now    func() time.Time
}

// NewRecorder creates a Recorder. A nil log disables recording entirely,
// matching installations whose schema lacks the activity table.
func NewRecorder(log Log, logger *zap.Logger) *Recorder {
	return &Recorder{log: log, logger: logger, now: time.Now}
}

// Record stores one entry, swallowing any failure.
func (r *Recorder) Record(ctx context.Context, actor, action string, ref document.Ref, detail string) {
	if r.log == nil {
		return
	}
	e := &Entry{
		Actor:     actor,
		Action:    action,
		DocType:   string(ref.Kind),
		DocID:     ref.ID,
		Detail:    detail,
		CreatedAt: r.now().UTC(),
	}
	if err := r.log.Append(ctx, e); err != nil {
		r.logger.Warn("activity entry dropped",
			zap.String("actor", actor),
			zap.String("action", action),
			zap.String("doc", ref.String()),
			zap.Error(err))
	}
}
