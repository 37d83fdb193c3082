package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/possync/backend/internal/application/activity"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

// GormActivityLog implements activity.Log as an append-only table.
type GormActivityLog struct {
	db *gorm.DB
}

// NewGormActivityLog creates a new GormActivityLog.
func NewGormActivityLog(db *gorm.DB) *GormActivityLog {
	return &GormActivityLog{db: db}
}

// Append stores one entry.
func (l *GormActivityLog) Append(ctx context.Context, e *activity.Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m := models.ActivityEntry{
		ID:        e.ID,
		Actor:     e.Actor,
		Action:    e.Action,
		DocType:   e.DocType,
		DocID:     e.DocID,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
	return l.db.WithContext(ctx).Create(&m).Error
}

// Scan returns up to batch entries strictly before the (before, beforeID)
// cursor, newest first. Ties on created_at break on id so entries sharing a
// timestamp keep a total order across batches.
func (l *GormActivityLog) Scan(ctx context.Context, before time.Time, beforeID string, batch int) ([]activity.Entry, error) {
	query := l.db.WithContext(ctx)
	if beforeID == "" {
		query = query.Where("created_at < ?", before)
	} else {
		query = query.Where("created_at < ? OR (created_at = ? AND id < ?)", before, before, beforeID)
	}

	var rows []models.ActivityEntry
	err := query.
		Order("created_at DESC, id DESC").
		Limit(batch).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]activity.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, activity.Entry{
			ID:        r.ID,
			Actor:     r.Actor,
			Action:    r.Action,
			DocType:   r.DocType,
			DocID:     r.DocID,
			Detail:    r.Detail,
			CreatedAt: r.CreatedAt,
		})
	}
	return entries, nil
}
