package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/possync/backend/internal/domain/idempotency"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

// GormIdempotencyStore implements idempotency.Store on top of the
// idempotency_records table. The unique index on (request_key, endpoint)
// enforces the single-writer rule for a key.
type GormIdempotencyStore struct {
	db *gorm.DB
}

// NewGormIdempotencyStore creates a new GormIdempotencyStore.
func NewGormIdempotencyStore(db *gorm.DB) *GormIdempotencyStore {
	return &GormIdempotencyStore{db: db}
}

// Check classifies an incoming attempt against any stored record. An expired
// record is deleted on sight so a fresh attempt can insert under the same key.
func (s *GormIdempotencyStore) Check(ctx context.Context, key, endpoint, requestHash string) (idempotency.Outcome, error) {
	var m models.IdempotencyRecord
	err := s.db.WithContext(ctx).
		Where("request_key = ? AND endpoint = ?", key, endpoint).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return idempotency.Outcome{Kind: idempotency.Fresh}, nil
	}
	if err != nil {
		return idempotency.Outcome{}, err
	}

	now := time.Now().UTC()
	rec := toRecord(&m)
	if rec.Expired(now) {
		if err := s.db.WithContext(ctx).Delete(&models.IdempotencyRecord{}, m.ID).Error; err != nil {
			return idempotency.Outcome{}, err
		}
		return idempotency.Outcome{Kind: idempotency.Fresh}, nil
	}
	return idempotency.Classify(rec, requestHash, now), nil
}

// Complete records a successful attempt.
func (s *GormIdempotencyStore) Complete(ctx context.Context, rec *idempotency.Record) error {
	return s.insert(ctx, rec)
}

// Fail records a failed attempt.
func (s *GormIdempotencyStore) Fail(ctx context.Context, rec *idempotency.Record) error {
	return s.insert(ctx, rec)
}

func (s *GormIdempotencyStore) insert(ctx context.Context, rec *idempotency.Record) error {
	m := fromRecord(rec)
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "request_key"}, {Name: "endpoint"}},
			DoNothing: true,
		}).
		Create(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return idempotency.ErrDuplicateAttempt
	}
	return nil
}

// Sweep deletes every record past its retention window.
func (s *GormIdempotencyStore) Sweep(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.IdempotencyRecord{})
	return result.RowsAffected, result.Error
}

func toRecord(m *models.IdempotencyRecord) *idempotency.Record {
	return &idempotency.Record{
		RequestKey:       m.RequestKey,
		Endpoint:         m.Endpoint,
		RequestHash:      m.RequestHash,
		Status:           idempotency.Status(m.Status),
		ResponseSnapshot: m.ResponseSnapshot,
		FailureMessage:   m.FailureMessage,
		Reference: idempotency.Reference{
			DocType: m.RefDocType,
			DocID:   m.RefDocID,
		},
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

func fromRecord(rec *idempotency.Record) *models.IdempotencyRecord {
	return &models.IdempotencyRecord{
		RequestKey:       rec.RequestKey,
		Endpoint:         rec.Endpoint,
		RequestHash:      rec.RequestHash,
		Status:           string(rec.Status),
		ResponseSnapshot: rec.ResponseSnapshot,
		FailureMessage:   rec.FailureMessage,
		RefDocType:       rec.Reference.DocType,
		RefDocID:         rec.Reference.DocID,
		CreatedAt:        rec.CreatedAt,
		ExpiresAt:        rec.ExpiresAt,
	}
}
