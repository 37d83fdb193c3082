package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/possync/backend/internal/domain/exchange"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

// GormQuoteRepository implements exchange.QuoteRepository over the stored
// currency quote table.
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository.
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// LatestDirect returns the most recent from→to quote dated on or before the
// given date, or shared.ErrNotFound.
func (r *GormQuoteRepository) LatestDirect(ctx context.Context, from, to string, onOrBefore time.Time) (*exchange.Quote, error) {
	var m models.CurrencyQuote
	err := r.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ? AND quote_date <= ?", from, to, onOrBefore).
		Order("quote_date DESC").
		First(&m).Error
	if err != nil {
		return nil, mapNotFound(err)
	}

	return &exchange.Quote{
		FromCurrency: m.FromCurrency,
		ToCurrency:   m.ToCurrency,
		Date:         m.QuoteDate,
		Rate:         m.Rate,
	}, nil
}
