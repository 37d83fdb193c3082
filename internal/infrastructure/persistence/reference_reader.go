package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/possync/backend/internal/domain/alert"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

// GormReferenceReader implements sync.ReferenceReader over the lookup tables.
type GormReferenceReader struct {
	db *gorm.DB
}

// NewGormReferenceReader creates a new GormReferenceReader.
func NewGormReferenceReader(db *gorm.DB) *GormReferenceReader {
	return &GormReferenceReader{db: db}
}

// CurrencyCodes lists the enabled currency codes.
func (r *GormReferenceReader) CurrencyCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&models.Currency{}).
		Where("enabled = ?", true).
		Order("code").
		Pluck("code", &codes).Error
	return codes, err
}

// PaymentTerms lists all payment term names.
func (r *GormReferenceReader) PaymentTerms(ctx context.Context) ([]string, error) {
	return r.names(ctx, &models.PaymentTerm{})
}

// Territories lists all territory names.
func (r *GormReferenceReader) Territories(ctx context.Context) ([]string, error) {
	return r.names(ctx, &models.Territory{})
}

// CustomerGroups lists all customer group names.
func (r *GormReferenceReader) CustomerGroups(ctx context.Context) ([]string, error) {
	return r.names(ctx, &models.CustomerGroup{})
}

func (r *GormReferenceReader) names(ctx context.Context, model any) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(model).Order("name").Pluck("name", &names).Error
	return names, err
}

// GormAlertRuleReader implements sync.AlertRuleReader.
type GormAlertRuleReader struct {
	db *gorm.DB
}

// NewGormAlertRuleReader creates a new GormAlertRuleReader.
func NewGormAlertRuleReader(db *gorm.DB) *GormAlertRuleReader {
	return &GormAlertRuleReader{db: db}
}

// Rules loads the configured alert rules.
func (r *GormAlertRuleReader) Rules(ctx context.Context) ([]alert.Rule, error) {
	var rows []models.AlertRule
	if err := r.db.WithContext(ctx).Order("priority, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	rules := make([]alert.Rule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, alert.NewRule(row.Warehouse, row.ItemGroup, row.CriticalRatio, row.LowRatio, row.Priority))
	}
	return rules, nil
}
