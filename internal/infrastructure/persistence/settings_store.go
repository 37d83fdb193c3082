package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/possync/backend/internal/infrastructure/config"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

// GormSettingsStore implements config.SettingsStore over the singleton
// pos_settings row.
type GormSettingsStore struct {
	db *gorm.DB
}

// NewGormSettingsStore creates a new GormSettingsStore.
func NewGormSettingsStore(db *gorm.DB) *GormSettingsStore {
	return &GormSettingsStore{db: db}
}

// settingsRowID pins the singleton row.
const settingsRowID = 1

// Load reads the settings row, falling back to defaults when none exists yet.
func (s *GormSettingsStore) Load(ctx context.Context) (*config.Settings, error) {
	var m models.PosSettings
	err := s.db.WithContext(ctx).First(&m, settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := config.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &config.Settings{
		DefaultCustomer:       m.DefaultCustomer,
		AllowCreditSales:      m.AllowCreditSales,
		OpenInvoiceWindowDays: m.OpenInvoiceWindowDays,
		PaidInvoiceWindowDays: m.PaidInvoiceWindowDays,
		AlertLimit:            m.AlertLimit,
	}, nil
}

// Save upserts the settings row.
func (s *GormSettingsStore) Save(ctx context.Context, settings *config.Settings) error {
	m := models.PosSettings{
		ID:                    settingsRowID,
		DefaultCustomer:       settings.DefaultCustomer,
		AllowCreditSales:      settings.AllowCreditSales,
		OpenInvoiceWindowDays: settings.OpenInvoiceWindowDays,
		PaidInvoiceWindowDays: settings.PaidInvoiceWindowDays,
		AlertLimit:            settings.AlertLimit,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&m).Error
}
