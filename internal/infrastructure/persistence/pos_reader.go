package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/possync/backend/internal/application/mutation"
	"github.com/possync/backend/internal/application/sync"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

// GormProfileReader implements sync.ProfileReader.
type GormProfileReader struct {
	db *gorm.DB
}

// NewGormProfileReader creates a new GormProfileReader.
func NewGormProfileReader(db *gorm.DB) *GormProfileReader {
	return &GormProfileReader{db: db}
}

// Profile loads one enabled profile with its users and payment methods.
// A disabled profile is reported as not found, same as a missing one.
func (r *GormProfileReader) Profile(ctx context.Context, name string) (*sync.ProfileRow, error) {
	var m models.POSProfile
	err := r.db.WithContext(ctx).
		Preload("Users").Preload("PaymentMethods").
		Where("name = ? AND disabled = ?", name, false).
		First(&m).Error
	if err != nil {
		return nil, mapNotFound(err)
	}

	users := make([]string, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, u.User)
	}
	methods := make([]string, 0, len(m.PaymentMethods))
	for _, pm := range m.PaymentMethods {
		methods = append(methods, pm.Method)
	}

	return &sync.ProfileRow{
		Name:           m.Name,
		Warehouse:      m.Warehouse,
		Currency:       m.Currency,
		PriceList:      m.PriceList,
		PaymentMethods: methods,
		Users:          users,
	}, nil
}

// ProfilesForUser lists enabled profiles the user can operate. A profile
// with no user assignments is open to everyone, so it is always included.
func (r *GormProfileReader) ProfilesForUser(ctx context.Context, user string) ([]sync.ProfileRow, error) {
	var ms []models.POSProfile
	err := r.db.WithContext(ctx).
		Preload("Users").Preload("PaymentMethods").
		Where("disabled = ?", false).
		Where(`name IN (?) OR name NOT IN (?)`,
			r.db.Model(&models.POSProfileUser{}).Select("profile_name").Where("user_email = ?", user),
			r.db.Model(&models.POSProfileUser{}).Select("profile_name"),
		).
		Order("name ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	rows := make([]sync.ProfileRow, 0, len(ms))
	for _, m := range ms {
		users := make([]string, 0, len(m.Users))
		for _, u := range m.Users {
			users = append(users, u.User)
		}
		methods := make([]string, 0, len(m.PaymentMethods))
		for _, pm := range m.PaymentMethods {
			methods = append(methods, pm.Method)
		}
		rows = append(rows, sync.ProfileRow{
			Name:           m.Name,
			Warehouse:      m.Warehouse,
			Currency:       m.Currency,
			PriceList:      m.PriceList,
			PaymentMethods: methods,
			Users:          users,
		})
	}
	return rows, nil
}

// GormSessionReader implements sync.SessionReader.
type GormSessionReader struct {
	db *gorm.DB
}

// NewGormSessionReader creates a new GormSessionReader.
func NewGormSessionReader(db *gorm.DB) *GormSessionReader {
	return &GormSessionReader{db: db}
}

// HasOpenSession reports whether the user has an open session on the profile.
func (r *GormSessionReader) HasOpenSession(ctx context.Context, profile, user string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.POSSession{}).
		Where("profile = ? AND user_email = ? AND status = ?", profile, user, mutation.SessionOpen).
		Count(&count).Error
	return count > 0, err
}
