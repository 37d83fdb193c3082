package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// POSProfile is the terminal configuration a client bootstraps against.
type POSProfile struct {
	Name      string `gorm:"primaryKey;size:140"`
	Warehouse string `gorm:"size:140;not null"`
	Currency  string `gorm:"size:3;not null"`
	PriceList string `gorm:"size:140;not null"`
	Disabled  bool   `gorm:"not null;default:false"`

	Users          []POSProfileUser   `gorm:"foreignKey:ProfileName;references:Name"`
	PaymentMethods []POSPaymentMethod `gorm:"foreignKey:ProfileName;references:Name"`
	Timestamps
}

// TableName maps the model to its table.
func (POSProfile) TableName() string { return "pos_profiles" }

// POSProfileUser assigns a user to a profile. A profile with no assignment
// rows is open to every authenticated user.
type POSProfileUser struct {
	ID          uint   `gorm:"primaryKey"`
	ProfileName string `gorm:"size:140;not null;uniqueIndex:idx_profile_user"`
	User        string `gorm:"column:user_email;size:255;not null;uniqueIndex:idx_profile_user"`
	Timestamps
}

// TableName maps the model to its table.
func (POSProfileUser) TableName() string { return "pos_profile_users" }

// POSPaymentMethod is one tender type a profile accepts.
type POSPaymentMethod struct {
	ID          uint   `gorm:"primaryKey"`
	ProfileName string `gorm:"size:140;not null;index"`
	Method      string `gorm:"size:140;not null"`
	IsDefault   bool   `gorm:"not null;default:false"`
	Timestamps
}

// TableName maps the model to its table.
func (POSPaymentMethod) TableName() string { return "pos_payment_methods" }

// POSSession is one cashier shift on a profile.
type POSSession struct {
	Name         string          `gorm:"primaryKey;size:140"`
	Profile      string          `gorm:"size:140;not null;index:idx_session_profile_user"`
	User         string          `gorm:"column:user_email;size:255;not null;index:idx_session_profile_user"`
	Status       string          `gorm:"size:16;not null;index"`
	OpeningFloat decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	ClosingTotal decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	OpenedAt     time.Time       `gorm:"not null"`
	ClosedAt     *time.Time
	Timestamps
}

// TableName maps the model to its table.
func (POSSession) TableName() string { return "pos_sessions" }

// PosSettings is the singleton mutable settings row.
type PosSettings struct {
	ID                    uint   `gorm:"primaryKey"`
	DefaultCustomer       string `gorm:"size:140"`
	AllowCreditSales      bool   `gorm:"not null;default:false"`
	OpenInvoiceWindowDays int    `gorm:"not null;default:30"`
	PaidInvoiceWindowDays int    `gorm:"not null;default:7"`
	AlertLimit            int    `gorm:"not null;default:50"`
	Timestamps
}

// TableName maps the model to its table.
func (PosSettings) TableName() string { return "pos_settings" }
