package models

import "time"

// Timestamps provides the audit columns shared by every model. UpdatedAt
// doubles as the modification watermark the delta sync compares against.
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime;index"`
}
