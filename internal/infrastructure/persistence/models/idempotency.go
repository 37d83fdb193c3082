package models

import "time"

// IdempotencyRecord stores the terminal outcome of one logical client
// mutation. The composite unique index on (request_key, endpoint) is what
// makes concurrent retries safe: only one attempt can ever insert.
type IdempotencyRecord struct {
	ID               uint   `gorm:"primaryKey"`
	RequestKey       string `gorm:"size:255;not null;uniqueIndex:idx_request_key_endpoint"`
	Endpoint         string `gorm:"size:128;not null;uniqueIndex:idx_request_key_endpoint"`
	RequestHash      string `gorm:"size:64;not null"`
	Status           string `gorm:"size:16;not null"`
	ResponseSnapshot []byte
	FailureMessage   string
	RefDocType       string    `gorm:"size:64"`
	RefDocID         string    `gorm:"size:255"`
	CreatedAt        time.Time `gorm:"not null"`
	ExpiresAt        time.Time `gorm:"not null;index"`
}

// TableName maps the model to its table.
func (IdempotencyRecord) TableName() string { return "idempotency_records" }
