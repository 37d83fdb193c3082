package models

import "time"

// ActivityEntry is one appended line of the activity feed.
type ActivityEntry struct {
	ID        string `gorm:"primaryKey;size:36"`
	Actor     string `gorm:"size:255;not null"`
	Action    string `gorm:"size:64;not null"`
	DocType   string `gorm:"size:64;not null;index"`
	DocID     string `gorm:"size:140;not null"`
	Detail    string
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName maps the model to its table.
func (ActivityEntry) TableName() string { return "activity_entries" }
