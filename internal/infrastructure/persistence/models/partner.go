package models

import "github.com/shopspring/decimal"

// Customer is the customer master row. Outstanding balance is not stored
// here; it is aggregated from submitted invoices at read time.
type Customer struct {
	Code          string          `gorm:"primaryKey;size:140"`
	Name          string          `gorm:"size:255;not null"`
	Mobile        string          `gorm:"size:32"`
	Email         string          `gorm:"size:255"`
	Territory     string          `gorm:"size:140"`
	CustomerGroup string          `gorm:"size:140"`
	CreditLimit   decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	Disabled      bool            `gorm:"not null;default:false"`
	Timestamps
}

// TableName maps the model to its table.
func (Customer) TableName() string { return "customers" }

// Supplier is the supplier master row.
type Supplier struct {
	Code     string `gorm:"primaryKey;size:140"`
	Name     string `gorm:"size:255;not null"`
	Mobile   string `gorm:"size:32"`
	Disabled bool   `gorm:"not null;default:false"`
	Timestamps
}

// TableName maps the model to its table.
func (Supplier) TableName() string { return "suppliers" }

// CustomerGroup is a lookup row shipped in the bootstrap reference block.
type CustomerGroup struct {
	Name string `gorm:"primaryKey;size:140"`
	Timestamps
}

// TableName maps the model to its table.
func (CustomerGroup) TableName() string { return "customer_groups" }

// Territory is a lookup row shipped in the bootstrap reference block.
type Territory struct {
	Name string `gorm:"primaryKey;size:140"`
	Timestamps
}

// TableName maps the model to its table.
func (Territory) TableName() string { return "territories" }
