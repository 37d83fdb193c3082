package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is one enabled currency code.
type Currency struct {
	Code    string `gorm:"primaryKey;size:3"`
	Enabled bool   `gorm:"not null;default:true"`
	Timestamps
}

// TableName maps the model to its table.
func (Currency) TableName() string { return "currencies" }

// CurrencyQuote is one stored conversion rate effective on a date.
type CurrencyQuote struct {
	ID           uint            `gorm:"primaryKey"`
	FromCurrency string          `gorm:"size:3;not null;index:idx_quote_pair_date"`
	ToCurrency   string          `gorm:"size:3;not null;index:idx_quote_pair_date"`
	QuoteDate    time.Time       `gorm:"not null;index:idx_quote_pair_date"`
	Rate         decimal.Decimal `gorm:"type:decimal(18,9);not null"`
	Timestamps
}

// TableName maps the model to its table.
func (CurrencyQuote) TableName() string { return "currency_quotes" }
