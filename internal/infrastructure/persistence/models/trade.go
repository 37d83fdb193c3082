package models

import "github.com/shopspring/decimal"

// Invoice status values.
const (
	InvoiceStatusUnpaid    = "Unpaid"
	InvoiceStatusPartly    = "Partly Paid"
	InvoiceStatusPaid      = "Paid"
	InvoiceStatusCancelled = "Cancelled"
)

// SalesInvoice is a point-of-sale invoice header. PostingDate is stored as
// an ISO date string so window comparisons are plain lexicographic.
type SalesInvoice struct {
	Name           string          `gorm:"primaryKey;size:140"`
	Customer       string          `gorm:"size:140;not null;index"`
	POSProfile     string          `gorm:"size:140;index"`
	Warehouse      string          `gorm:"size:140"`
	PostingDate    string          `gorm:"size:10;not null;index"`
	Currency       string          `gorm:"size:3;not null"`
	ConversionRate decimal.Decimal `gorm:"type:decimal(18,9);not null;default:1"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	Outstanding    decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	Status         string          `gorm:"size:32;not null;index"`
	Docstatus      int             `gorm:"not null;default:0;index"`

	Items    []SalesInvoiceItem    `gorm:"foreignKey:InvoiceName;references:Name"`
	Payments []SalesInvoicePayment `gorm:"foreignKey:InvoiceName;references:Name"`
	Timestamps
}

// TableName maps the model to its table.
func (SalesInvoice) TableName() string { return "sales_invoices" }

// SalesInvoiceItem is one line of a sales invoice.
type SalesInvoiceItem struct {
	ID          uint            `gorm:"primaryKey"`
	InvoiceName string          `gorm:"size:140;not null;index"`
	ItemCode    string          `gorm:"size:140;not null"`
	Qty         decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	UOM         string          `gorm:"size:64"`
	Warehouse   string          `gorm:"size:140"`
	Timestamps
}

// TableName maps the model to its table.
func (SalesInvoiceItem) TableName() string { return "sales_invoice_items" }

// SalesInvoicePayment is one tender line of a sales invoice.
type SalesInvoicePayment struct {
	ID          uint            `gorm:"primaryKey"`
	InvoiceName string          `gorm:"size:140;not null;index"`
	Method      string          `gorm:"size:140;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	Timestamps
}

// TableName maps the model to its table.
func (SalesInvoicePayment) TableName() string { return "sales_invoice_payments" }

// PaymentEntry is a standalone payment document.
type PaymentEntry struct {
	Name           string          `gorm:"primaryKey;size:140"`
	PaymentType    string          `gorm:"size:32;not null"`
	PartyType      string          `gorm:"size:32"`
	Party          string          `gorm:"size:140;index"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	ReceivedAmount decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	FromCurrency   string          `gorm:"size:3"`
	ToCurrency     string          `gorm:"size:3"`
	ExchangeRate   decimal.Decimal `gorm:"type:decimal(18,9);not null;default:1"`
	PaidFrom       string          `gorm:"size:140"`
	PaidTo         string          `gorm:"size:140"`
	PostingDate    string          `gorm:"size:10;not null;index"`
	ReferenceNo    string          `gorm:"size:140"`
	AgainstInvoice string          `gorm:"size:140;index"`
	Docstatus      int             `gorm:"not null;default:0;index"`
	Timestamps
}

// TableName maps the model to its table.
func (PaymentEntry) TableName() string { return "payment_entries" }

// PaymentTerm is a lookup row shipped in the bootstrap reference block.
type PaymentTerm struct {
	Name string `gorm:"primaryKey;size:140"`
	Timestamps
}

// TableName maps the model to its table.
func (PaymentTerm) TableName() string { return "payment_terms" }
