package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/possync/backend/internal/application/sync"
	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceReader implements sync.InvoiceReader over submitted invoices.
type GormInvoiceReader struct {
	db *gorm.DB
}

// NewGormInvoiceReader creates a new GormInvoiceReader.
func NewGormInvoiceReader(db *gorm.DB) *GormInvoiceReader {
	return &GormInvoiceReader{db: db}
}

// OpenSince lists unpaid or partly paid invoices posted after the cutoff.
func (r *GormInvoiceReader) OpenSince(ctx context.Context, cutoff time.Time, page shared.Page) ([]sync.InvoiceRow, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SalesInvoice{}).
		Where("docstatus = ? AND outstanding > 0 AND posting_date >= ?", 1, cutoff.Format("2006-01-02"))
	return r.page(query, "posting_date DESC, name", page)
}

// PaidSince lists invoices settled after the cutoff.
func (r *GormInvoiceReader) PaidSince(ctx context.Context, cutoff time.Time, page shared.Page) ([]sync.InvoiceRow, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SalesInvoice{}).
		Where("docstatus = ? AND status = ? AND updated_at >= ?", 1, models.InvoiceStatusPaid, cutoff)
	return r.page(query, "posting_date DESC, name", page)
}

// ChangedSince lists submitted or cancelled invoices modified after the
// watermark, oldest change first so the client's watermark only moves
// forward as it stores a page.
func (r *GormInvoiceReader) ChangedSince(ctx context.Context, since time.Time, page shared.Page) ([]sync.InvoiceRow, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SalesInvoice{}).
		Where("docstatus IN ? AND updated_at > ?", []int{1, 2}, since)
	return r.page(query, "updated_at ASC, name", page)
}

func (r *GormInvoiceReader) page(query *gorm.DB, order string, page shared.Page) ([]sync.InvoiceRow, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []models.SalesInvoice
	err := query.
		Order(order).
		Offset(page.Offset).Limit(page.Limit).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}

	rows := make([]sync.InvoiceRow, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, sync.InvoiceRow{
			Name:        inv.Name,
			Customer:    inv.Customer,
			PostingDate: inv.PostingDate,
			Status:      inv.Status,
			Currency:    inv.Currency,
			GrandTotal:  inv.GrandTotal,
			Outstanding: inv.Outstanding,
			ModifiedAt:  inv.UpdatedAt,
		})
	}
	return rows, total, nil
}

// GormPaymentReader implements sync.PaymentReader over submitted payment entries.
type GormPaymentReader struct {
	db *gorm.DB
}

// NewGormPaymentReader creates a new GormPaymentReader.
func NewGormPaymentReader(db *gorm.DB) *GormPaymentReader {
	return &GormPaymentReader{db: db}
}

// PostedSince lists submitted payments posted after the cutoff.
func (r *GormPaymentReader) PostedSince(ctx context.Context, cutoff time.Time, page shared.Page) ([]sync.PaymentRow, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentEntry{}).
		Where("docstatus = ? AND posting_date >= ?", 1, cutoff.Format("2006-01-02"))
	return r.page(query, "posting_date DESC, name", page)
}

// ChangedSince lists submitted or cancelled payments modified after the
// watermark, oldest change first.
func (r *GormPaymentReader) ChangedSince(ctx context.Context, since time.Time, page shared.Page) ([]sync.PaymentRow, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentEntry{}).
		Where("docstatus IN ? AND updated_at > ?", []int{1, 2}, since)
	return r.page(query, "updated_at ASC, name", page)
}

func (r *GormPaymentReader) page(query *gorm.DB, order string, page shared.Page) ([]sync.PaymentRow, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.PaymentEntry
	err := query.
		Order(order).
		Offset(page.Offset).Limit(page.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	rows := make([]sync.PaymentRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, sync.PaymentRow{
			Name:         e.Name,
			Kind:         e.PaymentType,
			Party:        e.Party,
			PostingDate:  e.PostingDate,
			Amount:       e.PaidAmount,
			ExchangeRate: e.ExchangeRate,
			ModifiedAt:   e.UpdatedAt,
		})
	}
	return rows, total, nil
}
