package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/possync/backend/internal/application/sync"
	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

// GormCustomerReader implements sync.CustomerReader. The outstanding balance
// is aggregated live from submitted invoices rather than denormalized onto
// the customer row.
type GormCustomerReader struct {
	db *gorm.DB
}

// NewGormCustomerReader creates a new GormCustomerReader.
func NewGormCustomerReader(db *gorm.DB) *GormCustomerReader {
	return &GormCustomerReader{db: db}
}

type customerScan struct {
	Code          string
	Name          string
	Mobile        string
	Email         string
	Territory     string
	CustomerGroup string
	CreditLimit   decimal.Decimal
	Outstanding   decimal.Decimal
	Pending       int
	Disabled      bool
	UpdatedAt     time.Time
}

func (r *GormCustomerReader) withOutstanding(ctx context.Context) *gorm.DB {
	// Only invoices still carrying a balance count toward the pending total,
	// so the COUNT is the number of open invoices, not of all submitted ones.
	open := r.db.Model(&models.SalesInvoice{}).
		Select("customer, SUM(outstanding) AS total, COUNT(*) AS pending").
		Where("docstatus = ? AND outstanding > 0", 1).
		Group("customer")

	return r.db.WithContext(ctx).
		Table("customers").
		Select("customers.*, COALESCE(o.total, 0) AS outstanding, COALESCE(o.pending, 0) AS pending").
		Joins("LEFT JOIN (?) o ON o.customer = customers.code", open)
}

// ListWithOutstanding pages customers with their outstanding balances and
// open-invoice counts, optionally narrowed to one territory.
func (r *GormCustomerReader) ListWithOutstanding(ctx context.Context, filter sync.CustomerFilter, page shared.Page) ([]sync.CustomerRow, int64, error) {
	count := r.db.WithContext(ctx).Model(&models.Customer{})
	query := r.withOutstanding(ctx)
	if filter.Territory != "" {
		count = count.Where("territory = ?", filter.Territory)
		query = query.Where("customers.territory = ?", filter.Territory)
	}

	var total int64
	if err := count.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var scans []customerScan
	err := query.
		Order("customers.code").
		Offset(page.Offset).Limit(page.Limit).
		Scan(&scans).Error
	if err != nil {
		return nil, 0, err
	}
	return toCustomerRows(scans), total, nil
}

// ChangedSince pages customers modified after the watermark, oldest change
// first so the client's watermark only moves forward as it stores a page.
func (r *GormCustomerReader) ChangedSince(ctx context.Context, since time.Time, page shared.Page) ([]sync.CustomerRow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("updated_at > ?", since).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var scans []customerScan
	err := r.withOutstanding(ctx).
		Where("customers.updated_at > ?", since).
		Order("customers.updated_at ASC, customers.code").
		Offset(page.Offset).Limit(page.Limit).
		Scan(&scans).Error
	if err != nil {
		return nil, 0, err
	}
	return toCustomerRows(scans), total, nil
}

func toCustomerRows(scans []customerScan) []sync.CustomerRow {
	rows := make([]sync.CustomerRow, 0, len(scans))
	for _, s := range scans {
		rows = append(rows, sync.CustomerRow{
			Code:            s.Code,
			Name:            s.Name,
			Mobile:          s.Mobile,
			Email:           s.Email,
			Territory:       s.Territory,
			CustomerGroup:   s.CustomerGroup,
			CreditLimit:     s.CreditLimit,
			Outstanding:     s.Outstanding,
			PendingInvoices: s.Pending,
			Disabled:        s.Disabled,
			ModifiedAt:      s.UpdatedAt,
		})
	}
	return rows
}

// GormSupplierReader implements sync.SupplierReader.
type GormSupplierReader struct {
	db *gorm.DB
}

// NewGormSupplierReader creates a new GormSupplierReader.
func NewGormSupplierReader(db *gorm.DB) *GormSupplierReader {
	return &GormSupplierReader{db: db}
}

// List pages all suppliers.
func (r *GormSupplierReader) List(ctx context.Context, page shared.Page) ([]sync.SupplierRow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Supplier{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).
		Order("code").
		Offset(page.Offset).Limit(page.Limit).
		Find(&suppliers).Error
	if err != nil {
		return nil, 0, err
	}

	rows := make([]sync.SupplierRow, 0, len(suppliers))
	for _, s := range suppliers {
		rows = append(rows, sync.SupplierRow{
			Code:       s.Code,
			Name:       s.Name,
			Mobile:     s.Mobile,
			Disabled:   s.Disabled,
			ModifiedAt: s.UpdatedAt,
		})
	}
	return rows, total, nil
}
