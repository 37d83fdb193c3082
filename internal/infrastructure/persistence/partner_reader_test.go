package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/possync/backend/internal/application/sync"
	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

func TestCustomerReaderOutstandingAggregation(t *testing.T) {
	db := newTestDB(t)
	reader := NewGormCustomerReader(db)

	require.NoError(t, db.Create([]models.Customer{
		{Code: "CUST-1", Name: "Acme", CreditLimit: dec("1000")},
		{Code: "CUST-2", Name: "Globex", CreditLimit: dec("0")},
	}).Error)
	require.NoError(t, db.Create([]models.SalesInvoice{
		{Name: "SINV-1", Customer: "CUST-1", PostingDate: "2026-08-01", Currency: "USD", GrandTotal: dec("100"), Outstanding: dec("60"), Status: models.InvoiceStatusPartly, Docstatus: 1},
		{Name: "SINV-2", Customer: "CUST-1", PostingDate: "2026-08-02", Currency: "USD", GrandTotal: dec("50"), Outstanding: dec("50"), Status: models.InvoiceStatusUnpaid, Docstatus: 1},
		// Draft invoices never count toward the balance.
		{Name: "SINV-3", Customer: "CUST-1", PostingDate: "2026-08-03", Currency: "USD", GrandTotal: dec("999"), Outstanding: dec("999"), Status: models.InvoiceStatusUnpaid, Docstatus: 0},
		// Settled invoices count toward neither the balance nor the pending count.
		{Name: "SINV-4", Customer: "CUST-1", PostingDate: "2026-08-04", Currency: "USD", GrandTotal: dec("30"), Outstanding: dec("0"), Status: models.InvoiceStatusPaid, Docstatus: 1},
	}).Error)

	rows, total, err := reader.ListWithOutstanding(context.Background(), sync.CustomerFilter{}, shared.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)

	assert.Equal(t, "CUST-1", rows[0].Code)
	assert.True(t, dec("110").Equal(rows[0].Outstanding))
	assert.True(t, dec("1000").Equal(rows[0].CreditLimit))
	assert.Equal(t, 2, rows[0].PendingInvoices)

	assert.Equal(t, "CUST-2", rows[1].Code)
	assert.True(t, rows[1].Outstanding.IsZero())
	assert.Zero(t, rows[1].PendingInvoices)
}

func TestCustomerReaderTerritoryFilter(t *testing.T) {
	db := newTestDB(t)
	reader := NewGormCustomerReader(db)

	require.NoError(t, db.Create([]models.Customer{
		{Code: "CUST-1", Name: "Acme", Territory: "North"},
		{Code: "CUST-2", Name: "Globex", Territory: "South"},
		{Code: "CUST-3", Name: "Initech", Territory: "North"},
	}).Error)

	rows, total, err := reader.ListWithOutstanding(context.Background(),
		sync.CustomerFilter{Territory: "North"}, shared.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "North", row.Territory)
	}
}

func TestCustomerReaderChangedSince(t *testing.T) {
	db := newTestDB(t)
	reader := NewGormCustomerReader(db)

	require.NoError(t, db.Create([]models.Customer{
		{Code: "CUST-1", Name: "Acme"},
		{Code: "CUST-2", Name: "Globex"},
	}).Error)

	watermark := time.Now().UTC().Add(time.Hour)
	touch(t, db, "customers", watermark.Add(-time.Minute), "code = ?", "CUST-1")
	touch(t, db, "customers", watermark.Add(time.Minute), "code = ?", "CUST-2")

	rows, total, err := reader.ChangedSince(context.Background(), watermark, shared.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "CUST-2", rows[0].Code)
}

func TestSupplierReaderList(t *testing.T) {
	db := newTestDB(t)
	reader := NewGormSupplierReader(db)

	require.NoError(t, db.Create([]models.Supplier{
		{Code: "SUPP-2", Name: "Paper Mill"},
		{Code: "SUPP-1", Name: "Ink Works", Mobile: "555-0102"},
	}).Error)

	rows, total, err := reader.List(context.Background(), shared.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "SUPP-1", rows[0].Code)
	assert.Equal(t, "555-0102", rows[0].Mobile)
}
