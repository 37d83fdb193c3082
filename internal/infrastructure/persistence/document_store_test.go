package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

func TestDocumentStoreInsertSubmittedInvoice(t *testing.T) {
	db := newTestDB(t)
	store := NewGormDocumentStore(db)
	ctx := context.Background()

	ref, err := store.InsertSubmitted(ctx, document.KindSalesInvoice, document.Fields{
		"customer":        "CUST-1",
		"pos_profile":     "Main Counter",
		"warehouse":       "WH-1",
		"currency":        "USD",
		"conversion_rate": dec("1"),
		"posting_date":    "2026-08-25",
		"grand_total":     dec("150"),
		"items": []map[string]any{
			{"item_code": "PEN", "qty": dec("10"), "rate": dec("15"), "uom": "Nos", "warehouse": "WH-1"},
		},
		"payments": []map[string]any{
			{"method": "Cash", "amount": dec("150")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, document.KindSalesInvoice, ref.Kind)
	assert.NotEmpty(t, ref.ID)

	fields, err := store.Get(ctx, document.KindSalesInvoice, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, "CUST-1", fields["customer"])
	assert.Equal(t, int(document.DocstatusSubmitted), fields["docstatus"])
	assert.Equal(t, models.InvoiceStatusPaid, fields["status"])
	assert.True(t, dec("0").Equal(decOf(fields["outstanding"])))
	assert.Len(t, fields["items"], 1)
	assert.Len(t, fields["payments"], 1)
}

func TestDocumentStorePartlyPaidInvoice(t *testing.T) {
	db := newTestDB(t)
	store := NewGormDocumentStore(db)
	ctx := context.Background()

	ref, err := store.InsertSubmitted(ctx, document.KindSalesInvoice, document.Fields{
		"customer":     "CUST-1",
		"posting_date": "2026-08-25",
		"currency":     "USD",
		"grand_total":  dec("100"),
		"payments": []map[string]any{
			{"method": "Cash", "amount": dec("40")},
		},
	})
	require.NoError(t, err)

	fields, err := store.Get(ctx, document.KindSalesInvoice, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPartly, fields["status"])
	assert.True(t, dec("60").Equal(decOf(fields["outstanding"])))
}

func TestDocumentStoreCancelInvoice(t *testing.T) {
	db := newTestDB(t)
	store := NewGormDocumentStore(db)
	ctx := context.Background()

	ref, err := store.InsertSubmitted(ctx, document.KindSalesInvoice, document.Fields{
		"customer":     "CUST-1",
		"posting_date": "2026-08-25",
		"currency":     "USD",
		"grand_total":  dec("100"),
	})
	require.NoError(t, err)

	require.NoError(t, store.Cancel(ctx, ref))

	fields, err := store.Get(ctx, document.KindSalesInvoice, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, int(document.DocstatusCancelled), fields["docstatus"])
	assert.Equal(t, models.InvoiceStatusCancelled, fields["status"])
	assert.True(t, decOf(fields["outstanding"]).IsZero())

	// A second cancel finds no submittable row and fails loudly.
	err = store.Cancel(ctx, ref)
	require.Error(t, err)
	assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
}

func TestDocumentStoreCancelMissingInvoice(t *testing.T) {
	db := newTestDB(t)
	store := NewGormDocumentStore(db)

	err := store.Cancel(context.Background(), document.Ref{Kind: document.KindSalesInvoice, ID: "SINV-NOPE"})
	require.Error(t, err)
	assert.Equal(t, shared.CodeNotFound, shared.CodeOf(err))
}

func TestDocumentStoreSessionLifecycle(t *testing.T) {
	db := newTestDB(t)
	store := NewGormDocumentStore(db)
	ctx := context.Background()

	ref, err := store.Insert(ctx, document.KindPOSSession, document.Fields{
		"pos_profile":   "Main Counter",
		"user":          "cashier@shop",
		"status":        "Open",
		"opening_float": dec("200"),
		"opened_at":     time.Now().UTC(),
	})
	require.NoError(t, err)

	rows, total, err := store.List(ctx, document.KindPOSSession, document.ListQuery{
		Filters: map[string]any{
			"pos_profile": "Main Counter",
			"user":        "cashier@shop",
			"status":      "Open",
		},
		Page: shared.Page{Limit: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, ref.ID, rows[0]["name"])

	closedAt := time.Now().UTC()
	require.NoError(t, store.Save(ctx, ref, document.Fields{
		"status":        "Closed",
		"closing_total": dec("1250.50"),
		"closed_at":     closedAt,
	}))

	fields, err := store.Get(ctx, document.KindPOSSession, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, "Closed", fields["status"])
	assert.True(t, dec("1250.50").Equal(decOf(fields["closing_total"])))
}

func TestDocumentStoreCustomerUpsertFlow(t *testing.T) {
	db := newTestDB(t)
	store := NewGormDocumentStore(db)
	ctx := context.Background()

	_, err := store.Get(ctx, document.KindCustomer, "CUST-7")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	ref, err := store.Insert(ctx, document.KindCustomer, document.Fields{
		"code":           "CUST-7",
		"customer_name":  "Walk In",
		"customer_group": "Retail",
	})
	require.NoError(t, err)
	assert.Equal(t, "CUST-7", ref.ID)

	require.NoError(t, store.Save(ctx, ref, document.Fields{"customer_name": "Walk-In Customer", "mobile": "555-0101"}))

	fields, err := store.Get(ctx, document.KindCustomer, "CUST-7")
	require.NoError(t, err)
	assert.Equal(t, "Walk-In Customer", fields["customer_name"])
	assert.Equal(t, "555-0101", fields["mobile"])
}

func TestDocumentStoreRejectsUnknownFilter(t *testing.T) {
	db := newTestDB(t)
	store := NewGormDocumentStore(db)

	_, _, err := store.List(context.Background(), document.KindCustomer, document.ListQuery{
		Filters: map[string]any{"favorite_color": "green"},
	})
	require.Error(t, err)
	assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
}

func TestDocumentStoreUnsupportedKind(t *testing.T) {
	db := newTestDB(t)
	store := NewGormDocumentStore(db)

	_, err := store.Get(context.Background(), document.Kind("Quotation"), "Q-1")
	require.Error(t, err)
	assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
}

func TestDocumentStorePaymentEntryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	store := NewGormDocumentStore(db)
	ctx := context.Background()

	ref, err := store.InsertSubmitted(ctx, document.KindPaymentEntry, document.Fields{
		"payment_type":    "Receive",
		"party_type":      "Customer",
		"party":           "CUST-1",
		"paid_amount":     dec("75"),
		"received_amount": dec("75"),
		"exchange_rate":   dec("1"),
		"posting_date":    "2026-08-25",
	})
	require.NoError(t, err)

	fields, err := store.Get(ctx, document.KindPaymentEntry, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, "Receive", fields["payment_type"])
	assert.Equal(t, int(document.DocstatusSubmitted), fields["docstatus"])
	assert.True(t, dec("75").Equal(decOf(fields["paid_amount"])))
}
