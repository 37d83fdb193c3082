package sync

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/possync/backend/internal/domain/alert"
	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/exchange"
	"github.com/possync/backend/internal/domain/shared"
)

type allowAll struct{}

func (allowAll) HasPermission(ctx context.Context, actor string, kind document.Kind, action document.Action) bool {
	return true
}

type plannerFixture struct {
	inventory *fakeInventory
	customers *fakeCustomers
	invoices  *fakeInvoices
	payments  *fakePayments
	sessions  *fakeSessions
	stubs     *fakeStubs
	rules     *fakeRules
}

func newTestPlanner(f *plannerFixture) *Planner {
	return NewPlanner(
		DefaultOptions(),
		f.inventory,
		f.customers,
		&fakeSuppliers{},
		f.invoices,
		f.payments,
		&fakeProfiles{profile: &ProfileRow{
			Name:      "Main Counter",
			Warehouse: "WH-1",
			Currency:  "USD",
			PriceList: "Standard Selling",
			Users:     []string{"cashier@shop"},
		}},
		f.sessions,
		&fakeReference{currencies: []string{"USD", "EUR"}, terms: []string{"Net 30"}},
		f.stubs,
		f.rules,
		exchange.NewResolver(nil, nil),
		allowAll{},
		document.NewCapabilities("1"),
		zap.NewNop(),
	)
}

func defaultFixture() *plannerFixture {
	return &plannerFixture{
		inventory: &fakeInventory{},
		customers: &fakeCustomers{},
		invoices:  &fakeInvoices{},
		payments:  &fakePayments{},
		sessions:  &fakeSessions{open: true},
		stubs:     &fakeStubs{},
		rules:     &fakeRules{},
	}
}

func TestBootstrapRequiresOpenSession(t *testing.T) {
	f := defaultFixture()
	f.sessions.open = false
	planner := newTestPlanner(f)

	_, err := planner.Bootstrap(context.Background(), "cashier@shop", BootstrapRequest{POSProfile: "Main Counter"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestBootstrapRejectsUnassignedUser(t *testing.T) {
	planner := newTestPlanner(defaultFixture())

	_, err := planner.Bootstrap(context.Background(), "stranger@shop", BootstrapRequest{POSProfile: "Main Counter"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodePermission, domainErr.Code)
}

func TestBootstrapHidesNegativeStockUnlessAlerted(t *testing.T) {
	f := defaultFixture()
	f.inventory.rows = []InventoryRow{
		{ItemCode: "OK", ItemGroup: "G", OnHandQty: decimal.NewFromInt(10), ProjectedQty: decimal.NewFromInt(10), IsStocked: true},
		// Negative and stocked: alerts as CRITICAL, stays visible.
		{ItemCode: "NEG-STOCKED", ItemGroup: "G", OnHandQty: decimal.NewFromInt(-2), ProjectedQty: decimal.NewFromInt(-2), IsStocked: true},
		// Negative and non-stocked: never alerts, hidden.
		{ItemCode: "NEG-SERVICE", ItemGroup: "G", OnHandQty: decimal.NewFromInt(-1), ProjectedQty: decimal.NewFromInt(-1), IsStocked: false},
		// Negative on hand with a positive projection: inbound stock does not
		// make the shelf count right, and with no alert the row stays hidden.
		{ItemCode: "NEG-ONHAND", ItemGroup: "G", OnHandQty: decimal.NewFromInt(-5), ProjectedQty: decimal.NewFromInt(10), IsStocked: true},
	}
	planner := newTestPlanner(f)

	resp, err := planner.Bootstrap(context.Background(), "cashier@shop", BootstrapRequest{POSProfile: "Main Counter"})
	require.NoError(t, err)

	codes := make([]string, 0)
	for _, row := range resp.Inventory.Items {
		codes = append(codes, row.ItemCode)
	}
	assert.ElementsMatch(t, []string{"OK", "NEG-STOCKED"}, codes)

	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "NEG-STOCKED", resp.Alerts[0].ItemCode)
	assert.Equal(t, alert.StatusCritical, resp.Alerts[0].Status)
}

func TestBootstrapSellableQtyFloorsAtZero(t *testing.T) {
	row := InventoryRow{OnHandQty: decimal.NewFromInt(3), ReservedQty: decimal.NewFromInt(5)}
	assert.True(t, row.SellableQty().IsZero())

	row = InventoryRow{OnHandQty: decimal.NewFromInt(8), ReservedQty: decimal.NewFromInt(5)}
	assert.True(t, row.SellableQty().Equal(decimal.NewFromInt(3)))
}

func TestBootstrapDeduplicatesInvoiceWindows(t *testing.T) {
	f := defaultFixture()
	f.invoices.open = []InvoiceRow{
		{Name: "SINV-1", Status: "Unpaid"},
		{Name: "SINV-2", Status: "Unpaid"},
	}
	f.invoices.paid = []InvoiceRow{
		{Name: "SINV-2", Status: "Paid"},
		{Name: "SINV-3", Status: "Paid"},
	}
	planner := newTestPlanner(f)

	resp, err := planner.Bootstrap(context.Background(), "cashier@shop", BootstrapRequest{POSProfile: "Main Counter"})
	require.NoError(t, err)

	names := make([]string, 0)
	for _, inv := range resp.Invoices.Items {
		names = append(names, inv.Name)
	}
	assert.ElementsMatch(t, []string{"SINV-1", "SINV-2", "SINV-3"}, names)
	assert.Equal(t, int64(3), resp.Invoices.Pagination.Total)
}

func TestBootstrapResolvesReferenceRates(t *testing.T) {
	planner := newTestPlanner(defaultFixture())

	resp, err := planner.Bootstrap(context.Background(), "cashier@shop", BootstrapRequest{POSProfile: "Main Counter"})
	require.NoError(t, err)

	byCode := map[string]*decimal.Decimal{}
	for _, c := range resp.Reference.Currencies {
		byCode[c.Code] = c.Rate
	}
	// Profile currency converts to itself at exactly 1; EUR has no quotes and
	// must come back null rather than defaulting.
	require.NotNil(t, byCode["USD"])
	assert.True(t, byCode["USD"].Equal(decimal.NewFromInt(1)))
	assert.Nil(t, byCode["EUR"])
	assert.False(t, resp.Watermark.IsZero())
}

func TestMyProfilesListsAssignedProfiles(t *testing.T) {
	planner := newTestPlanner(defaultFixture())

	rows, err := planner.MyProfiles(context.Background(), "cashier@shop")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Main Counter", rows[0].Name)

	rows, err = planner.MyProfiles(context.Background(), "stranger@shop")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDeltaUnknownTypeFallsBackToStubs(t *testing.T) {
	f := defaultFixture()
	f.stubs.stubs = map[string][]DocStub{
		"POS Session": {{Name: "SES-1", Docstatus: 1}},
	}
	planner := newTestPlanner(f)

	resp, err := planner.Delta(context.Background(), "cashier@shop", DeltaRequest{
		POSProfile:    "Main Counter",
		ModifiedSince: time.Now().Add(-time.Hour),
		EntityTypes:   []string{"POS Session", "Warehouse"},
	})
	require.NoError(t, err)

	assert.Nil(t, resp.Inventory)
	require.Contains(t, resp.Others, "POS Session")
	require.Len(t, resp.Others["POS Session"], 1)
	assert.Equal(t, "SES-1", resp.Others["POS Session"][0].Name)
	// A type the storage does not know yields an empty listing, not an error.
	assert.Empty(t, resp.Others["Warehouse"])
}

func TestDeltaCanonicalizesAliases(t *testing.T) {
	f := defaultFixture()
	f.inventory.rows = []InventoryRow{
		{ItemCode: "SKU-1", ItemGroup: "G", ProjectedQty: decimal.NewFromInt(5), IsStocked: true},
	}
	f.inventory.priceChanges = []string{"SKU-1"}
	planner := newTestPlanner(f)

	for _, alias := range []string{"Item Price", "item_price", "BIN", "warehouse_item", "Warehouse_Items"} {
		resp, err := planner.Delta(context.Background(), "cashier@shop", DeltaRequest{
			POSProfile:    "Main Counter",
			ModifiedSince: time.Now().Add(-time.Hour),
			EntityTypes:   []string{alias},
		})
		require.NoError(t, err, alias)

		require.NotNil(t, resp.Inventory, alias)
		assert.Nil(t, resp.Customers, alias)
		assert.Nil(t, resp.Invoices, alias)
		assert.Nil(t, resp.Payments, alias)
		assert.Empty(t, resp.Others, alias)
	}

	resp, err := planner.Delta(context.Background(), "cashier@shop", DeltaRequest{
		POSProfile:    "Main Counter",
		ModifiedSince: time.Now().Add(-time.Hour),
		EntityTypes:   []string{"sales_invoice", "payment_entry", "customers"},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Invoices)
	require.NotNil(t, resp.Payments)
	require.NotNil(t, resp.Customers)
	assert.Nil(t, resp.Inventory)
}

func TestDeltaInventoryUnionsThreeSignals(t *testing.T) {
	f := defaultFixture()
	f.inventory.rows = []InventoryRow{
		{ItemCode: "STOCKED", ItemGroup: "G", ProjectedQty: decimal.NewFromInt(5), IsStocked: true},
		{ItemCode: "REPRICED", ItemGroup: "G", ProjectedQty: decimal.NewFromInt(7), IsStocked: true},
		{ItemCode: "RENAMED", ItemGroup: "G", ProjectedQty: decimal.NewFromInt(9), IsStocked: true},
		{ItemCode: "UNTOUCHED", ItemGroup: "G", ProjectedQty: decimal.NewFromInt(2), IsStocked: true},
	}
	f.inventory.stockChanges = []string{"STOCKED"}
	f.inventory.priceChanges = []string{"REPRICED", "STOCKED"}
	f.inventory.masterChanges = []string{"RENAMED"}
	planner := newTestPlanner(f)

	resp, err := planner.Delta(context.Background(), "cashier@shop", DeltaRequest{
		POSProfile:    "Main Counter",
		ModifiedSince: time.Now().Add(-time.Hour),
		EntityTypes:   []string{"Inventory"},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Inventory)

	codes := make([]string, 0)
	for _, row := range resp.Inventory.Rows {
		codes = append(codes, row.ItemCode)
	}
	assert.ElementsMatch(t, []string{"STOCKED", "REPRICED", "RENAMED"}, codes)
}

func TestDeltaEmptyTypesMeansAllFamilies(t *testing.T) {
	f := defaultFixture()
	f.customers.changed = []CustomerRow{{Code: "CUST-1"}}
	f.invoices.changed = []InvoiceRow{{Name: "SINV-1"}}
	f.payments.changed = []PaymentRow{{Name: "PE-1"}}
	planner := newTestPlanner(f)

	resp, err := planner.Delta(context.Background(), "cashier@shop", DeltaRequest{
		POSProfile:    "Main Counter",
		ModifiedSince: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Inventory)
	require.NotNil(t, resp.Customers)
	require.NotNil(t, resp.Invoices)
	require.NotNil(t, resp.Payments)
	assert.Len(t, resp.Customers.Items, 1)
	assert.Len(t, resp.Invoices.Items, 1)
	assert.Len(t, resp.Payments.Items, 1)
}
