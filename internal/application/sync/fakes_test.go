package sync

import (
	"context"
	"time"

	"github.com/possync/backend/internal/domain/alert"
	"github.com/possync/backend/internal/domain/shared"
)

type fakeInventory struct {
	rows          []InventoryRow
	stockChanges  []string
	masterChanges []string
	priceChanges  []string
}

func (f *fakeInventory) SnapshotRows(ctx context.Context, warehouse, priceList string, page shared.Page) ([]InventoryRow, int64, error) {
	return f.rows, int64(len(f.rows)), nil
}

func (f *fakeInventory) SnapshotRowsByCodes(ctx context.Context, warehouse, priceList string, codes []string) ([]InventoryRow, error) {
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	var out []InventoryRow
	for _, r := range f.rows {
		if want[r.ItemCode] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeInventory) ItemCodesWithStockChanges(ctx context.Context, warehouse string, since time.Time) ([]string, error) {
	return f.stockChanges, nil
}

func (f *fakeInventory) ItemCodesWithMasterChanges(ctx context.Context, since time.Time) ([]string, error) {
	return f.masterChanges, nil
}

func (f *fakeInventory) ItemCodesWithPriceChanges(ctx context.Context, priceList string, since time.Time) ([]string, error) {
	return f.priceChanges, nil
}

type fakeCustomers struct {
	rows    []CustomerRow
	changed []CustomerRow
}

func (f *fakeCustomers) ListWithOutstanding(ctx context.Context, filter CustomerFilter, page shared.Page) ([]CustomerRow, int64, error) {
	if filter.Territory == "" {
		return f.rows, int64(len(f.rows)), nil
	}
	var out []CustomerRow
	for _, r := range f.rows {
		if r.Territory == filter.Territory {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeCustomers) ChangedSince(ctx context.Context, since time.Time, page shared.Page) ([]CustomerRow, int64, error) {
	return f.changed, int64(len(f.changed)), nil
}

type fakeSuppliers struct {
	rows []SupplierRow
}

func (f *fakeSuppliers) List(ctx context.Context, page shared.Page) ([]SupplierRow, int64, error) {
	return f.rows, int64(len(f.rows)), nil
}

type fakeInvoices struct {
	open    []InvoiceRow
	paid    []InvoiceRow
	changed []InvoiceRow
}

func (f *fakeInvoices) OpenSince(ctx context.Context, cutoff time.Time, page shared.Page) ([]InvoiceRow, int64, error) {
	return f.open, int64(len(f.open)), nil
}

func (f *fakeInvoices) PaidSince(ctx context.Context, cutoff time.Time, page shared.Page) ([]InvoiceRow, int64, error) {
	return f.paid, int64(len(f.paid)), nil
}

func (f *fakeInvoices) ChangedSince(ctx context.Context, since time.Time, page shared.Page) ([]InvoiceRow, int64, error) {
	return f.changed, int64(len(f.changed)), nil
}

type fakePayments struct {
	posted  []PaymentRow
	changed []PaymentRow
}

func (f *fakePayments) PostedSince(ctx context.Context, cutoff time.Time, page shared.Page) ([]PaymentRow, int64, error) {
	return f.posted, int64(len(f.posted)), nil
}

func (f *fakePayments) ChangedSince(ctx context.Context, since time.Time, page shared.Page) ([]PaymentRow, int64, error) {
	return f.changed, int64(len(f.changed)), nil
}

type fakeProfiles struct {
	profile *ProfileRow
}

func (f *fakeProfiles) Profile(ctx context.Context, name string) (*ProfileRow, error) {
	if f.profile == nil || f.profile.Name != name {
		return nil, shared.ErrNotFound
	}
	return f.profile, nil
}

func (f *fakeProfiles) ProfilesForUser(ctx context.Context, user string) ([]ProfileRow, error) {
	if f.profile == nil {
		return nil, nil
	}
	if len(f.profile.Users) > 0 {
		assigned := false
		for _, u := range f.profile.Users {
			if u == user {
				assigned = true
			}
		}
		if !assigned {
			return nil, nil
		}
	}
	return []ProfileRow{*f.profile}, nil
}

type fakeSessions struct {
	open bool
}

func (f *fakeSessions) HasOpenSession(ctx context.Context, profile, user string) (bool, error) {
	return f.open, nil
}

type fakeReference struct {
	currencies []string
	terms      []string
}

func (f *fakeReference) CurrencyCodes(ctx context.Context) ([]string, error) {
	return f.currencies, nil
}

func (f *fakeReference) PaymentTerms(ctx context.Context) ([]string, error) {
	return f.terms, nil
}

func (f *fakeReference) Territories(ctx context.Context) ([]string, error) {
	return []string{"All Territories"}, nil
}

func (f *fakeReference) CustomerGroups(ctx context.Context) ([]string, error) {
	return []string{"All Customer Groups"}, nil
}

type fakeStubs struct {
	stubs map[string][]DocStub
}

func (f *fakeStubs) StubsChangedSince(ctx context.Context, entityType string, since time.Time) ([]DocStub, error) {
	if rows, ok := f.stubs[entityType]; ok {
		return rows, nil
	}
	return []DocStub{}, nil
}

type fakeRules struct {
	rules []alert.Rule
}

func (f *fakeRules) Rules(ctx context.Context) ([]alert.Rule, error) {
	return f.rules, nil
}
