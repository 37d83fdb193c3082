package sync

import (
	"context"
	"time"

	"github.com/possync/backend/internal/domain/alert"
	"github.com/possync/backend/internal/domain/shared"
)

// InventoryReader reads the joined inventory view and its change signals.
type InventoryReader interface {
	// SnapshotRows pages the full inventory view for one warehouse.
	SnapshotRows(ctx context.Context, warehouse, priceList string, page shared.Page) ([]InventoryRow, int64, error)

	// SnapshotRowsByCodes rebuilds full rows for exactly the given item codes.
	SnapshotRowsByCodes(ctx context.Context, warehouse, priceList string, codes []string) ([]InventoryRow, error)

	// Change signals. A user-visible inventory row depends on three tables, so
	// a delta is the union of items touched through any of them.
	ItemCodesWithStockChanges(ctx context.Context, warehouse string, since time.Time) ([]string, error)
	ItemCodesWithMasterChanges(ctx context.Context, since time.Time) ([]string, error)
	ItemCodesWithPriceChanges(ctx context.Context, priceList string, since time.Time) ([]string, error)
}

// CustomerFilter narrows the portfolio listing. An empty field matches all.
type CustomerFilter struct {
	Territory string
}

// CustomerReader reads customers with their outstanding balances.
type CustomerReader interface {
	ListWithOutstanding(ctx context.Context, filter CustomerFilter, page shared.Page) ([]CustomerRow, int64, error)
	ChangedSince(ctx context.Context, since time.Time, page shared.Page) ([]CustomerRow, int64, error)
}

// SupplierReader reads suppliers.
type SupplierReader interface {
	List(ctx context.Context, page shared.Page) ([]SupplierRow, int64, error)
}

// InvoiceReader reads submitted sales invoices.
type InvoiceReader interface {
	// OpenSince lists unpaid or partly paid invoices posted after the cutoff.
	OpenSince(ctx context.Context, cutoff time.Time, page shared.Page) ([]InvoiceRow, int64, error)
	// PaidSince lists invoices settled after the cutoff.
	PaidSince(ctx context.Context, cutoff time.Time, page shared.Page) ([]InvoiceRow, int64, error)
	ChangedSince(ctx context.Context, since time.Time, page shared.Page) ([]InvoiceRow, int64, error)
}

// PaymentReader reads submitted payment entries.
type PaymentReader interface {
	PostedSince(ctx context.Context, cutoff time.Time, page shared.Page) ([]PaymentRow, int64, error)
	ChangedSince(ctx context.Context, since time.Time, page shared.Page) ([]PaymentRow, int64, error)
}

// ProfileReader reads point-of-sale profiles.
type ProfileReader interface {
	// Profile loads one profile, or shared.ErrNotFound.
	Profile(ctx context.Context, name string) (*ProfileRow, error)

	// ProfilesForUser lists enabled profiles the user may operate: profiles
	// that assign the user plus profiles with no assignments at all.
	ProfilesForUser(ctx context.Context, user string) ([]ProfileRow, error)
}

// SessionReader answers whether an actor has an open session on a profile.
type SessionReader interface {
	HasOpenSession(ctx context.Context, profile, user string) (bool, error)
}

// ReferenceReader reads the static lookup tables.
type ReferenceReader interface {
	CurrencyCodes(ctx context.Context) ([]string, error)
	PaymentTerms(ctx context.Context) ([]string, error)
	Territories(ctx context.Context) ([]string, error)
	CustomerGroups(ctx context.Context) ([]string, error)
}

// StubReader lists bare change stubs for entity types outside the rich delta
// families. Types the storage does not know return an empty listing, never
// an error.
type StubReader interface {
	StubsChangedSince(ctx context.Context, entityType string, since time.Time) ([]DocStub, error)
}

// AlertRuleReader loads the configured alert rules.
type AlertRuleReader interface {
	Rules(ctx context.Context) ([]alert.Rule, error)
}
