package sync

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/possync/backend/internal/domain/alert"
)

// InventoryRow is the client-facing inventory line for one item in one
// warehouse. It joins three storage-side tables (stock level, item master,
// price list), which is why deltas are computed per item code rather than
// per table.
type InventoryRow struct {
	ItemCode      string           `json:"item_code"`
	ItemName      string           `json:"item_name"`
	ItemGroup     string           `json:"item_group"`
	Barcode       *string          `json:"barcode,omitempty"`
	UOM           string           `json:"uom"`
	PriceListRate *decimal.Decimal `json:"price_list_rate,omitempty"`
	OnHandQty     decimal.Decimal  `json:"on_hand_qty"`
	ReservedQty   decimal.Decimal  `json:"reserved_qty"`
	ProjectedQty  decimal.Decimal  `json:"projected_qty"`
	ReorderLevel  *decimal.Decimal `json:"reorder_level,omitempty"`
	ReorderQty    *decimal.Decimal `json:"reorder_qty,omitempty"`
	IsStocked     bool             `json:"is_stocked"`
	ModifiedAt    time.Time        `json:"modified_at"`
}

// SellableQty is the quantity a client may sell: on hand minus reserved,
// floored at zero.
func (r InventoryRow) SellableQty() decimal.Decimal {
	qty := r.OnHandQty.Sub(r.ReservedQty)
	if qty.IsNegative() {
		return decimal.Zero
	}
	return qty
}

// snapshotRow converts the row into the alert engine's input shape.
func (r InventoryRow) snapshotRow() alert.SnapshotRow {
	return alert.SnapshotRow{
		ItemCode:     r.ItemCode,
		ItemGroup:    r.ItemGroup,
		SellableQty:  r.SellableQty(),
		ProjectedQty: r.ProjectedQty,
		ReorderLevel: r.ReorderLevel,
		ReorderQty:   r.ReorderQty,
		IsStocked:    r.IsStocked,
	}
}

// snapshotRows converts a fetched page into the alert engine's input.
func snapshotRows(rows []InventoryRow) []alert.SnapshotRow {
	out := make([]alert.SnapshotRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.snapshotRow())
	}
	return out
}

// CustomerRow is the client-facing customer line including the outstanding
// balance and the count of invoices still carrying one, both aggregated live
// from unpaid invoices.
type CustomerRow struct {
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Mobile          string          `json:"mobile,omitempty"`
	Email           string          `json:"email,omitempty"`
	Territory       string          `json:"territory,omitempty"`
	CustomerGroup   string          `json:"customer_group,omitempty"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	PendingInvoices int             `json:"pending_invoices_count"`
	Disabled        bool            `json:"disabled"`
	ModifiedAt      time.Time       `json:"modified_at"`
}

// DocStub is the minimal change record served for entity types without a
// dedicated delta family.
type DocStub struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified"`
	Docstatus  int       `json:"docstatus"`
}

// SupplierRow is the client-facing supplier line.
type SupplierRow struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Mobile     string    `json:"mobile,omitempty"`
	Disabled   bool      `json:"disabled"`
	ModifiedAt time.Time `json:"modified_at"`
}

// InvoiceRow is a submitted sales invoice summary.
type InvoiceRow struct {
	Name        string          `json:"name"`
	Customer    string          `json:"customer"`
	PostingDate string          `json:"posting_date"`
	Status      string          `json:"status"`
	Currency    string          `json:"currency"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	Outstanding decimal.Decimal `json:"outstanding"`
	ModifiedAt  time.Time       `json:"modified_at"`
}

// PaymentRow is a submitted payment entry summary.
type PaymentRow struct {
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	Party        string          `json:"party,omitempty"`
	PostingDate  string          `json:"posting_date"`
	Amount       decimal.Decimal `json:"amount"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	ModifiedAt   time.Time       `json:"modified_at"`
}

// ProfileRow describes the point-of-sale profile a client bootstraps against.
type ProfileRow struct {
	Name           string   `json:"name"`
	Warehouse      string   `json:"warehouse"`
	Currency       string   `json:"currency"`
	PriceList      string   `json:"price_list"`
	PaymentMethods []string `json:"payment_methods"`
	Users          []string `json:"-"`
}

// CurrencyRow pairs a currency with its resolved rate to the profile
// currency. Rate is null when no conversion could be resolved.
type CurrencyRow struct {
	Code string           `json:"code"`
	Rate *decimal.Decimal `json:"rate"`
}

// ReferenceData is the static lookup set shipped with every bootstrap.
type ReferenceData struct {
	Currencies     []CurrencyRow `json:"currencies"`
	PaymentTerms   []string      `json:"payment_terms"`
	Territories    []string      `json:"territories"`
	CustomerGroups []string      `json:"customer_groups"`
}
