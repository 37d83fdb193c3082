package sync

import (
	"time"

	"github.com/possync/backend/internal/domain/alert"
	"github.com/possync/backend/internal/domain/shared"
)

// BootstrapRequest asks for a full paginated snapshot. The page window is
// applied to each entity family independently.
type BootstrapRequest struct {
	POSProfile string `form:"pos_profile" binding:"required,min=1,max=140"`
	Offset     int    `form:"offset" binding:"min=0"`
	Limit      int    `form:"limit" binding:"min=0,max=1000"`
}

// BootstrapResponse is one consistent snapshot. Each family reflects its own
// read; the contract is eventual convergence under repeated delta pulls, not
// a point-in-time global snapshot.
type BootstrapResponse struct {
	Profile   ProfileRow                       `json:"profile"`
	Inventory shared.PagedResult[InventoryRow] `json:"inventory"`
	Alerts    []alert.Result                   `json:"alerts"`
	Customers shared.PagedResult[CustomerRow]  `json:"customers"`
	Suppliers shared.PagedResult[SupplierRow]  `json:"suppliers"`
	Invoices  shared.PagedResult[InvoiceRow]   `json:"invoices"`
	Payments  shared.PagedResult[PaymentRow]   `json:"payments"`
	Reference ReferenceData                    `json:"reference"`
	Watermark time.Time                        `json:"watermark"`
}

// DeltaRequest asks for changes after a watermark. EntityTypes accepts the
// canonical family names or their storage-level aliases; empty means all.
type DeltaRequest struct {
	POSProfile    string    `json:"pos_profile" binding:"required,min=1,max=140"`
	ModifiedSince time.Time `json:"modified_since" binding:"required"`
	EntityTypes   []string  `json:"entity_types"`
	Offset        int       `json:"offset" binding:"min=0"`
	Limit         int       `json:"limit" binding:"min=0,max=1000"`
}

// InventoryDelta carries rebuilt rows for every item touched since the
// watermark, with alerts recomputed over that set.
type InventoryDelta struct {
	Rows   []InventoryRow `json:"rows"`
	Alerts []alert.Result `json:"alerts"`
}

// DeltaResponse holds per-family incremental results. Families the client did
// not ask for are null. Others carries bare change stubs for requested entity
// types outside the rich families, keyed by the name the client sent.
type DeltaResponse struct {
	Inventory *InventoryDelta                  `json:"inventory,omitempty"`
	Customers *shared.PagedResult[CustomerRow] `json:"customers,omitempty"`
	Invoices  *shared.PagedResult[InvoiceRow]  `json:"invoices,omitempty"`
	Payments  *shared.PagedResult[PaymentRow]  `json:"payments,omitempty"`
	Others    map[string][]DocStub             `json:"others,omitempty"`
	Watermark time.Time                        `json:"watermark"`
}
