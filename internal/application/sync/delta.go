package sync

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/possync/backend/internal/domain/shared"
)

// Canonical entity family names accepted by Delta.
const (
	FamilyInventory    = "Inventory"
	FamilyCustomer     = "Customer"
	FamilySalesInvoice = "Sales Invoice"
	FamilyPaymentEntry = "Payment Entry"
)

// familyAliases maps the storage-level names older clients send to the
// canonical families. Matching is case-insensitive; both the spaced and the
// underscore spellings stay accepted because deployed clients send either.
var familyAliases = map[string]string{
	"inventory":       FamilyInventory,
	"inventory_item":  FamilyInventory,
	"inventory_items": FamilyInventory,
	"bin":             FamilyInventory,
	"item":            FamilyInventory,
	"item price":      FamilyInventory,
	"item_price":      FamilyInventory,
	"warehouseitem":   FamilyInventory,
	"warehouse_item":  FamilyInventory,
	"warehouse_items": FamilyInventory,
	"stock":           FamilyInventory,
	"customer":        FamilyCustomer,
	"customers":       FamilyCustomer,
	"sales invoice":   FamilySalesInvoice,
	"sales_invoice":   FamilySalesInvoice,
	"salesinvoices":   FamilySalesInvoice,
	"invoice":         FamilySalesInvoice,
	"payment entry":   FamilyPaymentEntry,
	"payment_entry":   FamilyPaymentEntry,
	"paymententries":  FamilyPaymentEntry,
	"payment":         FamilyPaymentEntry,
}

// canonicalFamilies normalizes the requested entity types. An empty request
// means every family. Names outside the alias table are not errors: they are
// served as bare (name, modified, docstatus) listings, so a client asking
// for a type this service has no rich family for keeps syncing.
func canonicalFamilies(requested []string) (families map[string]bool, others []string) {
	families = make(map[string]bool, 4)
	if len(requested) == 0 {
		families[FamilyInventory] = true
		families[FamilyCustomer] = true
		families[FamilySalesInvoice] = true
		families[FamilyPaymentEntry] = true
		return families, nil
	}
	seen := make(map[string]bool)
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if canonical, ok := familyAliases[strings.ToLower(name)]; ok {
			families[canonical] = true
			continue
		}
		if !seen[name] {
			seen[name] = true
			others = append(others, name)
		}
	}
	return families, others
}

// Delta computes incremental change-sets after the client's watermark. The
// protocol is stateless: the same watermark always yields the same families
// of rows, and the client advances its watermark only after storing them.
func (p *Planner) Delta(ctx context.Context, actor string, req DeltaRequest) (*DeltaResponse, error) {
	profile, err := p.authorize(ctx, actor, req.POSProfile)
	if err != nil {
		return nil, err
	}
	families, others := canonicalFamilies(req.EntityTypes)

	watermark := p.now().UTC()
	since := req.ModifiedSince.UTC()
	page := p.page(req.Offset, req.Limit)
	resp := &DeltaResponse{Watermark: watermark}

	if families[FamilyInventory] {
		delta, err := p.inventoryDelta(ctx, profile, since)
		if err != nil {
			return nil, err
		}
		resp.Inventory = delta
	}

	if families[FamilyCustomer] {
		rows, total, err := p.customers.ChangedSince(ctx, since, page)
		if err != nil {
			return nil, err
		}
		paged := shared.NewPagedResult(rows, page, total)
		resp.Customers = &paged
	}

	if families[FamilySalesInvoice] {
		rows, total, err := p.invoices.ChangedSince(ctx, since, page)
		if err != nil {
			return nil, err
		}
		paged := shared.NewPagedResult(rows, page, total)
		resp.Invoices = &paged
	}

	if families[FamilyPaymentEntry] {
		rows, total, err := p.payments.ChangedSince(ctx, since, page)
		if err != nil {
			return nil, err
		}
		paged := shared.NewPagedResult(rows, page, total)
		resp.Payments = &paged
	}

	for _, name := range others {
		stubs, err := p.stubs.StubsChangedSince(ctx, name, since)
		if err != nil {
			return nil, err
		}
		if resp.Others == nil {
			resp.Others = make(map[string][]DocStub, len(others))
		}
		resp.Others[name] = stubs
	}

	return resp, nil
}

// inventoryDelta rebuilds full rows for every item touched since the
// watermark. An inventory row joins stock levels, the item master and the
// price list, so the touched set is the union of all three change signals; a
// per-table diff would miss rows whose other tables changed.
func (p *Planner) inventoryDelta(ctx context.Context, profile *ProfileRow, since time.Time) (*InventoryDelta, error) {
	stock, err := p.inventory.ItemCodesWithStockChanges(ctx, profile.Warehouse, since)
	if err != nil {
		return nil, err
	}
	master, err := p.inventory.ItemCodesWithMasterChanges(ctx, since)
	if err != nil {
		return nil, err
	}
	price, err := p.inventory.ItemCodesWithPriceChanges(ctx, profile.PriceList, since)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(stock)+len(master)+len(price))
	for _, codes := range [][]string{stock, master, price} {
		for _, code := range codes {
			set[code] = true
		}
	}
	if len(set) == 0 {
		return &InventoryDelta{Rows: []InventoryRow{}, Alerts: nil}, nil
	}

	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rows, err := p.inventory.SnapshotRowsByCodes(ctx, profile.Warehouse, profile.PriceList, codes)
	if err != nil {
		return nil, err
	}

	engine, err := p.engine(ctx)
	if err != nil {
		return nil, err
	}
	alerts := engine.Evaluate(profile.Warehouse, snapshotRows(rows))
	return &InventoryDelta{
		Rows:   visibleRows(rows, alerts),
		Alerts: alerts,
	}, nil
}
