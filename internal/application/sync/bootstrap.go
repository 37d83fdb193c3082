package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/possync/backend/internal/domain/exchange"
	"github.com/possync/backend/internal/domain/shared"
)

// Bootstrap assembles the full snapshot a fresh client starts from. Every
// entity family is fetched independently with its own pagination; the
// response's watermark is the server time the client feeds into its first
// delta pull.
func (p *Planner) Bootstrap(ctx context.Context, actor string, req BootstrapRequest) (*BootstrapResponse, error) {
	profile, err := p.authorize(ctx, actor, req.POSProfile)
	if err != nil {
		return nil, err
	}
	// Watermark is taken before any reads, so changes landing mid-bootstrap
	// are re-delivered by the first delta rather than lost.
	watermark := p.now().UTC()
	page := p.page(req.Offset, req.Limit)

	engine, err := p.engine(ctx)
	if err != nil {
		return nil, err
	}

	rows, total, err := p.inventory.SnapshotRows(ctx, profile.Warehouse, profile.PriceList, page)
	if err != nil {
		return nil, err
	}
	alerts := engine.Evaluate(profile.Warehouse, snapshotRows(rows))
	items := visibleRows(rows, alerts)

	customers, customerTotal, err := p.customers.ListWithOutstanding(ctx, CustomerFilter{}, page)
	if err != nil {
		return nil, err
	}

	suppliers, supplierTotal, err := p.suppliers.List(ctx, page)
	if err != nil {
		return nil, err
	}

	invoices, invoiceTotal, err := p.windowedInvoices(ctx, page)
	if err != nil {
		return nil, err
	}

	paymentCutoff := watermark.AddDate(0, 0, -p.opts.PaymentWindowDays)
	payments, paymentTotal, err := p.payments.PostedSince(ctx, paymentCutoff, page)
	if err != nil {
		return nil, err
	}

	reference, err := p.referenceData(ctx, profile.Currency, watermark)
	if err != nil {
		return nil, err
	}

	return &BootstrapResponse{
		Profile:   *profile,
		Inventory: shared.NewPagedResult(items, page, total),
		Alerts:    alerts,
		Customers: shared.NewPagedResult(customers, page, customerTotal),
		Suppliers: shared.NewPagedResult(suppliers, page, supplierTotal),
		Invoices:  shared.NewPagedResult(invoices, page, invoiceTotal),
		Payments:  shared.NewPagedResult(payments, page, paymentTotal),
		Reference: reference,
		Watermark: watermark,
	}, nil
}

// windowedInvoices unions open invoices from the last N days with recently
// paid ones from the last M days, de-duplicated by invoice name. An invoice
// both open-then-paid inside the windows appears once, with the open fetch
// winning because the client cares about its current state.
func (p *Planner) windowedInvoices(ctx context.Context, page shared.Page) ([]InvoiceRow, int64, error) {
	now := p.now()
	openCutoff := now.AddDate(0, 0, -p.opts.OpenInvoiceWindowDays)
	paidCutoff := now.AddDate(0, 0, -p.opts.PaidInvoiceWindowDays)

	open, openTotal, err := p.invoices.OpenSince(ctx, openCutoff, page)
	if err != nil {
		return nil, 0, err
	}
	paid, paidTotal, err := p.invoices.PaidSince(ctx, paidCutoff, page)
	if err != nil {
		return nil, 0, err
	}

	seen := make(map[string]bool, len(open))
	merged := make([]InvoiceRow, 0, len(open)+len(paid))
	for _, inv := range open {
		seen[inv.Name] = true
		merged = append(merged, inv)
	}
	var duplicates int64
	for _, inv := range paid {
		if seen[inv.Name] {
			duplicates++
			continue
		}
		merged = append(merged, inv)
	}
	// The union total is approximate when the two windows overlap beyond this
	// page; clients page until has_more is false, so an over-estimate is safe.
	total := openTotal + paidTotal - duplicates
	return merged, total, nil
}

// referenceData assembles the static lookup tables plus a resolved rate from
// each known currency into the profile currency.
func (p *Planner) referenceData(ctx context.Context, profileCurrency string, asOf time.Time) (ReferenceData, error) {
	codes, err := p.reference.CurrencyCodes(ctx)
	if err != nil {
		return ReferenceData{}, err
	}

	memo := exchange.NewMemo(p.rates)
	currencies := make([]CurrencyRow, 0, len(codes))
	for _, code := range codes {
		rate, err := memo.Resolve(ctx, code, profileCurrency, asOf)
		if err != nil {
			// A malformed stored code must not sink the whole bootstrap.
			p.logger.Warn("currency rate unresolved", zap.String("currency", code), zap.Error(err))
			rate = nil
		}
		currencies = append(currencies, CurrencyRow{Code: code, Rate: rate})
	}

	terms, err := p.reference.PaymentTerms(ctx)
	if err != nil {
		return ReferenceData{}, err
	}
	territories, err := p.reference.Territories(ctx)
	if err != nil {
		return ReferenceData{}, err
	}
	groups, err := p.reference.CustomerGroups(ctx)
	if err != nil {
		return ReferenceData{}, err
	}

	return ReferenceData{
		Currencies:     currencies,
		PaymentTerms:   terms,
		Territories:    territories,
		CustomerGroups: groups,
	}, nil
}
