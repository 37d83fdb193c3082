package mutation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/exchange"
	"github.com/possync/backend/internal/domain/idempotency"
	"github.com/possync/backend/internal/domain/shared"
)

// InvoiceService handles point-of-sale invoice mutations.
type InvoiceService struct {
	executor     *Executor
	docs         document.Store
	perms        document.PermissionChecker
	rates        *exchange.Resolver
	baseCurrency string
	now          func() time.Time
}

// NewInvoiceService creates a new InvoiceService. baseCurrency is the company
// currency every invoice's conversion rate is expressed against.
func NewInvoiceService(executor *Executor, docs document.Store, perms document.PermissionChecker, rates *exchange.Resolver, baseCurrency string) *InvoiceService {
	return &InvoiceService{
		executor:     executor,
		docs:         docs,
		perms:        perms,
		rates:        rates,
		baseCurrency: baseCurrency,
		now:          time.Now,
	}
}

// CreateSubmit validates, creates and submits a sales invoice as one logical
// operation. Retries with the same client_request_id and payload replay the
// stored summary without creating a second invoice.
func (s *InvoiceService) CreateSubmit(ctx context.Context, actor string, req CreateInvoiceRequest) (json.RawMessage, error) {
	if !s.perms.HasPermission(ctx, actor, document.KindSalesInvoice, document.ActionCreate) {
		return nil, shared.PermissionDenied("Not permitted to create sales invoices")
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	payload, err := payloadOf(req)
	if err != nil {
		return nil, err
	}

	return s.executor.Execute(ctx, Request{
		ClientKey: req.ClientRequestID,
		Endpoint:  "sales_invoice.create_submit",
		Actor:     actor,
		Payload:   payload,
	}, func(ctx context.Context) (any, idempotency.Reference, error) {
		return s.apply(ctx, req)
	})
}

// Cancel voids a submitted invoice.
func (s *InvoiceService) Cancel(ctx context.Context, actor string, req CancelInvoiceRequest) (json.RawMessage, error) {
	if !s.perms.HasPermission(ctx, actor, document.KindSalesInvoice, document.ActionCancel) {
		return nil, shared.PermissionDenied("Not permitted to cancel sales invoices")
	}

	payload, err := payloadOf(req)
	if err != nil {
		return nil, err
	}

	return s.executor.Execute(ctx, Request{
		ClientKey: req.ClientRequestID,
		Endpoint:  "sales_invoice.cancel",
		Actor:     actor,
		Payload:   payload,
	}, func(ctx context.Context) (any, idempotency.Reference, error) {
		ref := document.Ref{Kind: document.KindSalesInvoice, ID: req.Name}
		fields, err := s.docs.Get(ctx, document.KindSalesInvoice, req.Name)
		if err != nil {
			return nil, idempotency.Reference{}, err
		}
		if docstatusOf(fields) != document.DocstatusSubmitted {
			return nil, idempotency.Reference{}, shared.ValidationFailed(fmt.Sprintf("Invoice %s is not submitted and cannot be cancelled", req.Name))
		}
		if err := s.docs.Cancel(ctx, ref); err != nil {
			return nil, idempotency.Reference{}, err
		}
		resp := InvoiceMutationResponse{
			Name:       req.Name,
			Docstatus:  int(document.DocstatusCancelled),
			GrandTotal: grandTotalOf(fields),
			Currency:   stringField(fields, "currency"),
		}
		return resp, idempotency.Reference{DocType: string(document.KindSalesInvoice), DocID: req.Name}, nil
	})
}

func (s *InvoiceService) validate(req CreateInvoiceRequest) error {
	for _, item := range req.Items {
		if !item.Qty.IsPositive() {
			return shared.ValidationFailed(fmt.Sprintf("Quantity for item %s must be positive", item.ItemCode))
		}
		if item.Rate.IsNegative() {
			return shared.ValidationFailed(fmt.Sprintf("Rate for item %s cannot be negative", item.ItemCode))
		}
	}
	for _, p := range req.Payments {
		if !p.Amount.IsPositive() {
			return shared.ValidationFailed(fmt.Sprintf("Payment amount for %s must be positive", p.Method))
		}
	}
	return nil
}

func (s *InvoiceService) apply(ctx context.Context, req CreateInvoiceRequest) (any, idempotency.Reference, error) {
	currency := req.Currency
	if currency == "" {
		currency = s.baseCurrency
	}
	postingDate := req.PostingDate
	if postingDate == "" {
		postingDate = s.now().Format("2006-01-02")
	}

	asOf, err := time.Parse("2006-01-02", postingDate)
	if err != nil {
		return nil, idempotency.Reference{}, shared.ValidationFailed("Invalid posting date")
	}
	rate, err := s.rates.Resolve(ctx, currency, s.baseCurrency, asOf)
	if err != nil {
		return nil, idempotency.Reference{}, err
	}
	if rate == nil {
		return nil, idempotency.Reference{}, shared.ValidationFailed(fmt.Sprintf("No exchange rate from %s to %s on %s", currency, s.baseCurrency, postingDate))
	}

	grandTotal := decimal.Zero
	items := make([]map[string]any, 0, len(req.Items))
	for _, item := range req.Items {
		grandTotal = grandTotal.Add(item.Qty.Mul(item.Rate))
		items = append(items, map[string]any{
			"item_code": item.ItemCode,
			"qty":       item.Qty,
			"rate":      item.Rate,
			"uom":       item.UOM,
			"warehouse": req.Warehouse,
		})
	}
	payments := make([]map[string]any, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, map[string]any{
			"method": p.Method,
			"amount": p.Amount,
		})
	}

	ref, err := s.docs.InsertSubmitted(ctx, document.KindSalesInvoice, document.Fields{
		"customer":        req.Customer,
		"pos_profile":     req.POSProfile,
		"warehouse":       req.Warehouse,
		"currency":        currency,
		"conversion_rate": *rate,
		"posting_date":    postingDate,
		"grand_total":     grandTotal,
		"items":           items,
		"payments":        payments,
	})
	if err != nil {
		return nil, idempotency.Reference{}, err
	}

	resp := InvoiceMutationResponse{
		Name:       ref.ID,
		Docstatus:  int(document.DocstatusSubmitted),
		GrandTotal: grandTotal,
		Currency:   currency,
	}
	return resp, idempotency.Reference{DocType: string(ref.Kind), DocID: ref.ID}, nil
}

// docstatusOf reads the submission state from a loaded document, defaulting to draft.
func docstatusOf(fields document.Fields) document.Docstatus {
	switch v := fields["docstatus"].(type) {
	case document.Docstatus:
		return v
	case int:
		return document.Docstatus(v)
	case int64:
		return document.Docstatus(v)
	case float64:
		return document.Docstatus(int(v))
	default:
		return document.DocstatusDraft
	}
}

func grandTotalOf(fields document.Fields) decimal.Decimal {
	switch v := fields["grand_total"].(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}

func stringField(fields document.Fields, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}
