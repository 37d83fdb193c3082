package mutation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/exchange"
	"github.com/possync/backend/internal/domain/idempotency"
	"github.com/possync/backend/internal/domain/shared"
)

// PaymentService records payment entries: money received from customers, paid
// out to suppliers, or moved between company accounts.
type PaymentService struct {
	executor *Executor
	docs     document.Store
	perms    document.PermissionChecker
	rates    *exchange.Resolver
	now      func() time.Time
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(executor *Executor, docs document.Store, perms document.PermissionChecker, rates *exchange.Resolver) *PaymentService {
	return &PaymentService{
		executor: executor,
		docs:     docs,
		perms:    perms,
		rates:    rates,
		now:      time.Now,
	}
}

// Create validates and submits one payment entry. The exchange rate is taken
// from the request when supplied, otherwise resolved for the posting date; an
// unresolvable rate fails the mutation rather than defaulting to 1.
func (s *PaymentService) Create(ctx context.Context, actor string, req CreatePaymentRequest) (json.RawMessage, error) {
	if !s.perms.HasPermission(ctx, actor, document.KindPaymentEntry, document.ActionCreate) {
		return nil, shared.PermissionDenied("Not permitted to create payment entries")
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
		Endpoint:  "payment_entry.create",
		Actor:     actor,
		Payload:   payload,
	}, func(ctx context.Context) (any, idempotency.Reference, error) {
		return s.apply(ctx, req)
	})
}

func (s *PaymentService) validate(req CreatePaymentRequest) error {
	if !req.Amount.IsPositive() {
		return shared.ValidationFailed("Payment amount must be positive")
	}
	switch req.Kind {
	case PaymentReceive, PaymentPay:
		if req.Party == "" {
			return shared.ValidationFailed(fmt.Sprintf("A %s payment requires a party", req.Kind))
		}
	case PaymentInternalTransfer:
		if req.FromAccount == "" || req.ToAccount == "" {
			return shared.ValidationFailed("An internal transfer requires both accounts")
		}
	}
	if req.ExchangeRate.IsNegative() {
		return shared.ValidationFailed("Exchange rate cannot be negative")
	}
	return nil
}

func (s *PaymentService) apply(ctx context.Context, req CreatePaymentRequest) (any, idempotency.Reference, error) {
	postingDate := req.PostingDate
	if postingDate == "" {
		postingDate = s.now().Format("2006-01-02")
	}
	asOf, err := time.Parse("2006-01-02", postingDate)
	if err != nil {
		return nil, idempotency.Reference{}, shared.ValidationFailed("Invalid posting date")
	}

	rate := req.ExchangeRate
	if rate.IsZero() {
		resolved, err := s.rates.Resolve(ctx, req.FromCurrency, req.ToCurrency, asOf)
		if err != nil {
			return nil, idempotency.Reference{}, err
		}
		if resolved == nil {
			return nil, idempotency.Reference{}, shared.ValidationFailed(fmt.Sprintf("No exchange rate from %s to %s on %s", req.FromCurrency, req.ToCurrency, postingDate))
		}
		rate = *resolved
	}

	if req.InvoiceName != "" {
		if _, err := s.docs.Get(ctx, document.KindSalesInvoice, req.InvoiceName); err != nil {
			return nil, idempotency.Reference{}, shared.LinkViolation(fmt.Sprintf("Invoice %s does not exist", req.InvoiceName))
		}
	}

	ref, err := s.docs.InsertSubmitted(ctx, document.KindPaymentEntry, document.Fields{
		"payment_type":    string(req.Kind),
		"party":           req.Party,
		"party_type":      req.PartyType,
		"paid_amount":     req.Amount,
		"received_amount": req.Amount.Mul(rate),
		"from_currency":   req.FromCurrency,
		"to_currency":     req.ToCurrency,
		"exchange_rate":   rate,
		"paid_from":       req.FromAccount,
		"paid_to":         req.ToAccount,
		"posting_date":    postingDate,
		"reference_no":    req.ReferenceNo,
		"against_invoice": req.InvoiceName,
	})
	if err != nil {
		return nil, idempotency.Reference{}, err
	}

	resp := PaymentMutationResponse{
		Name:         ref.ID,
		Docstatus:    int(document.DocstatusSubmitted),
		Kind:         req.Kind,
		Amount:       req.Amount,
		ExchangeRate: rate,
	}
	return resp, idempotency.Reference{DocType: string(ref.Kind), DocID: ref.ID}, nil
}
