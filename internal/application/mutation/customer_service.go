package mutation

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/idempotency"
	"github.com/possync/backend/internal/domain/shared"
)

// CustomerService upserts customers captured at the point of sale.
type CustomerService struct {
	executor *Executor
	docs     document.Store
	perms    document.PermissionChecker
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(executor *Executor, docs document.Store, perms document.PermissionChecker) *CustomerService {
	return &CustomerService{
		executor: executor,
		docs:     docs,
		perms:    perms,
	}
}

// Upsert creates a customer by code, or patches the existing one. Offline
// clients capture walk-in customers locally and push them on reconnect, so
// the same upsert arriving twice must converge on one customer record.
func (s *CustomerService) Upsert(ctx context.Context, actor string, req UpsertCustomerRequest) (json.RawMessage, error) {
	if !s.perms.HasPermission(ctx, actor, document.KindCustomer, document.ActionWrite) {
		return nil, shared.PermissionDenied("Not permitted to modify customers")
	}

	payload, err := payloadOf(req)
	if err != nil {
		return nil, err
	}

	return s.executor.Execute(ctx, Request{
		ClientKey: req.ClientRequestID,
		Endpoint:  "customer.upsert",
		Actor:     actor,
		Payload:   payload,
	}, func(ctx context.Context) (any, idempotency.Reference, error) {
		fields := document.Fields{
			"code":           req.Code,
			"customer_name":  req.Name,
			"mobile":         req.Mobile,
			"email":          req.Email,
			"territory":      req.Territory,
			"customer_group": req.CustomerGroup,
		}

		existing, err := s.docs.Get(ctx, document.KindCustomer, req.Code)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, idempotency.Reference{}, err
		}

		if existing != nil {
			ref := document.Ref{Kind: document.KindCustomer, ID: req.Code}
			if err := s.docs.Save(ctx, ref, fields); err != nil {
				return nil, idempotency.Reference{}, err
			}
			resp := CustomerMutationResponse{Name: req.Code, Created: false}
			return resp, idempotency.Reference{DocType: string(ref.Kind), DocID: ref.ID}, nil
		}

		ref, err := s.docs.Insert(ctx, document.KindCustomer, fields)
		if err != nil {
			return nil, idempotency.Reference{}, err
		}
		resp := CustomerMutationResponse{Name: ref.ID, Created: true}
		return resp, idempotency.Reference{DocType: string(ref.Kind), DocID: ref.ID}, nil
	})
}
