package mutation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/idempotency"
	"github.com/possync/backend/internal/domain/shared"
)

// Session statuses as stored on the POS Session document.
const (
	SessionOpen   = "Open"
	SessionClosed = "Closed"
)

// SessionService opens and closes point-of-sale sessions.
type SessionService struct {
	executor *Executor
	docs     document.Store
	perms    document.PermissionChecker
	now      func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(executor *Executor, docs document.Store, perms document.PermissionChecker) *SessionService {
	return &SessionService{
		executor: executor,
		docs:     docs,
		perms:    perms,
		now:      time.Now,
	}
}

// Open starts a session for the actor on a profile. When a session for the
// same (profile, user) is already open, that session is returned instead of
// opening a second one, so a crashed client can always resume.
func (s *SessionService) Open(ctx context.Context, actor string, req OpenSessionRequest) (json.RawMessage, error) {
	if !s.perms.HasPermission(ctx, actor, document.KindPOSSession, document.ActionCreate) {
		return nil, shared.PermissionDenied("Not permitted to open sessions")
	}
	if req.OpeningFloat.IsNegative() {
		return nil, shared.ValidationFailed("Opening float cannot be negative")
	}

	payload, err := payloadOf(req)
	if err != nil {
		return nil, err
	}

	return s.executor.Execute(ctx, Request{
		ClientKey: req.ClientRequestID,
		Endpoint:  "pos_session.open",
		Actor:     actor,
		Payload:   payload,
	}, func(ctx context.Context) (any, idempotency.Reference, error) {
		existing, _, err := s.docs.List(ctx, document.KindPOSSession, document.ListQuery{
			Filters: map[string]any{
				"pos_profile": req.POSProfile,
				"user":        actor,
				"status":      SessionOpen,
			},
			Page: shared.Page{Limit: 1},
		})
		if err != nil {
			return nil, idempotency.Reference{}, err
		}
		if len(existing) > 0 {
			id := stringField(existing[0], "name")
			resp := SessionMutationResponse{SessionID: id, Status: SessionOpen, Reused: true}
			return resp, idempotency.Reference{DocType: string(document.KindPOSSession), DocID: id}, nil
		}

		ref, err := s.docs.Insert(ctx, document.KindPOSSession, document.Fields{
			"pos_profile":   req.POSProfile,
			"user":          actor,
			"status":        SessionOpen,
			"opening_float": req.OpeningFloat,
			"opened_at":     s.now().UTC(),
		})
		if err != nil {
			return nil, idempotency.Reference{}, err
		}
		resp := SessionMutationResponse{SessionID: ref.ID, Status: SessionOpen, Reused: false}
		return resp, idempotency.Reference{DocType: string(ref.Kind), DocID: ref.ID}, nil
	})
}

// Close ends an open session with the counted closing total. Closing an
// already closed session is a validation error; replaying the original close
// request is not, because the executor returns the stored response.
func (s *SessionService) Close(ctx context.Context, actor string, req CloseSessionRequest) (json.RawMessage, error) {
	if !s.perms.HasPermission(ctx, actor, document.KindPOSSession, document.ActionWrite) {
		return nil, shared.PermissionDenied("Not permitted to close sessions")
	}

	payload, err := payloadOf(req)
	if err != nil {
		return nil, err
	}

	return s.executor.Execute(ctx, Request{
		ClientKey: req.ClientRequestID,
		Endpoint:  "pos_session.close",
		Actor:     actor,
		Payload:   payload,
	}, func(ctx context.Context) (any, idempotency.Reference, error) {
		fields, err := s.docs.Get(ctx, document.KindPOSSession, req.SessionID)
		if err != nil {
			return nil, idempotency.Reference{}, err
		}
		if stringField(fields, "status") != SessionOpen {
			return nil, idempotency.Reference{}, shared.ValidationFailed(fmt.Sprintf("Session %s is not open", req.SessionID))
		}

		ref := document.Ref{Kind: document.KindPOSSession, ID: req.SessionID}
		err = s.docs.Save(ctx, ref, document.Fields{
			"status":        SessionClosed,
			"closing_total": req.ClosingTotal,
			"closed_at":     s.now().UTC(),
		})
		if err != nil {
			return nil, idempotency.Reference{}, err
		}
		resp := SessionMutationResponse{SessionID: req.SessionID, Status: SessionClosed, Reused: false}
		return resp, idempotency.Reference{DocType: string(ref.Kind), DocID: ref.ID}, nil
	})
}
