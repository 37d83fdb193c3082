package handler

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/possync/backend/internal/application/mutation"
	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/interfaces/http/middleware"
)

// SessionMutator is the slice of the session service the handler uses.
type SessionMutator interface {
	Open(ctx context.Context, actor string, req mutation.OpenSessionRequest) (json.RawMessage, error)
	Close(ctx context.Context, actor string, req mutation.CloseSessionRequest) (json.RawMessage, error)
}

// SessionHandler serves the session lifecycle mutations.
type SessionHandler struct {
	BaseHandler
	sessions SessionMutator
	recorder ActivityRecorder
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions SessionMutator, recorder ActivityRecorder, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{BaseHandler: NewBaseHandler(logger), sessions: sessions, recorder: recorder}
}

// RegisterRoutes registers the session endpoints on the API group.
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	{
		sessions.POST("/open", h.Open)
		sessions.POST("/close", h.Close)
	}
}

// Open starts a session, or returns the already open one for the same
// profile and user.
func (h *SessionHandler) Open(c *gin.Context) {
	var req mutation.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	raw, err := h.sessions.Open(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var resp mutation.SessionMutationResponse
	if err := json.Unmarshal(raw, &resp); err == nil && !resp.Reused {
		h.recorder.Record(c.Request.Context(), actor, "open",
			document.Ref{Kind: document.KindPOSSession, ID: resp.SessionID},
			"Opened on "+req.POSProfile)
	}
	h.Success(c, raw)
}

// Close ends an open session with the counted totals.
func (h *SessionHandler) Close(c *gin.Context) {
	var req mutation.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	raw, err := h.sessions.Close(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, "close",
		document.Ref{Kind: document.KindPOSSession, ID: req.SessionID}, "")
	h.Success(c, raw)
}
