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

// PaymentMutator is the slice of the payment service the handler uses.
type PaymentMutator interface {
	Create(ctx context.Context, actor string, req mutation.CreatePaymentRequest) (json.RawMessage, error)
}

// PaymentHandler serves the payment entry mutation.
type PaymentHandler struct {
	BaseHandler
	payments PaymentMutator
	recorder ActivityRecorder
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments PaymentMutator, recorder ActivityRecorder, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{BaseHandler: NewBaseHandler(logger), payments: payments, recorder: recorder}
}

// RegisterRoutes registers the payment endpoints on the API group.
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments", h.Create)
}

// Create records a payment entry.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req mutation.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	raw, err := h.payments.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var resp mutation.PaymentMutationResponse
	if err := json.Unmarshal(raw, &resp); err == nil {
		h.recorder.Record(c.Request.Context(), actor, "create",
			document.Ref{Kind: document.KindPaymentEntry, ID: resp.Name},
			string(req.Kind)+" "+req.Amount.String()+" "+req.FromCurrency)
	}
	h.Success(c, raw)
}
