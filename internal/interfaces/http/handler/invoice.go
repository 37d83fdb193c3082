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

// ActivityRecorder appends feed entries after successful mutations. Recording
// is fire-and-forget; implementations must never return an error to the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, actor, action string, ref document.Ref, detail string)
}

// InvoiceMutator is the slice of the invoice service the handler uses.
type InvoiceMutator interface {
	CreateSubmit(ctx context.Context, actor string, req mutation.CreateInvoiceRequest) (json.RawMessage, error)
	Cancel(ctx context.Context, actor string, req mutation.CancelInvoiceRequest) (json.RawMessage, error)
}

// InvoiceHandler serves the sales invoice mutations.
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceMutator
	recorder ActivityRecorder
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoices InvoiceMutator, recorder ActivityRecorder, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: NewBaseHandler(logger), invoices: invoices, recorder: recorder}
}

// RegisterRoutes registers the invoice endpoints on the API group.
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.CreateSubmit)
		invoices.POST("/cancel", h.Cancel)
	}
}

// CreateSubmit creates and submits a sales invoice in one call.
func (h *InvoiceHandler) CreateSubmit(c *gin.Context) {
	var req mutation.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	raw, err := h.invoices.CreateSubmit(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, "create",
		document.Ref{Kind: document.KindSalesInvoice, ID: invoiceName(raw)},
		"POS invoice for "+req.Customer)
	h.Success(c, raw)
}

// Cancel voids a submitted invoice.
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	var req mutation.CancelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	raw, err := h.invoices.Cancel(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, "cancel",
		document.Ref{Kind: document.KindSalesInvoice, ID: req.Name}, req.Reason)
	h.Success(c, raw)
}

// invoiceName reads the document name out of the stored mutation response.
func invoiceName(raw json.RawMessage) string {
	var resp mutation.InvoiceMutationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return ""
	}
	return resp.Name
}
