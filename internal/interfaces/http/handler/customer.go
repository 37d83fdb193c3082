package handler

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/possync/backend/internal/application/mutation"
	syncapp "github.com/possync/backend/internal/application/sync"
	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/interfaces/http/middleware"
)

// CustomerMutator is the slice of the customer service the handler uses.
type CustomerMutator interface {
	Upsert(ctx context.Context, actor string, req mutation.UpsertCustomerRequest) (json.RawMessage, error)
}

// CustomerLister reads customers with their outstanding balances.
type CustomerLister interface {
	ListWithOutstanding(ctx context.Context, filter syncapp.CustomerFilter, page shared.Page) ([]syncapp.CustomerRow, int64, error)
}

// listCustomersRequest pages the portfolio listing, optionally narrowed to
// one territory.
type listCustomersRequest struct {
	Territory string `form:"territory" binding:"max=140"`
	Offset    int    `form:"offset" binding:"min=0"`
	Limit     int    `form:"limit" binding:"min=0,max=1000"`
}

// CustomerHandler serves the customer upsert and the portfolio listing.
type CustomerHandler struct {
	BaseHandler
	customers CustomerMutator
	lister    CustomerLister
	perms     document.PermissionChecker
	recorder  ActivityRecorder
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customers CustomerMutator, lister CustomerLister, perms document.PermissionChecker, recorder ActivityRecorder, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		BaseHandler: NewBaseHandler(logger),
		customers:   customers,
		lister:      lister,
		perms:       perms,
		recorder:    recorder,
	}
}

// RegisterRoutes registers the customer endpoints on the API group.
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Upsert)
		customers.GET("", h.List)
	}
}

// Upsert creates a customer or patches the one matched by code.
func (h *CustomerHandler) Upsert(c *gin.Context) {
	var req mutation.UpsertCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	raw, err := h.customers.Upsert(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	action := "update"
	var resp mutation.CustomerMutationResponse
	if err := json.Unmarshal(raw, &resp); err == nil && resp.Created {
		action = "create"
	}
	h.recorder.Record(c.Request.Context(), actor, action,
		document.Ref{Kind: document.KindCustomer, ID: req.Code}, req.Name)
	h.Success(c, raw)
}

// List pages customers together with their outstanding balances.
func (h *CustomerHandler) List(c *gin.Context) {
	var req listCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	if !h.perms.HasPermission(c.Request.Context(), actor, document.KindCustomer, document.ActionRead) {
		h.HandleError(c, shared.PermissionDenied("Not permitted to read customers"))
		return
	}

	page := shared.Page{Offset: req.Offset, Limit: req.Limit}.Normalize(100, 500)
	filter := syncapp.CustomerFilter{Territory: req.Territory}
	rows, total, err := h.lister.ListWithOutstanding(c.Request.Context(), filter, page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shared.NewPagedResult(rows, page, total))
}
