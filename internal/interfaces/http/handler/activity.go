package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/possync/backend/internal/application/activity"
	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/interfaces/http/middleware"
)

// FeedReader pages the activity feed.
type FeedReader interface {
	Recent(ctx context.Context, viewer string, req activity.FeedRequest) (*activity.FeedResponse, error)
}

// ActivityHandler serves the recent activity feed.
type ActivityHandler struct {
	BaseHandler
	feed  FeedReader
	perms document.PermissionChecker
	caps  document.Capabilities
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(feed FeedReader, perms document.PermissionChecker, caps document.Capabilities, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{BaseHandler: NewBaseHandler(logger), feed: feed, perms: perms, caps: caps}
}

// RegisterRoutes registers the activity endpoints on the API group.
func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activity", h.Recent)
}

// Recent returns one page of relevant feed entries before the cursor.
func (h *ActivityHandler) Recent(c *gin.Context) {
	if !h.caps.Supports(document.FeatureActivityLog) {
		h.HandleError(c, shared.NotFound("Activity log is not available on this installation"))
		return
	}

	var req activity.FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	if !h.perms.HasPermission(c.Request.Context(), actor, document.KindSalesInvoice, document.ActionRead) {
		h.HandleError(c, shared.PermissionDenied("Not permitted to read the activity feed"))
		return
	}

	resp, err := h.feed.Recent(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
