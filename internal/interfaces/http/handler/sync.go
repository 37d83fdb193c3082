package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	syncapp "github.com/possync/backend/internal/application/sync"
	"github.com/possync/backend/internal/interfaces/http/middleware"
)

// SyncPlanner is the slice of the planner the sync endpoints use.
type SyncPlanner interface {
	Bootstrap(ctx context.Context, actor string, req syncapp.BootstrapRequest) (*syncapp.BootstrapResponse, error)
	Delta(ctx context.Context, actor string, req syncapp.DeltaRequest) (*syncapp.DeltaResponse, error)
	MyProfiles(ctx context.Context, actor string) ([]syncapp.ProfileRow, error)
}

// SyncHandler serves the bootstrap snapshot and the delta change feed.
type SyncHandler struct {
	BaseHandler
	planner SyncPlanner
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(planner SyncPlanner, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{BaseHandler: NewBaseHandler(logger), planner: planner}
}

// RegisterRoutes registers the sync endpoints on the API group.
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.GET("/bootstrap", h.Bootstrap)
		sync.POST("/delta", h.Delta)
	}
	rg.GET("/pos/profiles", h.MyProfiles)
}

// Bootstrap returns the full paginated snapshot for one profile.
func (h *SyncHandler) Bootstrap(c *gin.Context) {
	var req syncapp.BootstrapRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.planner.Bootstrap(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delta returns changes per entity family after a watermark.
func (h *SyncHandler) Delta(c *gin.Context) {
	var req syncapp.DeltaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.planner.Delta(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MyProfiles lists the profiles the authenticated user may operate.
func (h *SyncHandler) MyProfiles(c *gin.Context) {
	rows, err := h.planner.MyProfiles(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if rows == nil {
		rows = []syncapp.ProfileRow{}
	}
	h.Success(c, gin.H{"profiles": rows})
}
