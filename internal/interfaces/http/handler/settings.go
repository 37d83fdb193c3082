package handler

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/possync/backend/internal/application/mutation"
	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/infrastructure/config"
	"github.com/possync/backend/internal/interfaces/http/middleware"
)

// SettingsMutator is the slice of the settings service the handler uses.
type SettingsMutator interface {
	Update(ctx context.Context, actor string, req mutation.UpdateSettingsRequest) (json.RawMessage, error)
}

// SettingsSource reads the cached settings snapshot.
type SettingsSource interface {
	Get() (config.Settings, uint64)
}

// SettingsHandler serves the operator-editable settings document.
type SettingsHandler struct {
	BaseHandler
	settings SettingsMutator
	source   SettingsSource
	perms    document.PermissionChecker
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings SettingsMutator, source SettingsSource, perms document.PermissionChecker, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{BaseHandler: NewBaseHandler(logger), settings: settings, source: source, perms: perms}
}

// RegisterRoutes registers the settings endpoints on the API group.
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	{
		settings.GET("", h.Get)
		settings.PUT("", h.Update)
	}
}

// Get returns the current settings snapshot with its version.
func (h *SettingsHandler) Get(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !h.perms.HasPermission(c.Request.Context(), actor, document.KindPOSSettings, document.ActionRead) {
		h.HandleError(c, shared.PermissionDenied("Not permitted to read settings"))
		return
	}

	current, version := h.source.Get()
	h.Success(c, gin.H{"settings": current, "version": version})
}

// Update replaces the settings document through the idempotent executor.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req mutation.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	raw, err := h.settings.Update(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, raw)
}
