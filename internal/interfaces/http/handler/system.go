package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/interfaces/http/dto"
)

// HealthChecker reports database liveness.
type HealthChecker interface {
	Ping() error
}

// SystemHandler serves health and the capabilities probe. Both are outside
// the authenticated group: clients call them before they have a token.
type SystemHandler struct {
	BaseHandler
	db   HealthChecker
	caps document.Capabilities
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(db HealthChecker, caps document.Capabilities, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{BaseHandler: NewBaseHandler(logger), db: db, caps: caps}
}

// RegisterRoutes registers the system endpoints on the given group.
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/capabilities", h.Capabilities)
}

// Health reports whether the service can reach its database.
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable,
			dto.NewErrorResponse("UNAVAILABLE", "Database is unreachable", requestID(c)))
		return
	}
	h.Success(c, gin.H{"status": "ok"})
}

// Capabilities returns the schema version and the feature set probed at
// startup, so clients can adapt before their first sync.
func (h *SystemHandler) Capabilities(c *gin.Context) {
	h.Success(c, gin.H{
		"schema_version": h.caps.SchemaVersion,
		"features": gin.H{
			document.FeatureCustomerCredit: h.caps.Supports(document.FeatureCustomerCredit),
			document.FeatureItemBarcodes:   h.caps.Supports(document.FeatureItemBarcodes),
			document.FeatureActivityLog:    h.caps.Supports(document.FeatureActivityLog),
		},
	})
}
