package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/interfaces/http/dto"
	"github.com/possync/backend/internal/interfaces/http/middleware"
)

// BaseHandler carries the pieces every endpoint needs: the envelope helpers
// and a logger for the errors clients should not see the details of.
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates the shared handler base.
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func requestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// Success writes a 200 envelope around data.
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data, requestID(c)))
}

// HandleError maps an error onto the envelope. Expected domain errors pass
// through unlogged; anything else is logged with the request ID and masked.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	code := dto.ErrorCode(err)
	status := dto.HTTPStatus(code)

	if !shared.IsExpected(err) {
		h.logger.Error("request failed",
			zap.String("request_id", requestID(c)),
			zap.String("path", c.FullPath()),
			zap.String("code", code),
			zap.Error(err))
	}

	c.JSON(status, dto.NewErrorResponse(code, dto.ErrorMessage(err), requestID(c)))
}

// BindingError writes a 400 envelope with per-field details when the error
// came from the validator.
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	details := middleware.ValidationDetails(err)
	message := "Request validation failed"
	if details == nil {
		// Malformed JSON and type mismatches carry no field breakdown.
		message = err.Error()
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(message, requestID(c), details))
}
