package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects request bodies larger than maxBytes. Streaming bodies
// without a Content-Length are capped by the wrapped reader instead.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			requestID := c.GetString(RequestIDKey)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(shared.CodeValidation, "Request body exceeds maximum allowed size", requestID))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
