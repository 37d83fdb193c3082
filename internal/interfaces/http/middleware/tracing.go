package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps every request in a server span. A nil no-op is returned when
// tracing is disabled so the chain composes the same either way.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(serviceName)
}

// TraceIDHeader exposes the active trace id to the client for support
// correlation.
func TraceIDHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanContextFromContext(c.Request.Context())
		if span.HasTraceID() {
			c.Writer.Header().Set("X-Trace-ID", span.TraceID().String())
		}
		c.Next()
	}
}
