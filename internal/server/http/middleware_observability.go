package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"taskboard/internal/observability"
)

// TracingMiddleware opens a server span per request. Routes are recorded by
// their registered pattern, not the raw path, to keep attribute cardinality
// bounded.
func TracingMiddleware(tracer *observability.TracerProvider) gin.HandlerFunc {
	if tracer == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := tracer.StartSpan(c.Request.Context(), observability.SpanHTTPServer,
			attribute.String("http.route", route),
			attribute.String("http.method", c.Request.Method),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
		span.End()
	}
}
