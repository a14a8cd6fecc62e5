package telemetry

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Middleware starts a server span per request. A nil provider uses the
// global one.
func Middleware(tp trace.TracerProvider) gin.HandlerFunc {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return otelgin.Middleware(ServiceName,
		otelgin.WithTracerProvider(tp),
		otelgin.WithPropagators(otel.GetTextMapPropagator()),
	)
}
