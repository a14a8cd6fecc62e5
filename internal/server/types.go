package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/osa911/contact-api/internal/api/handlers"
	"github.com/osa911/contact-api/internal/metrics"
)

// Deps are the collaborators the HTTP layer is built around
type Deps struct {
	// Processor handles validated contact submissions
	Processor handlers.SubmissionProcessor
	// Store backs the health check; nil reports healthy
	Store handlers.Pinger

	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	TracerProvider trace.TracerProvider
}
