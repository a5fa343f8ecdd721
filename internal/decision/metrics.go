package decision

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/ericogr/creature-arena/internal/decision"

type metrics struct {
	requests  metric.Int64Counter
	fallbacks metric.Int64Counter
}

// newMetrics registers the pipeline counters. A nil meter uses the global
// provider, which is a no-op until one is installed.
func newMetrics(m metric.Meter) *metrics {
	if m == nil {
		m = otel.Meter(meterName)
	}
	requests, err := m.Int64Counter("decision.requests",
		metric.WithDescription("Decisions requested from the pipeline"))
	if err != nil {
		requests = noop.Int64Counter{}
	}
	fallbacks, err := m.Int64Counter("decision.fallbacks",
		metric.WithDescription("Decisions supplied by the rule-based fallback"))
	if err != nil {
		fallbacks = noop.Int64Counter{}
	}
	return &metrics{requests: requests, fallbacks: fallbacks}
}

func (m *metrics) request(ctx context.Context, difficulty string) {
	m.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("difficulty", difficulty)))
}

func (m *metrics) fallback(ctx context.Context, difficulty, reason string) {
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("difficulty", difficulty),
		attribute.String("reason", reason),
	))
}
