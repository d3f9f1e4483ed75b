package observability

import (
	"context"
	"time"

	"unit-lookup/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records lookup outcomes through an OpenTelemetry meter
// exported on the default prometheus registry. A nil *Observability is a
// valid no-op.
type Observability struct {
	meterProvider  *metric.MeterProvider
	lookupCounter  otelmetric.Int64Counter
	lookupDuration otelmetric.Float64Histogram
}

func New(serviceName string, log logger.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("otel prometheus exporter unavailable", map[string]interface{}{"error": err})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	lookupCounter, _ := meter.Int64Counter(
		"lookups.processed",
		otelmetric.WithDescription("Number of lookups processed"),
	)
	lookupDuration, _ := meter.Float64Histogram(
		"lookups.duration",
		otelmetric.WithDescription("Lookup duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		lookupCounter:  lookupCounter,
		lookupDuration: lookupDuration,
	}
}

func (o *Observability) RecordLookup(ctx context.Context, channel, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("status", status),
	)
	if o.lookupCounter != nil {
		o.lookupCounter.Add(ctx, 1, attrs)
	}
	if o.lookupDuration != nil {
		o.lookupDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
