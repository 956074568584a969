package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ConversionMetrics holds the instruments the conversion pipeline reports to.
type ConversionMetrics struct {
	Conversions metric.Int64Counter
	Failures    metric.Int64Counter
	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter
	Rejections  metric.Int64Counter
	BatchSize   metric.Int64Histogram
	Latency     metric.Float64Histogram
}

// NewConversionMetrics registers the conversion instruments on the meter.
func NewConversionMetrics(meter metric.Meter) (*ConversionMetrics, error) {
	conversions, err := meter.Int64Counter("gridfix.conversions.total",
		metric.WithDescription("Completed coordinate conversions by input format"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("gridfix.conversions.failures",
		metric.WithDescription("Failed coordinate conversions by input format"))
	if err != nil {
		return nil, err
	}
	cacheHits, err := meter.Int64Counter("gridfix.cache.hits",
		metric.WithDescription("Conversion cache hits"))
	if err != nil {
		return nil, err
	}
	cacheMisses, err := meter.Int64Counter("gridfix.cache.misses",
		metric.WithDescription("Conversion cache misses"))
	if err != nil {
		return nil, err
	}
	rejections, err := meter.Int64Counter("gridfix.dispatch.rejections",
		metric.WithDescription("Requests rejected because the dispatch queue was full"))
	if err != nil {
		return nil, err
	}
	batchSize, err := meter.Int64Histogram("gridfix.batch.size",
		metric.WithDescription("Batch conversion request sizes"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("gridfix.conversion.duration",
		metric.WithDescription("Single conversion duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &ConversionMetrics{
		Conversions: conversions,
		Failures:    failures,
		CacheHits:   cacheHits,
		CacheMisses: cacheMisses,
		Rejections:  rejections,
		BatchSize:   batchSize,
		Latency:     latency,
	}, nil
}

// RecordConversion records one conversion outcome.
func (m *ConversionMetrics) RecordConversion(ctx context.Context, format string, cached bool, durationMs float64, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("format", format))
	if err != nil {
		m.Failures.Add(ctx, 1, attrs)
		return
	}
	m.Conversions.Add(ctx, 1, attrs)
	m.Latency.Record(ctx, durationMs, attrs)
	if cached {
		m.CacheHits.Add(ctx, 1)
	} else {
		m.CacheMisses.Add(ctx, 1)
	}
}
