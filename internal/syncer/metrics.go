package syncer

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type syncerMetricsCollection struct {
	operationCount    metric.Int64Counter
	operationDuration metric.Float64Histogram
}

var metrics syncerMetricsCollection

func init() {
	const name = "pilgrim/syncer"
	meter := otel.Meter(name)

	operationCount, err := meter.Int64Counter(
		"syncer/operation_count",
		metric.WithDescription("Number of persistence operations by kind and outcome"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create operation count metric: %w", err))
	}

	operationDuration, err := meter.Float64Histogram(
		"syncer/operation_duration_seconds",
		metric.WithDescription("Time spent on each persistence operation"),
		metric.WithUnit("s"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create operation duration metric: %w", err))
	}

	metrics = syncerMetricsCollection{
		operationCount:    operationCount,
		operationDuration: operationDuration,
	}
}
