package observability

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsCollector manages all metrics for the taskboard server
type MetricsCollector struct {
	meter metric.Meter

	// Intake metrics
	intakeBatches metric.Int64Counter
	filesAccepted metric.Int64Counter
	filesRejected metric.Int64Counter
	readFailures  metric.Int64Counter
	batchDuration metric.Float64Histogram

	// Payload store metrics
	payloadBytes metric.Int64Counter

	// Editor metrics
	editorsActive metric.Int64UpDownCounter

	// Server for Prometheus scraping
	prometheusServer *http.Server
}

// MetricsConfig configures the metrics collector
type MetricsConfig struct {
	Enabled        bool `yaml:"enabled"`
	PrometheusPort int  `yaml:"prometheus_port"`
}

// Batch status values recorded on intake metrics.
const (
	BatchStatusCompleted = "completed"
	BatchStatusDiscarded = "discarded"
	BatchStatusFailed    = "failed"
)

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(config MetricsConfig) (*MetricsCollector, error) {
	if !config.Enabled {
		return &MetricsCollector{}, nil
	}

	// Create Prometheus exporter
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	// Create meter provider
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	// Get meter
	meter := provider.Meter("taskboard")

	// Create metrics
	intakeBatches, err := meter.Int64Counter(
		"taskboard.intake.batches.total",
		metric.WithDescription("Total number of intake batches processed"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create intake_batches counter: %w", err)
	}

	filesAccepted, err := meter.Int64Counter(
		"taskboard.intake.files.accepted",
		metric.WithDescription("Files accepted onto a card after compression"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create files_accepted counter: %w", err)
	}

	filesRejected, err := meter.Int64Counter(
		"taskboard.intake.files.rejected",
		metric.WithDescription("Files rejected during intake, labeled by reason"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create files_rejected counter: %w", err)
	}

	readFailures, err := meter.Int64Counter(
		"taskboard.intake.files.read_failures",
		metric.WithDescription("Files that could not be read or decoded"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create read_failures counter: %w", err)
	}

	batchDuration, err := meter.Float64Histogram(
		"taskboard.intake.batch.duration",
		metric.WithDescription("Intake batch duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch_duration histogram: %w", err)
	}

	payloadBytes, err := meter.Int64Counter(
		"taskboard.store.payload.bytes",
		metric.WithDescription("Total bytes of compressed payloads written to the store"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payload_bytes counter: %w", err)
	}

	editorsActive, err := meter.Int64UpDownCounter(
		"taskboard.editors.active",
		metric.WithDescription("Number of live card editors"),
		metric.WithUnit("{editor}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create editors_active gauge: %w", err)
	}

	collector := &MetricsCollector{
		meter:         meter,
		intakeBatches: intakeBatches,
		filesAccepted: filesAccepted,
		filesRejected: filesRejected,
		readFailures:  readFailures,
		batchDuration: batchDuration,
		payloadBytes:  payloadBytes,
		editorsActive: editorsActive,
	}

	// Start Prometheus HTTP server
	if config.PrometheusPort > 0 {
		if err := collector.StartPrometheusServer(config.PrometheusPort); err != nil {
			return nil, fmt.Errorf("failed to start prometheus server: %w", err)
		}
	}

	return collector, nil
}

// StartPrometheusServer starts the Prometheus metrics server
func (m *MetricsCollector) StartPrometheusServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promclient.Handler())

	m.prometheusServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		log.Printf("Prometheus metrics server listening on :%d", port)
		if err := m.prometheusServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Prometheus server error: %v", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the metrics collector
func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	if m.prometheusServer != nil {
		return m.prometheusServer.Shutdown(ctx)
	}
	return nil
}

// RecordIntakeBatch records the outcome of one intake batch. Rejections
// arrive pre-counted by reason so the caller controls label cardinality.
func (m *MetricsCollector) RecordIntakeBatch(ctx context.Context, status string, accepted int, rejected map[string]int, readFailures int, duration time.Duration) {
	if m.intakeBatches == nil {
		return
	}

	statusAttr := metric.WithAttributes(attribute.String("status", status))

	m.intakeBatches.Add(ctx, 1, statusAttr)
	if accepted > 0 {
		m.filesAccepted.Add(ctx, int64(accepted))
	}
	for reason, count := range rejected {
		m.filesRejected.Add(ctx, int64(count), metric.WithAttributes(attribute.String("reason", reason)))
	}
	if readFailures > 0 {
		m.readFailures.Add(ctx, int64(readFailures))
	}
	m.batchDuration.Record(ctx, duration.Seconds(), statusAttr)
}

// RecordPayloadStored records bytes written to the payload store
func (m *MetricsCollector) RecordPayloadStored(ctx context.Context, size int64) {
	if m.payloadBytes == nil {
		return
	}
	m.payloadBytes.Add(ctx, size)
}

// IncrementActiveEditors increments the active editors counter
func (m *MetricsCollector) IncrementActiveEditors(ctx context.Context) {
	if m.editorsActive == nil {
		return
	}
	m.editorsActive.Add(ctx, 1)
}

// DecrementActiveEditors decrements the active editors counter
func (m *MetricsCollector) DecrementActiveEditors(ctx context.Context) {
	if m.editorsActive == nil {
		return
	}
	m.editorsActive.Add(ctx, -1)
}
