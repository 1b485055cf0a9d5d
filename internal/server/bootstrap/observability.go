package bootstrap

import (
	"context"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/observability"
)

// Observables bundles the telemetry components threaded through the server
// layers.
type Observables struct {
	Config  observability.Config
	Metrics *observability.MetricsCollector
	Tracer  *observability.TracerProvider
}

// InitObservability resolves the observability configuration and builds the
// metrics collector and tracer provider. Failures degrade to disabled
// components rather than aborting startup. The returned cleanup hook flushes
// both on shutdown.
func InitObservability(cfg config.Config, meta config.Metadata, logger logging.Logger) (Observables, func()) {
	logger = logging.OrNop(logger)
	obsCfg := resolveObservability(cfg, meta, logger)

	metrics, err := observability.NewMetricsCollector(obsCfg.Metrics)
	if err != nil {
		logger.Warn("Metrics disabled: %v", err)
		metrics = &observability.MetricsCollector{}
		obsCfg.Metrics.Enabled = false
	}

	tracer, err := observability.NewTracerProvider(obsCfg.Tracing)
	if err != nil {
		logger.Warn("Tracing disabled: %v", err)
		// A disabled provider never errors.
		tracer, _ = observability.NewTracerProvider(observability.TracingConfig{})
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			logger.Warn("Tracer shutdown error: %v", err)
		}
		if err := metrics.Shutdown(ctx); err != nil {
			logger.Warn("Metrics shutdown error: %v", err)
		}
	}

	return Observables{Config: obsCfg, Metrics: metrics, Tracer: tracer}, cleanup
}

// resolveObservability merges the observability yaml with the main
// configuration. Values that arrived through the json config file or a
// TASKBOARD_* variable win over the yaml; yaml wins over built-in defaults.
func resolveObservability(cfg config.Config, meta config.Metadata, logger logging.Logger) observability.Config {
	obs, err := observability.LoadConfig(cfg.ObservabilityPath)
	if err != nil {
		logging.OrNop(logger).Warn("Observability config: %v, continuing with defaults", err)
		obs = observability.DefaultConfig()
	}

	if meta.Source("observability.log_level") != config.SourceDefault {
		obs.Logging.Level = cfg.Observability.Logging.Level
	}
	if meta.Source("observability.metrics_enabled") != config.SourceDefault {
		obs.Metrics.Enabled = cfg.Observability.Metrics.Enabled
	}
	if meta.Source("observability.metrics_port") != config.SourceDefault {
		obs.Metrics.PrometheusPort = cfg.Observability.Metrics.PrometheusPort
	}
	if meta.Source("observability.tracing_enabled") != config.SourceDefault {
		obs.Tracing.Enabled = cfg.Observability.Tracing.Enabled
	}
	if meta.Source("observability.tracing_exporter") != config.SourceDefault {
		obs.Tracing.Exporter = cfg.Observability.Tracing.Exporter
	}
	if meta.Source("observability.otlp_endpoint") != config.SourceDefault {
		obs.Tracing.OTLPEndpoint = cfg.Observability.Tracing.OTLPEndpoint
	}
	if meta.Source("observability.zipkin_endpoint") != config.SourceDefault {
		obs.Tracing.ZipkinEndpoint = cfg.Observability.Tracing.ZipkinEndpoint
	}
	if meta.Source("observability.tracing_sample_rate") != config.SourceDefault {
		obs.Tracing.SampleRate = cfg.Observability.Tracing.SampleRate
	}
	return obs
}
