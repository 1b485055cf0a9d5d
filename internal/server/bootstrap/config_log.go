package bootstrap

import (
	"errors"
	"os"
	"strings"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/observability"
)

// LogServerConfiguration prints a snapshot of the effective configuration
// with per-field provenance, so a misbehaving deployment can be diagnosed
// from the startup log alone.
func LogServerConfiguration(logger logging.Logger, cfg config.Config, meta config.Metadata, obsCfg observability.Config) {
	logger = logging.OrNop(logger)

	logger.Info("=== Server Configuration ===")

	if configPath, err := config.DefaultConfigPath(nil); err == nil {
		logger.Info("Config file: %s", configPath)
		if info, statErr := os.Stat(configPath); statErr == nil {
			logger.Info("Config mtime: %s", info.ModTime().UTC().Format(time.RFC3339))
		} else if errors.Is(statErr, os.ErrNotExist) {
			logger.Info("Config file missing, using defaults and environment")
		} else {
			logger.Warn("Config file stat failed: %v", statErr)
		}
	} else {
		logger.Warn("Config file path unavailable: %v", err)
	}

	logger.Info("Environment: %s (source=%s)", cfg.Environment, meta.Source("environment"))
	logger.Info("Listen Addr: %s (source=%s)", cfg.ListenAddr, meta.Source("listen_addr"))
	logger.Info("Payload Dir: %s (source=%s)", cfg.PayloadDir, meta.Source("payload_dir"))
	if len(cfg.CORSOrigins) > 0 {
		logger.Info("CORS Origins: %s (source=%s)", strings.Join(cfg.CORSOrigins, ", "), meta.Source("cors_origins"))
	} else {
		logger.Info("CORS Origins: (all origins allowed)")
	}

	logger.Info("Intake Max Count: %d (source=%s)", cfg.Intake.MaxCount, meta.Source("intake.max_count"))
	logger.Info("Intake Per-File Limit: %d bytes (source=%s)", cfg.Intake.PerFileLimit, meta.Source("intake.per_file_limit"))
	logger.Info("Intake Aggregate Limit: %d bytes (source=%s)", cfg.Intake.AggregateLimit, meta.Source("intake.aggregate_limit"))
	logger.Info("Intake Raw Ceiling: %d bytes (disabled=%t)", cfg.Intake.RawSourceCeiling, cfg.Intake.DisableRawCeiling)
	logger.Info("Intake Formats: %s", strings.Join(cfg.Intake.AcceptedFormats, ", "))
	logger.Info("Intake Concurrency: %d", cfg.Intake.Concurrency)
	logger.Info("Compression: max_dimension=%dx%d quality=%d step=%d retries=%d",
		cfg.Intake.Compression.MaxWidth,
		cfg.Intake.Compression.MaxHeight,
		cfg.Intake.Compression.InitialQuality,
		cfg.Intake.Compression.QualityStep,
		cfg.Intake.Compression.MaxRetries,
	)

	logger.Info("Log Level: %s", obsCfg.Logging.Level)
	if obsCfg.Metrics.Enabled {
		logger.Info("Metrics: enabled (prometheus port %d)", obsCfg.Metrics.PrometheusPort)
	} else {
		logger.Info("Metrics: disabled")
	}
	if obsCfg.Tracing.Enabled {
		logger.Info("Tracing: enabled (exporter=%s, sample_rate=%.2f)", obsCfg.Tracing.Exporter, obsCfg.Tracing.SampleRate)
	} else {
		logger.Info("Tracing: disabled")
	}
	logger.Info("===========================")
}
