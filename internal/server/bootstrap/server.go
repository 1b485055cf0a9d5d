// Package bootstrap wires configuration, observability, the intake pipeline
// and the HTTP layer into a running server process. Both the dedicated
// server binary and the CLI's serve command go through RunServer.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"taskboard/internal/async"
	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/intake"
	"taskboard/internal/logging"
	"taskboard/internal/observability"
	serverApp "taskboard/internal/server/app"
	serverHTTP "taskboard/internal/server/http"
	"taskboard/internal/store"
)

const (
	readTimeout     = 30 * time.Second
	idleTimeout     = 120 * time.Second
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second

	// Upload rate limit per client IP. Uploads decode and re-encode
	// images, so they are the one route worth throttling.
	intakeRequestsPerMinute = 120
	intakeBurst             = 10
)

// RunServer starts the board API server and blocks until a shutdown signal
// is received or the listener fails.
func RunServer(opts ...config.Option) error {
	cfg, meta, err := config.Load(opts...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	obs, cleanupObs := InitObservability(cfg, meta, logging.NewComponentLogger("Bootstrap"))
	if cleanupObs != nil {
		defer cleanupObs()
	}
	logging.Default().SetLevel(logging.ParseLevel(obs.Config.Logging.Level))

	logger := logging.NewComponentLogger("Main")
	logger.Info("Starting taskboard server...")
	LogServerConfiguration(logger, cfg, meta, obs.Config)

	degraded := NewDegradedComponents()

	// ── Phase 1: storage and pipeline (failure aborts startup) ──

	var payloads *store.PayloadStore
	var pipeline *intake.Pipeline

	stages := []Stage{
		{
			Name: "payload-store", Required: true,
			Init: func() error {
				s, err := store.New(cfg.PayloadDir, logging.NewComponentLogger("PayloadStore"))
				if err != nil {
					return err
				}
				payloads = s
				return nil
			},
		},
		{
			Name: "intake-pipeline", Required: true,
			Init: func() error {
				p, err := intake.NewPipeline(cfg.Intake, logging.NewComponentLogger("Intake"))
				if err != nil {
					return err
				}
				pipeline = p
				return nil
			},
		},
		{
			Name: "metrics-listener", Required: false,
			Init: func() error {
				if !obs.Config.Metrics.Enabled {
					return nil
				}
				return obs.Metrics.StartPrometheusServer(obs.Config.Metrics.PrometheusPort)
			},
		},
	}
	if err := RunStages(stages, degraded, logger); err != nil {
		return err
	}

	// ── Phase 2: application layer ──

	registry := board.NewRegistry(logging.NewComponentLogger("Registry"))

	broadcaster := serverApp.NewEventBroadcaster(logging.NewComponentLogger("EventBroadcaster"))
	if obs.Config.Metrics.Enabled {
		broadcaster.SetStreamMetrics(observability.NewStreamMetrics())
	}

	service := serverApp.NewService(
		registry,
		pipeline,
		payloads,
		broadcaster,
		logging.NewComponentLogger("Service"),
		serverApp.WithMetrics(obs.Metrics),
		serverApp.WithTracer(obs.Tracer),
	)

	// ── Phase 3: HTTP layer ──

	health := serverApp.NewHealthChecker()
	health.RegisterProbe(serverApp.NewPayloadStoreProbe(payloads))
	health.RegisterProbe(serverApp.NewRegistryProbe(registry))
	health.RegisterProbe(serverApp.NewBroadcasterProbe(broadcaster))
	health.RegisterProbe(serverApp.NewMetricsProbe(obs.Config.Metrics.Enabled, obs.Config.Metrics.PrometheusPort))
	health.RegisterProbe(serverApp.NewDegradedProbe(degraded))

	router := serverHTTP.NewRouter(service, health, serverHTTP.RouterConfig{
		Environment:    cfg.Environment,
		AllowedOrigins: normalizeAllowedOrigins(cfg.CORSOrigins),
		RequestTimeout: requestTimeout,
		IntakeRateLimit: serverHTTP.RateLimitConfig{
			RequestsPerMinute: intakeRequestsPerMinute,
			Burst:             intakeBurst,
		},
		Tracer: obs.Tracer,
	})

	if !degraded.IsEmpty() {
		logger.Warn("[Bootstrap] Server starting in degraded mode: %v", degraded.Map())
	}

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: 0, // event streams stay open indefinitely
		IdleTimeout:  idleTimeout,
	}

	return serveUntilSignal(server, logger)
}

// normalizeAllowedOrigins trims whitespace and drops empties and duplicates,
// preserving order.
func normalizeAllowedOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	seen := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func serveUntilSignal(server *http.Server, logger logging.Logger) error {
	logger = logging.OrNop(logger)

	errCh := make(chan error, 1)
	async.Go(logger, "server.listen", func() {
		logger.Info("Server listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err == nil || err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr := server.Shutdown(ctx)

		serveErr := <-errCh
		if serveErr == http.ErrServerClosed {
			serveErr = nil
		}

		if shutdownErr != nil {
			return fmt.Errorf("shutdown: %w", shutdownErr)
		}
		if serveErr != nil {
			return fmt.Errorf("server error: %w", serveErr)
		}

		logger.Info("Server stopped")
		return nil
	}
}
