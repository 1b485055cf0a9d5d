package app

import (
	"context"
	"os"
	"sync"

	"taskboard/internal/board"
	"taskboard/internal/store"
)

// Health status values reported per component.
const (
	HealthStatusReady    = "ready"
	HealthStatusNotReady = "not_ready"
	HealthStatusDisabled = "disabled"
)

// ComponentHealth is one component's health snapshot.
type ComponentHealth struct {
	Name    string         `json:"name"`
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthProbe checks one component.
type HealthProbe interface {
	Check(ctx context.Context) ComponentHealth
}

// HealthChecker aggregates health probes for all components.
type HealthChecker struct {
	probes []HealthProbe
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		probes: make([]HealthProbe, 0),
	}
}

// RegisterProbe adds a health probe.
func (h *HealthChecker) RegisterProbe(probe HealthProbe) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes = append(h.probes, probe)
}

// CheckAll returns health status for all components.
func (h *HealthChecker) CheckAll(ctx context.Context) []ComponentHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	results := make([]ComponentHealth, 0, len(h.probes))
	for _, probe := range h.probes {
		results = append(results, probe.Check(ctx))
	}
	return results
}

// OverallStatus reduces component results to a single status. Disabled
// components do not degrade the aggregate.
func OverallStatus(results []ComponentHealth) string {
	for _, r := range results {
		if r.Status == HealthStatusNotReady {
			return HealthStatusNotReady
		}
	}
	return HealthStatusReady
}

// PayloadStoreProbe checks that the payload directory is reachable.
type PayloadStoreProbe struct {
	store *store.PayloadStore
}

// NewPayloadStoreProbe creates a payload store health probe.
func NewPayloadStoreProbe(s *store.PayloadStore) *PayloadStoreProbe {
	return &PayloadStoreProbe{store: s}
}

// Check returns the health status of the payload store.
func (p *PayloadStoreProbe) Check(_ context.Context) ComponentHealth {
	dir := p.store.Dir()
	info, err := os.Stat(dir)
	if err != nil {
		return ComponentHealth{
			Name:    "payload_store",
			Status:  HealthStatusNotReady,
			Message: err.Error(),
			Details: map[string]any{"dir": dir},
		}
	}
	if !info.IsDir() {
		return ComponentHealth{
			Name:    "payload_store",
			Status:  HealthStatusNotReady,
			Message: "payload path is not a directory",
			Details: map[string]any{"dir": dir},
		}
	}
	return ComponentHealth{
		Name:    "payload_store",
		Status:  HealthStatusReady,
		Details: map[string]any{"dir": dir},
	}
}

// RegistryProbe reports the editor registry size.
type RegistryProbe struct {
	registry *board.Registry
}

// NewRegistryProbe creates a registry health probe.
func NewRegistryProbe(r *board.Registry) *RegistryProbe {
	return &RegistryProbe{registry: r}
}

// Check returns the health status of the editor registry.
func (p *RegistryProbe) Check(_ context.Context) ComponentHealth {
	return ComponentHealth{
		Name:   "registry",
		Status: HealthStatusReady,
		Details: map[string]any{
			"editors": p.registry.Len(),
		},
	}
}

// BroadcasterProbe reports event delivery counters.
type BroadcasterProbe struct {
	broadcaster *EventBroadcaster
}

// NewBroadcasterProbe creates a broadcaster health probe.
func NewBroadcasterProbe(b *EventBroadcaster) *BroadcasterProbe {
	return &BroadcasterProbe{broadcaster: b}
}

// Check returns the health status of the event broadcaster.
func (p *BroadcasterProbe) Check(_ context.Context) ComponentHealth {
	m := p.broadcaster.GetMetrics()
	return ComponentHealth{
		Name:   "broadcaster",
		Status: HealthStatusReady,
		Details: map[string]any{
			"active_connections": m.ActiveConnections,
			"total_events_sent":  m.TotalEventsSent,
			"dropped_events":     m.DroppedEvents,
			"editors":            m.EditorCount,
		},
	}
}

// MetricsProbe reports whether the Prometheus exporter is serving.
type MetricsProbe struct {
	enabled bool
	port    int
}

// NewMetricsProbe creates a metrics health probe.
func NewMetricsProbe(enabled bool, port int) *MetricsProbe {
	return &MetricsProbe{enabled: enabled, port: port}
}

// Check returns the health status of the metrics exporter.
func (p *MetricsProbe) Check(_ context.Context) ComponentHealth {
	if !p.enabled {
		return ComponentHealth{
			Name:    "metrics",
			Status:  HealthStatusDisabled,
			Message: "metrics disabled by configuration",
		}
	}
	return ComponentHealth{
		Name:   "metrics",
		Status: HealthStatusReady,
		Details: map[string]any{
			"prometheus_port": p.port,
		},
	}
}

// DegradedSource exposes components that failed optional initialization.
type DegradedSource interface {
	IsEmpty() bool
	Map() map[string]string
}

// DegradedProbe surfaces bootstrap stages that failed but did not prevent
// startup, so operators see partial outages on the health endpoint.
type DegradedProbe struct {
	source DegradedSource
}

// NewDegradedProbe creates a probe over a degraded-component tracker.
func NewDegradedProbe(source DegradedSource) *DegradedProbe {
	return &DegradedProbe{source: source}
}

// Check reports not_ready with per-component reasons when anything degraded.
func (p *DegradedProbe) Check(_ context.Context) ComponentHealth {
	if p.source == nil || p.source.IsEmpty() {
		return ComponentHealth{
			Name:   "bootstrap",
			Status: HealthStatusReady,
		}
	}
	components := p.source.Map()
	details := make(map[string]any, len(components))
	for name, reason := range components {
		details[name] = reason
	}
	return ComponentHealth{
		Name:    "bootstrap",
		Status:  HealthStatusNotReady,
		Message: "one or more optional components failed to start",
		Details: details,
	}
}
