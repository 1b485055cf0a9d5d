package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"taskboard/internal/board"
	"taskboard/internal/store"
)

func TestHealthChecker_CheckAll(t *testing.T) {
	payloads, err := store.New(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	registry := board.NewRegistry(nil)
	registry.Create("Draft", board.ColumnTodo)
	broadcaster := NewEventBroadcaster(nil)

	checker := NewHealthChecker()
	checker.RegisterProbe(NewPayloadStoreProbe(payloads))
	checker.RegisterProbe(NewRegistryProbe(registry))
	checker.RegisterProbe(NewBroadcasterProbe(broadcaster))
	checker.RegisterProbe(NewMetricsProbe(false, 0))

	results := checker.CheckAll(context.Background())
	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}

	byName := make(map[string]ComponentHealth, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}

	if byName["payload_store"].Status != HealthStatusReady {
		t.Errorf("payload_store status = %s, want %s", byName["payload_store"].Status, HealthStatusReady)
	}
	if byName["registry"].Details["editors"] != 1 {
		t.Errorf("registry editors = %v, want 1", byName["registry"].Details["editors"])
	}
	if byName["metrics"].Status != HealthStatusDisabled {
		t.Errorf("metrics status = %s, want %s", byName["metrics"].Status, HealthStatusDisabled)
	}

	if status := OverallStatus(results); status != HealthStatusReady {
		t.Errorf("OverallStatus = %s, want %s (disabled must not degrade)", status, HealthStatusReady)
	}
}

func TestPayloadStoreProbe_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "payloads")
	payloads, err := store.New(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	health := NewPayloadStoreProbe(payloads).Check(context.Background())
	if health.Status != HealthStatusNotReady {
		t.Errorf("Status = %s, want %s", health.Status, HealthStatusNotReady)
	}

	if status := OverallStatus([]ComponentHealth{health}); status != HealthStatusNotReady {
		t.Errorf("OverallStatus = %s, want %s", status, HealthStatusNotReady)
	}
}

type stubDegradedSource struct {
	components map[string]string
}

func (s *stubDegradedSource) IsEmpty() bool          { return len(s.components) == 0 }
func (s *stubDegradedSource) Map() map[string]string { return s.components }

func TestDegradedProbe(t *testing.T) {
	health := NewDegradedProbe(&stubDegradedSource{}).Check(context.Background())
	if health.Name != "bootstrap" {
		t.Errorf("Name = %s, want bootstrap", health.Name)
	}
	if health.Status != HealthStatusReady {
		t.Errorf("Status = %s, want %s for empty source", health.Status, HealthStatusReady)
	}

	health = NewDegradedProbe(nil).Check(context.Background())
	if health.Status != HealthStatusReady {
		t.Errorf("Status = %s, want %s for nil source", health.Status, HealthStatusReady)
	}

	source := &stubDegradedSource{components: map[string]string{
		"metrics-listener": "port already in use",
	}}
	health = NewDegradedProbe(source).Check(context.Background())
	if health.Status != HealthStatusNotReady {
		t.Errorf("Status = %s, want %s", health.Status, HealthStatusNotReady)
	}
	if health.Details["metrics-listener"] != "port already in use" {
		t.Errorf("Details = %v, want metrics-listener reason", health.Details)
	}
}
