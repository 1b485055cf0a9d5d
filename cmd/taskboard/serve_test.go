package main

import (
	"io"
	"testing"

	"taskboard/internal/config"
)

func TestApplyServeFlags(t *testing.T) {
	cmd := newServeCommand(&CLI{out: io.Discard})
	if err := cmd.Flags().Parse([]string{"--addr", ":9001", "--metrics", "--payload-dir", "/tmp/payloads"}); err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	overrides := config.Overrides{}
	applyServeFlags(cmd, &overrides)

	if overrides.ListenAddr == nil || *overrides.ListenAddr != ":9001" {
		t.Errorf("ListenAddr override = %v, want :9001", overrides.ListenAddr)
	}
	if overrides.MetricsEnabled == nil || !*overrides.MetricsEnabled {
		t.Errorf("MetricsEnabled override = %v, want true", overrides.MetricsEnabled)
	}
	if overrides.PayloadDir == nil || *overrides.PayloadDir != "/tmp/payloads" {
		t.Errorf("PayloadDir override = %v, want /tmp/payloads", overrides.PayloadDir)
	}
	if overrides.Environment != nil {
		t.Errorf("Environment override = %v, want nil for an unset flag", *overrides.Environment)
	}
	if overrides.MetricsPort != nil {
		t.Errorf("MetricsPort override = %v, want nil for an unset flag", *overrides.MetricsPort)
	}
}
