package config

import (
	"os"
	"testing"

	"taskboard/internal/intake"
)

type envMap map[string]string

func (e envMap) Lookup(key string) (string, bool) {
	val, ok := e[key]
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

func missingFile(string) ([]byte, error) { return nil, os.ErrNotExist }

func TestLoadDefaults(t *testing.T) {
	cfg, meta, err := Load(
		WithEnv(envMap{}.Lookup),
		WithFileReader(missingFile),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Environment != "development" {
		t.Fatalf("expected default environment 'development', got %q", cfg.Environment)
	}
	if cfg.Verbose {
		t.Fatal("expected verbose default to be false")
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("expected default listen addr %q, got %q", DefaultListenAddr, cfg.ListenAddr)
	}
	if cfg.PayloadDir != DefaultPayloadDir {
		t.Fatalf("expected default payload dir %q, got %q", DefaultPayloadDir, cfg.PayloadDir)
	}
	if cfg.Intake.MaxCount != intake.DefaultMaxCount {
		t.Fatalf("expected default max count %d, got %d", intake.DefaultMaxCount, cfg.Intake.MaxCount)
	}
	if cfg.Intake.PerFileLimit != intake.DefaultPerFileLimit {
		t.Fatalf("expected default per-file limit %d, got %d", int64(intake.DefaultPerFileLimit), cfg.Intake.PerFileLimit)
	}
	if cfg.Intake.DisableRawCeiling {
		t.Fatal("expected raw ceiling enforced by default")
	}
	if !cfg.Observability.Metrics.Enabled || cfg.Observability.Metrics.PrometheusPort != 9090 {
		t.Fatalf("unexpected metrics defaults: %+v", cfg.Observability.Metrics)
	}
	if cfg.Observability.Tracing.Enabled {
		t.Fatal("expected tracing disabled by default")
	}
	if got := meta.Source("intake.max_count"); got != SourceDefault {
		t.Fatalf("expected default max count source, got %s", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	fileData := []byte(`{
                "environment": "staging",
                "verbose": true,
                "listen_addr": ":9000",
                "payload_dir": "/data/payloads",
                "cors_origins": ["https://board.example.com"],
                "max_count": 4,
                "per_file_limit": 200000,
                "aggregate_limit": 600000,
                "disable_raw_ceiling": true,
                "accepted_formats": ["image/png"],
                "concurrency": 2,
                "max_dimension": 1200,
                "initial_quality": 85,
                "log_level": "debug",
                "metrics_enabled": false,
                "tracing_enabled": true,
                "tracing_exporter": "zipkin",
                "zipkin_endpoint": "http://zipkin:9411/api/v2/spans",
                "tracing_sample_rate": 0.5
        }`)
	cfg, meta, err := Load(
		WithEnv(envMap{}.Lookup),
		WithFileReader(func(string) ([]byte, error) { return fileData, nil }),
		WithHomeDir(func() (string, error) { return "/home/test", nil }),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Fatalf("expected environment from file, got %q", cfg.Environment)
	}
	if !cfg.Verbose {
		t.Fatal("expected verbose true from file")
	}
	if cfg.ListenAddr != ":9000" {
		t.Fatalf("expected listen addr from file, got %q", cfg.ListenAddr)
	}
	if cfg.PayloadDir != "/data/payloads" {
		t.Fatalf("expected payload dir from file, got %q", cfg.PayloadDir)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://board.example.com" {
		t.Fatalf("unexpected cors origins: %#v", cfg.CORSOrigins)
	}
	if cfg.Intake.MaxCount != 4 {
		t.Fatalf("expected max_count=4, got %d", cfg.Intake.MaxCount)
	}
	if cfg.Intake.PerFileLimit != 200000 || cfg.Intake.AggregateLimit != 600000 {
		t.Fatalf("unexpected size limits: per-file=%d aggregate=%d", cfg.Intake.PerFileLimit, cfg.Intake.AggregateLimit)
	}
	if !cfg.Intake.DisableRawCeiling {
		t.Fatal("expected raw ceiling disabled from file")
	}
	if len(cfg.Intake.AcceptedFormats) != 1 || cfg.Intake.AcceptedFormats[0] != "image/png" {
		t.Fatalf("unexpected accepted formats: %#v", cfg.Intake.AcceptedFormats)
	}
	if cfg.Intake.Concurrency != 2 {
		t.Fatalf("expected concurrency=2, got %d", cfg.Intake.Concurrency)
	}
	if cfg.Intake.Compression.MaxWidth != 1200 || cfg.Intake.Compression.MaxHeight != 1200 {
		t.Fatalf("expected max dimension 1200, got %dx%d", cfg.Intake.Compression.MaxWidth, cfg.Intake.Compression.MaxHeight)
	}
	if cfg.Intake.Compression.InitialQuality != 85 {
		t.Fatalf("expected initial quality 85, got %d", cfg.Intake.Compression.InitialQuality)
	}
	if cfg.Observability.Logging.Level != "debug" {
		t.Fatalf("expected log level from file, got %q", cfg.Observability.Logging.Level)
	}
	if cfg.Observability.Metrics.Enabled {
		t.Fatal("expected metrics disabled from file")
	}
	if !cfg.Observability.Tracing.Enabled || cfg.Observability.Tracing.Exporter != "zipkin" {
		t.Fatalf("unexpected tracing config: %+v", cfg.Observability.Tracing)
	}
	if cfg.Observability.Tracing.SampleRate != 0.5 {
		t.Fatalf("expected sample rate 0.5, got %v", cfg.Observability.Tracing.SampleRate)
	}
	if meta.Source("intake.max_count") != SourceFile {
		t.Fatalf("expected max count source from file, got %s", meta.Source("intake.max_count"))
	}
	if meta.Source("observability.tracing_exporter") != SourceFile {
		t.Fatalf("expected exporter source from file, got %s", meta.Source("observability.tracing_exporter"))
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	fileData := []byte(`{"max_count": 4, "listen_addr": ":9000"}`)
	env := envMap{
		"TASKBOARD_MAX_COUNT":    "6",
		"TASKBOARD_CORS_ORIGINS": "https://a.example.com, https://b.example.com;https://c.example.com",
		"TASKBOARD_LOG_LEVEL":    "warn",
	}
	cfg, meta, err := Load(
		WithEnv(env.Lookup),
		WithFileReader(func(string) ([]byte, error) { return fileData, nil }),
		WithHomeDir(func() (string, error) { return "/home/test", nil }),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Intake.MaxCount != 6 {
		t.Fatalf("expected env max count to win, got %d", cfg.Intake.MaxCount)
	}
	if cfg.ListenAddr != ":9000" {
		t.Fatalf("expected file listen addr preserved, got %q", cfg.ListenAddr)
	}
	if len(cfg.CORSOrigins) != 3 || cfg.CORSOrigins[2] != "https://c.example.com" {
		t.Fatalf("unexpected cors origins from env: %#v", cfg.CORSOrigins)
	}
	if cfg.Observability.Logging.Level != "warn" {
		t.Fatalf("expected log level from env, got %q", cfg.Observability.Logging.Level)
	}
	if meta.Source("intake.max_count") != SourceEnv {
		t.Fatalf("expected env max count source, got %s", meta.Source("intake.max_count"))
	}
	if meta.Source("listen_addr") != SourceFile {
		t.Fatalf("expected file listen addr source, got %s", meta.Source("listen_addr"))
	}
}

func TestLoadOverridesWin(t *testing.T) {
	maxCount := 2
	verbose := true
	env := envMap{
		"TASKBOARD_MAX_COUNT": "6",
	}
	cfg, meta, err := Load(
		WithEnv(env.Lookup),
		WithFileReader(missingFile),
		WithOverrides(Overrides{MaxCount: &maxCount, Verbose: &verbose}),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Intake.MaxCount != 2 {
		t.Fatalf("expected override max count to win, got %d", cfg.Intake.MaxCount)
	}
	if !cfg.Verbose {
		t.Fatal("expected verbose override")
	}
	if meta.Source("intake.max_count") != SourceOverride {
		t.Fatalf("expected override source, got %s", meta.Source("intake.max_count"))
	}
}

func TestLoadInvalidBoolEnv(t *testing.T) {
	env := envMap{"TASKBOARD_VERBOSE": "maybe"}
	_, _, err := Load(WithEnv(env.Lookup), WithFileReader(missingFile))
	if err == nil {
		t.Fatal("expected error for invalid boolean env value")
	}
}

func TestLoadInvalidIntEnv(t *testing.T) {
	env := envMap{"TASKBOARD_MAX_COUNT": "a lot"}
	_, _, err := Load(WithEnv(env.Lookup), WithFileReader(missingFile))
	if err == nil {
		t.Fatal("expected error for invalid integer env value")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	_, _, err := Load(
		WithEnv(envMap{}.Lookup),
		WithFileReader(func(string) ([]byte, error) { return []byte("{not json"), nil }),
		WithHomeDir(func() (string, error) { return "/home/test", nil }),
	)
	if err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestLoadMissingHomeDirSkipsFile(t *testing.T) {
	cfg, _, err := Load(
		WithEnv(envMap{}.Lookup),
		WithFileReader(func(string) ([]byte, error) {
			t.Fatal("file reader should not be called when home dir is unavailable")
			return nil, nil
		}),
		WithHomeDir(func() (string, error) { return "", os.ErrPermission }),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Environment != "development" {
		t.Fatalf("expected defaults, got environment %q", cfg.Environment)
	}
}

func TestLoadNormalizesPolicy(t *testing.T) {
	// Zero values in the file fall back to defaults after normalization.
	fileData := []byte(`{"concurrency": 0}`)
	cfg, _, err := Load(
		WithEnv(envMap{}.Lookup),
		WithFileReader(func(string) ([]byte, error) { return fileData, nil }),
		WithHomeDir(func() (string, error) { return "/home/test", nil }),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Intake.Concurrency != intake.DefaultConcurrency {
		t.Fatalf("expected normalized concurrency %d, got %d", intake.DefaultConcurrency, cfg.Intake.Concurrency)
	}
	if cfg.Intake.OutputExtension != "jpg" || cfg.Intake.OutputMIME != "image/jpeg" {
		t.Fatalf("expected normalized output shape, got %q/%q", cfg.Intake.OutputExtension, cfg.Intake.OutputMIME)
	}
}

func TestParseBoolEnv(t *testing.T) {
	cases := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"1", true, false},
		{"true", true, false},
		{"YES", true, false},
		{" on ", true, false},
		{"0", false, false},
		{"false", false, false},
		{"off", false, false},
		{"N", false, false},
		{"maybe", false, true},
		{"", false, true},
	}
	for _, tc := range cases {
		got, err := parseBoolEnv(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseBoolEnv(%q) expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseBoolEnv(%q) returned error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseBoolEnv(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{"a, b; c", []string{"a", "b", "c"}},
		{"  a  ", []string{"a"}},
		{"", nil},
		{",;,", nil},
	}
	for _, tc := range cases {
		got := splitList(tc.input)
		if len(got) != len(tc.want) {
			t.Errorf("splitList(%q) = %#v, want %#v", tc.input, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitList(%q)[%d] = %q, want %q", tc.input, i, got[i], tc.want[i])
			}
		}
	}
}
