package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/intake"
	"taskboard/internal/observability"
)

// ValueSource describes where a configuration value originated from.
type ValueSource string

const (
	SourceDefault  ValueSource = "default"
	SourceFile     ValueSource = "file"
	SourceEnv      ValueSource = "environment"
	SourceOverride ValueSource = "override"
)

// DefaultListenAddr is the bind address used when no value is configured.
const DefaultListenAddr = ":8080"

// DefaultPayloadDir is where compressed attachment payloads land on disk.
const DefaultPayloadDir = "~/.taskboard/payloads"

// Config captures user-configurable settings shared across binaries.
type Config struct {
	Environment       string
	Verbose           bool
	ListenAddr        string
	PayloadDir        string
	CORSOrigins       []string
	ObservabilityPath string
	Intake            intake.Policy
	Observability     observability.Config
}

// Metadata contains provenance details for loaded configuration.
type Metadata struct {
	sources  map[string]ValueSource
	loadedAt time.Time
}

// Source returns the origin for the given configuration field.
func (m Metadata) Source(field string) ValueSource {
	if m.sources == nil {
		return SourceDefault
	}
	if src, ok := m.sources[field]; ok {
		return src
	}
	return SourceDefault
}

// LoadedAt returns the timestamp when the configuration was constructed.
func (m Metadata) LoadedAt() time.Time {
	return m.loadedAt
}

// Overrides conveys caller-specified values that should win over env/file sources.
type Overrides struct {
	Environment       *string
	Verbose           *bool
	ListenAddr        *string
	PayloadDir        *string
	CORSOrigins       *[]string
	ObservabilityPath *string

	MaxCount          *int
	PerFileLimit      *int64
	AggregateLimit    *int64
	RawSourceCeiling  *int64
	DisableRawCeiling *bool
	AcceptedFormats   *[]string
	Concurrency       *int

	MaxDimension   *int
	InitialQuality *int
	QualityStep    *int
	MaxRetries     *int

	LogLevel        *string
	MetricsEnabled  *bool
	MetricsPort     *int
	TracingEnabled  *bool
	TracingExporter *string
}

// EnvLookup resolves the value for an environment variable.
type EnvLookup func(string) (string, bool)

// Option customises the loader behaviour.
type Option func(*loadOptions)

type loadOptions struct {
	envLookup  EnvLookup
	readFile   func(string) ([]byte, error)
	homeDir    func() (string, error)
	overrides  Overrides
	configPath string
}

// WithEnv supplies a custom environment lookup implementation.
func WithEnv(lookup EnvLookup) Option {
	return func(o *loadOptions) {
		o.envLookup = lookup
	}
}

// WithOverrides applies caller overrides that take highest precedence.
func WithOverrides(overrides Overrides) Option {
	return func(o *loadOptions) {
		o.overrides = overrides
	}
}

// WithConfigPath forces the loader to read configuration from a specific file.
func WithConfigPath(path string) Option {
	return func(o *loadOptions) {
		o.configPath = path
	}
}

// WithFileReader injects a custom reader, used primarily for tests.
func WithFileReader(reader func(string) ([]byte, error)) Option {
	return func(o *loadOptions) {
		o.readFile = reader
	}
}

// WithHomeDir overrides how the loader resolves the user's home directory.
func WithHomeDir(resolver func() (string, error)) Option {
	return func(o *loadOptions) {
		o.homeDir = resolver
	}
}

// DefaultEnvLookup delegates to os.LookupEnv.
func DefaultEnvLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Load constructs the runtime configuration by merging defaults, file, env and overrides.
func Load(opts ...Option) (Config, Metadata, error) {
	options := loadOptions{
		envLookup: DefaultEnvLookup,
		readFile:  os.ReadFile,
		homeDir:   os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(&options)
	}

	meta := Metadata{sources: map[string]ValueSource{}, loadedAt: time.Now()}

	cfg := Config{
		Environment:   "development",
		ListenAddr:    DefaultListenAddr,
		PayloadDir:    DefaultPayloadDir,
		CORSOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		Intake:        intake.DefaultPolicy(),
		Observability: observability.DefaultConfig(),
	}

	// Load from config file if present.
	if err := applyFile(&cfg, &meta, options); err != nil {
		return Config{}, Metadata{}, err
	}

	// Apply environment overrides.
	if err := applyEnv(&cfg, &meta, options); err != nil {
		return Config{}, Metadata{}, err
	}

	// Apply caller overrides last.
	applyOverrides(&cfg, &meta, options.overrides)

	cfg.Intake = cfg.Intake.Normalize()

	return cfg, meta, nil
}

type fileConfig struct {
	Environment       string   `json:"environment"`
	Verbose           *bool    `json:"verbose"`
	ListenAddr        string   `json:"listen_addr"`
	PayloadDir        string   `json:"payload_dir"`
	CORSOrigins       []string `json:"cors_origins"`
	ObservabilityPath string   `json:"observability_path"`

	MaxCount          *int     `json:"max_count"`
	PerFileLimit      *int64   `json:"per_file_limit"`
	AggregateLimit    *int64   `json:"aggregate_limit"`
	RawSourceCeiling  *int64   `json:"raw_source_ceiling"`
	DisableRawCeiling *bool    `json:"disable_raw_ceiling"`
	AcceptedFormats   []string `json:"accepted_formats"`
	Concurrency       *int     `json:"concurrency"`

	MaxDimension   *int `json:"max_dimension"`
	InitialQuality *int `json:"initial_quality"`
	QualityStep    *int `json:"quality_step"`
	MaxRetries     *int `json:"max_retries"`

	LogLevel        string   `json:"log_level"`
	MetricsEnabled  *bool    `json:"metrics_enabled"`
	MetricsPort     *int     `json:"metrics_port"`
	TracingEnabled  *bool    `json:"tracing_enabled"`
	TracingExporter string   `json:"tracing_exporter"`
	OTLPEndpoint    string   `json:"otlp_endpoint"`
	ZipkinEndpoint  string   `json:"zipkin_endpoint"`
	SampleRate      *float64 `json:"tracing_sample_rate"`
}

// DefaultConfigPath resolves the JSON config file location under the home dir.
func DefaultConfigPath(homeDir func() (string, error)) (string, error) {
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskboard", "config.json"), nil
}

func applyFile(cfg *Config, meta *Metadata, opts loadOptions) error {
	configPath := opts.configPath
	if configPath == "" {
		resolved, err := DefaultConfigPath(opts.homeDir)
		if err != nil {
			return nil
		}
		configPath = resolved
	}

	data, err := opts.readFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var parsed fileConfig
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if parsed.Environment != "" {
		cfg.Environment = parsed.Environment
		meta.sources["environment"] = SourceFile
	}
	if parsed.Verbose != nil {
		cfg.Verbose = *parsed.Verbose
		meta.sources["verbose"] = SourceFile
	}
	if parsed.ListenAddr != "" {
		cfg.ListenAddr = parsed.ListenAddr
		meta.sources["listen_addr"] = SourceFile
	}
	if parsed.PayloadDir != "" {
		cfg.PayloadDir = parsed.PayloadDir
		meta.sources["payload_dir"] = SourceFile
	}
	if len(parsed.CORSOrigins) > 0 {
		cfg.CORSOrigins = append([]string(nil), parsed.CORSOrigins...)
		meta.sources["cors_origins"] = SourceFile
	}
	if parsed.ObservabilityPath != "" {
		cfg.ObservabilityPath = parsed.ObservabilityPath
		meta.sources["observability_path"] = SourceFile
	}

	if parsed.MaxCount != nil {
		cfg.Intake.MaxCount = *parsed.MaxCount
		meta.sources["intake.max_count"] = SourceFile
	}
	if parsed.PerFileLimit != nil {
		cfg.Intake.PerFileLimit = *parsed.PerFileLimit
		meta.sources["intake.per_file_limit"] = SourceFile
	}
	if parsed.AggregateLimit != nil {
		cfg.Intake.AggregateLimit = *parsed.AggregateLimit
		meta.sources["intake.aggregate_limit"] = SourceFile
	}
	if parsed.RawSourceCeiling != nil {
		cfg.Intake.RawSourceCeiling = *parsed.RawSourceCeiling
		meta.sources["intake.raw_source_ceiling"] = SourceFile
	}
	if parsed.DisableRawCeiling != nil {
		cfg.Intake.DisableRawCeiling = *parsed.DisableRawCeiling
		meta.sources["intake.disable_raw_ceiling"] = SourceFile
	}
	if len(parsed.AcceptedFormats) > 0 {
		cfg.Intake.AcceptedFormats = append([]string(nil), parsed.AcceptedFormats...)
		meta.sources["intake.accepted_formats"] = SourceFile
	}
	if parsed.Concurrency != nil {
		cfg.Intake.Concurrency = *parsed.Concurrency
		meta.sources["intake.concurrency"] = SourceFile
	}

	if parsed.MaxDimension != nil {
		cfg.Intake.Compression.MaxWidth = *parsed.MaxDimension
		cfg.Intake.Compression.MaxHeight = *parsed.MaxDimension
		meta.sources["intake.max_dimension"] = SourceFile
	}
	if parsed.InitialQuality != nil {
		cfg.Intake.Compression.InitialQuality = *parsed.InitialQuality
		meta.sources["intake.initial_quality"] = SourceFile
	}
	if parsed.QualityStep != nil {
		cfg.Intake.Compression.QualityStep = *parsed.QualityStep
		meta.sources["intake.quality_step"] = SourceFile
	}
	if parsed.MaxRetries != nil {
		cfg.Intake.Compression.MaxRetries = *parsed.MaxRetries
		meta.sources["intake.max_retries"] = SourceFile
	}

	if parsed.LogLevel != "" {
		cfg.Observability.Logging.Level = parsed.LogLevel
		meta.sources["observability.log_level"] = SourceFile
	}
	if parsed.MetricsEnabled != nil {
		cfg.Observability.Metrics.Enabled = *parsed.MetricsEnabled
		meta.sources["observability.metrics_enabled"] = SourceFile
	}
	if parsed.MetricsPort != nil {
		cfg.Observability.Metrics.PrometheusPort = *parsed.MetricsPort
		meta.sources["observability.metrics_port"] = SourceFile
	}
	if parsed.TracingEnabled != nil {
		cfg.Observability.Tracing.Enabled = *parsed.TracingEnabled
		meta.sources["observability.tracing_enabled"] = SourceFile
	}
	if parsed.TracingExporter != "" {
		cfg.Observability.Tracing.Exporter = parsed.TracingExporter
		meta.sources["observability.tracing_exporter"] = SourceFile
	}
	if parsed.OTLPEndpoint != "" {
		cfg.Observability.Tracing.OTLPEndpoint = parsed.OTLPEndpoint
		meta.sources["observability.otlp_endpoint"] = SourceFile
	}
	if parsed.ZipkinEndpoint != "" {
		cfg.Observability.Tracing.ZipkinEndpoint = parsed.ZipkinEndpoint
		meta.sources["observability.zipkin_endpoint"] = SourceFile
	}
	if parsed.SampleRate != nil {
		cfg.Observability.Tracing.SampleRate = *parsed.SampleRate
		meta.sources["observability.tracing_sample_rate"] = SourceFile
	}

	return nil
}

func applyEnv(cfg *Config, meta *Metadata, opts loadOptions) error {
	lookup := opts.envLookup
	if lookup == nil {
		lookup = DefaultEnvLookup
	}

	if value, ok := lookup("TASKBOARD_ENV"); ok && value != "" {
		cfg.Environment = value
		meta.sources["environment"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_VERBOSE"); ok && value != "" {
		parsed, err := parseBoolEnv(value)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_VERBOSE: %w", err)
		}
		cfg.Verbose = parsed
		meta.sources["verbose"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_ADDR"); ok && value != "" {
		cfg.ListenAddr = value
		meta.sources["listen_addr"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_PAYLOAD_DIR"); ok && value != "" {
		cfg.PayloadDir = value
		meta.sources["payload_dir"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_CORS_ORIGINS"); ok && value != "" {
		cfg.CORSOrigins = splitList(value)
		meta.sources["cors_origins"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_OBSERVABILITY_CONFIG"); ok && value != "" {
		cfg.ObservabilityPath = value
		meta.sources["observability_path"] = SourceEnv
	}

	if value, ok := lookup("TASKBOARD_MAX_COUNT"); ok && value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_MAX_COUNT: %w", err)
		}
		cfg.Intake.MaxCount = parsed
		meta.sources["intake.max_count"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_PER_FILE_LIMIT"); ok && value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_PER_FILE_LIMIT: %w", err)
		}
		cfg.Intake.PerFileLimit = parsed
		meta.sources["intake.per_file_limit"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_AGGREGATE_LIMIT"); ok && value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_AGGREGATE_LIMIT: %w", err)
		}
		cfg.Intake.AggregateLimit = parsed
		meta.sources["intake.aggregate_limit"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_RAW_CEILING"); ok && value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_RAW_CEILING: %w", err)
		}
		cfg.Intake.RawSourceCeiling = parsed
		meta.sources["intake.raw_source_ceiling"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_DISABLE_RAW_CEILING"); ok && value != "" {
		parsed, err := parseBoolEnv(value)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_DISABLE_RAW_CEILING: %w", err)
		}
		cfg.Intake.DisableRawCeiling = parsed
		meta.sources["intake.disable_raw_ceiling"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_ACCEPTED_FORMATS"); ok && value != "" {
		cfg.Intake.AcceptedFormats = splitList(value)
		meta.sources["intake.accepted_formats"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_CONCURRENCY"); ok && value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_CONCURRENCY: %w", err)
		}
		cfg.Intake.Concurrency = parsed
		meta.sources["intake.concurrency"] = SourceEnv
	}

	if value, ok := lookup("TASKBOARD_MAX_DIMENSION"); ok && value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_MAX_DIMENSION: %w", err)
		}
		cfg.Intake.Compression.MaxWidth = parsed
		cfg.Intake.Compression.MaxHeight = parsed
		meta.sources["intake.max_dimension"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_INITIAL_QUALITY"); ok && value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_INITIAL_QUALITY: %w", err)
		}
		cfg.Intake.Compression.InitialQuality = parsed
		meta.sources["intake.initial_quality"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_QUALITY_STEP"); ok && value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_QUALITY_STEP: %w", err)
		}
		cfg.Intake.Compression.QualityStep = parsed
		meta.sources["intake.quality_step"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_MAX_RETRIES"); ok && value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_MAX_RETRIES: %w", err)
		}
		cfg.Intake.Compression.MaxRetries = parsed
		meta.sources["intake.max_retries"] = SourceEnv
	}

	if value, ok := lookup("TASKBOARD_LOG_LEVEL"); ok && value != "" {
		cfg.Observability.Logging.Level = value
		meta.sources["observability.log_level"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_METRICS_ENABLED"); ok && value != "" {
		parsed, err := parseBoolEnv(value)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_METRICS_ENABLED: %w", err)
		}
		cfg.Observability.Metrics.Enabled = parsed
		meta.sources["observability.metrics_enabled"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_METRICS_PORT"); ok && value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_METRICS_PORT: %w", err)
		}
		cfg.Observability.Metrics.PrometheusPort = parsed
		meta.sources["observability.metrics_port"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_TRACING_ENABLED"); ok && value != "" {
		parsed, err := parseBoolEnv(value)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_TRACING_ENABLED: %w", err)
		}
		cfg.Observability.Tracing.Enabled = parsed
		meta.sources["observability.tracing_enabled"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_TRACING_EXPORTER"); ok && value != "" {
		cfg.Observability.Tracing.Exporter = value
		meta.sources["observability.tracing_exporter"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_OTLP_ENDPOINT"); ok && value != "" {
		cfg.Observability.Tracing.OTLPEndpoint = value
		meta.sources["observability.otlp_endpoint"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_ZIPKIN_ENDPOINT"); ok && value != "" {
		cfg.Observability.Tracing.ZipkinEndpoint = value
		meta.sources["observability.zipkin_endpoint"] = SourceEnv
	}
	if value, ok := lookup("TASKBOARD_TRACING_SAMPLE_RATE"); ok && value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("parse TASKBOARD_TRACING_SAMPLE_RATE: %w", err)
		}
		cfg.Observability.Tracing.SampleRate = parsed
		meta.sources["observability.tracing_sample_rate"] = SourceEnv
	}

	return nil
}

func applyOverrides(cfg *Config, meta *Metadata, overrides Overrides) {
	if overrides.Environment != nil {
		cfg.Environment = *overrides.Environment
		meta.sources["environment"] = SourceOverride
	}
	if overrides.Verbose != nil {
		cfg.Verbose = *overrides.Verbose
		meta.sources["verbose"] = SourceOverride
	}
	if overrides.ListenAddr != nil {
		cfg.ListenAddr = *overrides.ListenAddr
		meta.sources["listen_addr"] = SourceOverride
	}
	if overrides.PayloadDir != nil {
		cfg.PayloadDir = *overrides.PayloadDir
		meta.sources["payload_dir"] = SourceOverride
	}
	if overrides.CORSOrigins != nil {
		cfg.CORSOrigins = append([]string(nil), *overrides.CORSOrigins...)
		meta.sources["cors_origins"] = SourceOverride
	}
	if overrides.ObservabilityPath != nil {
		cfg.ObservabilityPath = *overrides.ObservabilityPath
		meta.sources["observability_path"] = SourceOverride
	}
	if overrides.MaxCount != nil {
		cfg.Intake.MaxCount = *overrides.MaxCount
		meta.sources["intake.max_count"] = SourceOverride
	}
	if overrides.PerFileLimit != nil {
		cfg.Intake.PerFileLimit = *overrides.PerFileLimit
		meta.sources["intake.per_file_limit"] = SourceOverride
	}
	if overrides.AggregateLimit != nil {
		cfg.Intake.AggregateLimit = *overrides.AggregateLimit
		meta.sources["intake.aggregate_limit"] = SourceOverride
	}
	if overrides.RawSourceCeiling != nil {
		cfg.Intake.RawSourceCeiling = *overrides.RawSourceCeiling
		meta.sources["intake.raw_source_ceiling"] = SourceOverride
	}
	if overrides.DisableRawCeiling != nil {
		cfg.Intake.DisableRawCeiling = *overrides.DisableRawCeiling
		meta.sources["intake.disable_raw_ceiling"] = SourceOverride
	}
	if overrides.AcceptedFormats != nil {
		cfg.Intake.AcceptedFormats = append([]string(nil), *overrides.AcceptedFormats...)
		meta.sources["intake.accepted_formats"] = SourceOverride
	}
	if overrides.Concurrency != nil {
		cfg.Intake.Concurrency = *overrides.Concurrency
		meta.sources["intake.concurrency"] = SourceOverride
	}
	if overrides.MaxDimension != nil {
		cfg.Intake.Compression.MaxWidth = *overrides.MaxDimension
		cfg.Intake.Compression.MaxHeight = *overrides.MaxDimension
		meta.sources["intake.max_dimension"] = SourceOverride
	}
	if overrides.InitialQuality != nil {
		cfg.Intake.Compression.InitialQuality = *overrides.InitialQuality
		meta.sources["intake.initial_quality"] = SourceOverride
	}
	if overrides.QualityStep != nil {
		cfg.Intake.Compression.QualityStep = *overrides.QualityStep
		meta.sources["intake.quality_step"] = SourceOverride
	}
	if overrides.MaxRetries != nil {
		cfg.Intake.Compression.MaxRetries = *overrides.MaxRetries
		meta.sources["intake.max_retries"] = SourceOverride
	}
	if overrides.LogLevel != nil {
		cfg.Observability.Logging.Level = *overrides.LogLevel
		meta.sources["observability.log_level"] = SourceOverride
	}
	if overrides.MetricsEnabled != nil {
		cfg.Observability.Metrics.Enabled = *overrides.MetricsEnabled
		meta.sources["observability.metrics_enabled"] = SourceOverride
	}
	if overrides.MetricsPort != nil {
		cfg.Observability.Metrics.PrometheusPort = *overrides.MetricsPort
		meta.sources["observability.metrics_port"] = SourceOverride
	}
	if overrides.TracingEnabled != nil {
		cfg.Observability.Tracing.Enabled = *overrides.TracingEnabled
		meta.sources["observability.tracing_enabled"] = SourceOverride
	}
	if overrides.TracingExporter != nil {
		cfg.Observability.Tracing.Exporter = *overrides.TracingExporter
		meta.sources["observability.tracing_exporter"] = SourceOverride
	}
}

// splitList splits an env list on commas, semicolons and whitespace.
func splitList(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		switch r {
		case ',', ';', ' ', '\n', '\t':
			return true
		default:
			return false
		}
	})
	filtered := parts[:0]
	for _, token := range parts {
		trimmed := strings.TrimSpace(token)
		if trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	return append([]string(nil), filtered...)
}

func parseBoolEnv(value string) (bool, error) {
	trimmed := strings.TrimSpace(value)
	lower := strings.ToLower(trimmed)
	switch lower {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", value)
	}
}
