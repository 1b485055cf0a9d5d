package observability

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete observability configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures the minimum level of the process logger
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default observability configuration
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:        true,
			PrometheusPort: 9090,
		},
		Tracing: TracingConfig{
			Enabled:        false,
			Exporter:       "otlp",
			OTLPEndpoint:   "localhost:4318",
			SampleRate:     1.0,
			ServiceName:    "taskboard",
			ServiceVersion: "1.0.0",
		},
	}
}

// defaultConfigPath resolves ~/.taskboard/observability.yaml.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".taskboard", "observability.yaml")
}

// LoadConfig loads observability configuration from file
func LoadConfig(configPath string) (Config, error) {
	// Start with defaults
	config := DefaultConfig()

	if configPath == "" {
		configPath = defaultConfigPath()
	}

	// If file doesn't exist, return defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileConfig struct {
		Observability Config `yaml:"observability"`
	}

	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge with defaults (only override non-zero values)
	if fileConfig.Observability.Logging.Level != "" {
		config.Logging.Level = fileConfig.Observability.Logging.Level
	}

	// Metrics config
	config.Metrics.Enabled = fileConfig.Observability.Metrics.Enabled
	if fileConfig.Observability.Metrics.PrometheusPort > 0 {
		config.Metrics.PrometheusPort = fileConfig.Observability.Metrics.PrometheusPort
	}

	// Tracing config - always override the Enabled flag from file
	config.Tracing.Enabled = fileConfig.Observability.Tracing.Enabled
	if fileConfig.Observability.Tracing.Exporter != "" {
		config.Tracing.Exporter = fileConfig.Observability.Tracing.Exporter
	}
	if fileConfig.Observability.Tracing.OTLPEndpoint != "" {
		config.Tracing.OTLPEndpoint = fileConfig.Observability.Tracing.OTLPEndpoint
	}
	if fileConfig.Observability.Tracing.ZipkinEndpoint != "" {
		config.Tracing.ZipkinEndpoint = fileConfig.Observability.Tracing.ZipkinEndpoint
	}
	// Sample rate: only override if explicitly set (> 0)
	// A rate of exactly 0.0 cannot be expressed via the file; disable
	// tracing instead
	if fileConfig.Observability.Tracing.SampleRate > 0 && fileConfig.Observability.Tracing.SampleRate <= 1.0 {
		config.Tracing.SampleRate = fileConfig.Observability.Tracing.SampleRate
	}
	if fileConfig.Observability.Tracing.ServiceName != "" {
		config.Tracing.ServiceName = fileConfig.Observability.Tracing.ServiceName
	}
	if fileConfig.Observability.Tracing.ServiceVersion != "" {
		config.Tracing.ServiceVersion = fileConfig.Observability.Tracing.ServiceVersion
	}

	return config, nil
}

// SaveConfig saves observability configuration to file
func SaveConfig(config Config, configPath string) error {
	if configPath == "" {
		configPath = defaultConfigPath()
		if configPath == "" {
			return fmt.Errorf("failed to resolve home directory for config path")
		}
	}

	// Create directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data := struct {
		Observability Config `yaml:"observability"`
	}{
		Observability: config,
	}

	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, yamlData, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
