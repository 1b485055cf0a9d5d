package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"taskboard/internal/intake"
)

// SaveIntakeLimits persists the effective intake limits to the configuration file.
// It merges the new values with any existing configuration keys and returns the
// path that was updated.
func SaveIntakeLimits(policy intake.Policy, opts ...Option) (string, error) {
	options := loadOptions{
		readFile: os.ReadFile,
		homeDir:  os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(&options)
	}

	configPath := options.configPath
	if configPath == "" {
		resolved, err := DefaultConfigPath(options.homeDir)
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		configPath = resolved
	}

	var existing map[string]any
	if options.readFile != nil {
		if data, err := options.readFile(configPath); err == nil {
			if len(data) > 0 {
				if err := json.Unmarshal(data, &existing); err != nil {
					return "", fmt.Errorf("parse config file: %w", err)
				}
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("read config file: %w", err)
		}
	}
	if existing == nil {
		existing = map[string]any{}
	}

	existing["max_count"] = policy.MaxCount
	existing["per_file_limit"] = policy.PerFileLimit
	existing["aggregate_limit"] = policy.AggregateLimit
	existing["raw_source_ceiling"] = policy.RawSourceCeiling
	existing["disable_raw_ceiling"] = policy.DisableRawCeiling
	existing["accepted_formats"] = policy.AcceptedFormats
	existing["concurrency"] = policy.Concurrency
	existing["max_dimension"] = policy.Compression.MaxWidth
	existing["initial_quality"] = policy.Compression.InitialQuality
	existing["quality_step"] = policy.Compression.QualityStep
	existing["max_retries"] = policy.Compression.MaxRetries

	encoded, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	encoded = append(encoded, '\n')

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("ensure config directory: %w", err)
	}
	if err := os.WriteFile(configPath, encoded, 0o600); err != nil {
		return "", fmt.Errorf("write config file: %w", err)
	}

	return configPath, nil
}
