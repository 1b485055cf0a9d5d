package main

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"taskboard/internal/config"
)

var (
	versionOnce   sync.Once
	cachedVersion string
)

// appVersion returns the best-effort version for the taskboard binary.
// The lookup order is:
//  1. Explicit TASKBOARD_VERSION environment variable (useful for custom builds)
//  2. Go build information when available (e.g. go install taskboard@vX)
//  3. A development fallback string
func appVersion() string {
	versionOnce.Do(func() {
		cachedVersion = detectVersion()
	})
	return cachedVersion
}

func detectVersion() string {
	if v, ok := config.DefaultEnvLookup("TASKBOARD_VERSION"); ok {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}

		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return fmt.Sprintf("dev-%s", setting.Value)
			}
		}
	}

	return "development"
}
