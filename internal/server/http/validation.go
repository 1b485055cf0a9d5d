package http

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	maxEditorIDLength = 128
	maxFilenameLength = 80
)

var (
	idPattern               = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	disallowedFilenameRunes = regexp.MustCompile(`[^A-Za-z0-9._ -]+`)
)

func validateEditorID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("editor id is required")
	}
	if len(id) > maxEditorIDLength {
		return fmt.Errorf("editor id too long (max %d characters)", maxEditorIDLength)
	}
	if !idPattern.MatchString(id) {
		return errors.New("editor id contains invalid characters")
	}
	return nil
}

func validateAttachmentID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("attachment id is required")
	}
	if len(id) > maxEditorIDLength {
		return fmt.Errorf("attachment id too long (max %d characters)", maxEditorIDLength)
	}
	if !idPattern.MatchString(id) {
		return errors.New("attachment id contains invalid characters")
	}
	return nil
}

// sanitizeUploadName strips path segments and control characters from a
// client-supplied filename so downstream components see deterministic
// names. An unusable name falls back to the provided default.
func sanitizeUploadName(raw, fallback string) string {
	trimmed := strings.TrimSpace(raw)
	if idx := strings.LastIndexAny(trimmed, `/\`); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	sanitized := disallowedFilenameRunes.ReplaceAllString(trimmed, "_")
	sanitized = strings.Trim(sanitized, "._ -")
	if sanitized == "" {
		return fallback
	}
	if len(sanitized) > maxFilenameLength {
		sanitized = sanitized[:maxFilenameLength]
	}
	return sanitized
}
