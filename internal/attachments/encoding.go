package attachments

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	interrors "taskboard/internal/errors"
)

// dataURLPattern matches data URLs of the form
// data:image/png;base64,iVBORw0... with an optional parameter segment.
var dataURLPattern = regexp.MustCompile(`(?is)^data:([^;,]+)?(;[^,]*)?,\s*(.+)$`)

// EstimateEncodedSize derives the byte size of a base64 payload from its
// textual length using the constant 4:3 ratio (three bytes of binary per
// four characters of text). A data: prefix is stripped before measuring.
//
// The result intentionally ignores base64 padding and the data-URL prefix.
// Budget arithmetic and the byte counts shown to users are calibrated
// against this estimate, so it must not be replaced with a decoded
// measurement.
func EstimateEncodedSize(encoded string) int64 {
	payload := strings.TrimSpace(encoded)
	if strings.HasPrefix(strings.ToLower(payload), "data:") {
		if idx := strings.Index(payload, ","); idx >= 0 {
			payload = payload[idx+1:]
		}
	}
	return int64(len(payload)) * 3 / 4
}

// EstimateRawEncodedSize predicts what EstimateEncodedSize will report for
// rawLen bytes once base64-encoded. The compressor's quality ladder compares
// candidate encodes against the per-file limit with this, so the ladder and
// the budget arithmetic always agree.
func EstimateRawEncodedSize(rawLen int) int64 {
	if rawLen <= 0 {
		return 0
	}
	return (int64(rawLen) + 2) / 3 * 3
}

// BuildDataURL wraps raw bytes in a self-contained data URL.
func BuildDataURL(mimeType string, raw []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

// IsDataURL reports whether s looks like a data URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "data:")
}

// ParseDataURL extracts the media type and decoded bytes from a data URL.
// Non-base64 (percent-encoded) payloads are rejected: every producer in this
// system emits base64, and accepting a second encoding here would let
// unvalidated bytes skip the sniffing step.
func ParseDataURL(s string) (mimeType string, data []byte, err error) {
	matches := dataURLPattern.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return "", nil, interrors.NewInvalidInput("payload is not a data URL", nil)
	}

	mimeType = strings.ToLower(strings.TrimSpace(matches[1]))
	if mimeType == "" {
		mimeType = "text/plain"
	}
	params := strings.ToLower(matches[2])
	payload := matches[3]

	if !strings.Contains(params, "base64") {
		return "", nil, interrors.NewInvalidInput("data URL payload is not base64-encoded", nil)
	}

	data, err = DecodeBase64(payload)
	if err != nil {
		return "", nil, interrors.NewInvalidInput("data URL payload is not valid base64", err)
	}
	return mimeType, data, nil
}

// DecodeBase64 decodes a payload with the standard alphabet, tolerating
// missing padding.
func DecodeBase64(payload string) ([]byte, error) {
	trimmed := strings.TrimSpace(payload)
	if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil {
		return decoded, nil
	}
	decoded, err := base64.RawStdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return decoded, nil
}
