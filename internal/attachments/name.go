package attachments

import (
	"path"
	"regexp"
	"strings"
)

const maxFilenameLength = 80

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFileName converts a user-supplied filename into a filesystem- and
// log-safe value. Directory components are dropped and disallowed characters
// collapse to underscores. Media type backfills a missing extension.
func SanitizeFileName(name, mediaType string) string {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return ""
	}
	cleaned = path.Base(cleaned)
	cleaned = filenameSanitizer.ReplaceAllString(cleaned, "_")
	cleaned = strings.Trim(cleaned, "._-")
	if cleaned == "" {
		return ""
	}
	if len(cleaned) > maxFilenameLength {
		cleaned = cleaned[:maxFilenameLength]
	}
	if !strings.Contains(cleaned, ".") {
		if ext := InferExtension(mediaType); ext != "" {
			cleaned = cleaned + "." + ext
		}
	}
	return cleaned
}

// SplitName separates a filename into its base name and lowercased
// extension (without the dot). Files without an extension yield an empty
// extension and the full name as base.
func SplitName(filename string) (base, ext string) {
	cleaned := strings.TrimSpace(filename)
	if cleaned == "" {
		return "", ""
	}
	cleaned = path.Base(cleaned)
	idx := strings.LastIndex(cleaned, ".")
	if idx <= 0 || idx == len(cleaned)-1 {
		return cleaned, ""
	}
	return cleaned[:idx], strings.ToLower(cleaned[idx+1:])
}

// InferExtension maps a media type to its canonical extension.
func InferExtension(mediaType string) string {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return ""
	}
}

// MIMEForExtension is the inverse of InferExtension for the image types the
// pipeline handles.
func MIMEForExtension(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

// OutputFilename builds the stored name for a re-encoded attachment: the
// sanitized base name of the source with the output format's extension.
func OutputFilename(sourceName, outputExt string) string {
	base, _ := SplitName(SanitizeFileName(sourceName, ""))
	if base == "" {
		base = "image"
	}
	return base + "." + strings.TrimPrefix(outputExt, ".")
}
