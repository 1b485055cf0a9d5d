// Package intake validates, compresses and admits image files into a card's
// attachment list. Every limit the pipeline enforces lives in Policy so the
// API layer, the CLI and the tests all budget against the same numbers.
package intake

import (
	"mime"
	"net/http"
	"strings"

	"taskboard/internal/imaging"
)

const (
	// DefaultMaxCount is the most attachments a single card may carry.
	DefaultMaxCount = 8

	// DefaultPerFileLimit caps the estimated encoded size of one stored
	// attachment payload (400 KiB).
	DefaultPerFileLimit = 400 << 10

	// DefaultAggregateLimit caps the summed estimated size of all
	// attachments on one card (810 KiB).
	DefaultAggregateLimit = 810 << 10

	// DefaultRawCeiling rejects source files too large to decode at all
	// (20 MiB), before any compression is attempted.
	DefaultRawCeiling = 20 << 20

	// DefaultConcurrency bounds how many candidates compress in parallel.
	DefaultConcurrency = 4
)

// Policy carries the intake limits and output shape.
type Policy struct {
	MaxCount         int   `json:"max_count" yaml:"max_count"`
	PerFileLimit     int64 `json:"per_file_limit" yaml:"per_file_limit"`
	AggregateLimit   int64 `json:"aggregate_limit" yaml:"aggregate_limit"`
	RawSourceCeiling int64 `json:"raw_source_ceiling" yaml:"raw_source_ceiling"`

	// DisableRawCeiling skips the pre-decode size gate. Off by default so
	// the zero value keeps the ceiling enforced.
	DisableRawCeiling bool `json:"disable_raw_ceiling,omitempty" yaml:"disable_raw_ceiling,omitempty"`

	// AcceptedFormats lists the media types admitted past the format gate.
	AcceptedFormats []string `json:"accepted_formats" yaml:"accepted_formats"`

	// OutputExtension and OutputMIME describe the stored payload. Every
	// accepted file is re-encoded, so these are fixed per policy, not
	// inherited from the source.
	OutputExtension string `json:"output_extension" yaml:"output_extension"`
	OutputMIME      string `json:"output_mime" yaml:"output_mime"`

	Concurrency int            `json:"concurrency" yaml:"concurrency"`
	Compression imaging.Params `json:"compression" yaml:"compression"`
}

// DefaultPolicy returns the stock limits. GIF is deliberately absent from
// the accepted formats: animated sources re-encode to a meaningless single
// frame, so they are rejected up front.
func DefaultPolicy() Policy {
	return Policy{
		MaxCount:         DefaultMaxCount,
		PerFileLimit:     DefaultPerFileLimit,
		AggregateLimit:   DefaultAggregateLimit,
		RawSourceCeiling: DefaultRawCeiling,
		AcceptedFormats:  []string{"image/jpeg", "image/png", "image/webp"},
		OutputExtension:  "jpg",
		OutputMIME:       "image/jpeg",
		Concurrency:      DefaultConcurrency,
		Compression: imaging.Params{
			MaxWidth:       imaging.DefaultMaxDimension,
			MaxHeight:      imaging.DefaultMaxDimension,
			InitialQuality: imaging.DefaultInitialQuality,
			QualityStep:    imaging.DefaultQualityStep,
			MaxRetries:     imaging.DefaultMaxRetries,
		},
	}
}

// Normalize fills unset fields with defaults so a partially-specified
// policy from config is safe to run.
func (p Policy) Normalize() Policy {
	defaults := DefaultPolicy()
	if p.MaxCount <= 0 {
		p.MaxCount = defaults.MaxCount
	}
	if p.PerFileLimit <= 0 {
		p.PerFileLimit = defaults.PerFileLimit
	}
	if p.AggregateLimit <= 0 {
		p.AggregateLimit = defaults.AggregateLimit
	}
	if p.RawSourceCeiling <= 0 {
		p.RawSourceCeiling = defaults.RawSourceCeiling
	}
	if len(p.AcceptedFormats) == 0 {
		p.AcceptedFormats = defaults.AcceptedFormats
	}
	if p.OutputExtension == "" {
		p.OutputExtension = defaults.OutputExtension
	}
	if p.OutputMIME == "" {
		p.OutputMIME = defaults.OutputMIME
	}
	if p.Concurrency <= 0 {
		p.Concurrency = defaults.Concurrency
	}
	p.Compression = p.Compression.Normalize()
	return p
}

// AcceptsMIME reports whether the policy admits the given media type.
// Parameters (charset and friends) are ignored and the informal image/jpg
// spelling is treated as image/jpeg.
func (p Policy) AcceptsMIME(mimeType string) bool {
	return p.acceptsMediaType(canonicalMediaType(mimeType))
}

func (p Policy) acceptsMediaType(mediaType string) bool {
	if mediaType == "" {
		return false
	}
	for _, accepted := range p.AcceptedFormats {
		if mediaType == accepted {
			return true
		}
	}
	return false
}

func canonicalMediaType(mimeType string) string {
	trimmed := strings.ToLower(strings.TrimSpace(mimeType))
	if trimmed == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(trimmed)
	if err != nil {
		mediaType = trimmed
	}
	if mediaType == "image/jpg" {
		mediaType = "image/jpeg"
	}
	return mediaType
}

// DetectMIME sniffs the payload's actual media type from its leading bytes.
// Declared types lie (a GIF renamed to photo.jpg still sniffs as image/gif),
// so the pipeline trusts this over the candidate's own claim.
func DetectMIME(data []byte) string {
	return canonicalMediaType(http.DetectContentType(data))
}
