package imaging

import (
	"context"
	"fmt"

	"taskboard/internal/attachments"
	"taskboard/internal/logging"
)

// Defaults for the resample-and-re-encode step. The ladder starts at
// InitialQuality and walks down by QualityStep up to MaxRetries times, so
// with these values the encoder tries qualities 90, 70, 50, 30, 10.
const (
	DefaultMaxDimension   = 800
	DefaultInitialQuality = 90
	DefaultQualityStep    = 20
	DefaultMaxRetries     = 4

	minJPEGQuality = 10
)

// Params configures the compression step.
type Params struct {
	MaxWidth       int `json:"max_width" yaml:"max_width"`
	MaxHeight      int `json:"max_height" yaml:"max_height"`
	InitialQuality int `json:"initial_quality" yaml:"initial_quality"`
	QualityStep    int `json:"quality_step" yaml:"quality_step"`
	MaxRetries     int `json:"max_retries" yaml:"max_retries"`
}

// Normalize fills zero values with defaults and clamps nonsense.
func (p Params) Normalize() Params {
	if p.MaxWidth <= 0 {
		p.MaxWidth = DefaultMaxDimension
	}
	if p.MaxHeight <= 0 {
		p.MaxHeight = DefaultMaxDimension
	}
	if p.InitialQuality <= 0 || p.InitialQuality > 100 {
		p.InitialQuality = DefaultInitialQuality
	}
	if p.QualityStep <= 0 {
		p.QualityStep = DefaultQualityStep
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	return p
}

// Attempt records one encode of the quality ladder.
type Attempt struct {
	Quality       int   `json:"quality"`
	EstimatedSize int64 `json:"estimated_size"`
}

// Result is the outcome of compressing one source image.
type Result struct {
	// Data holds the smallest JPEG produced across the ladder.
	Data          []byte
	EstimatedSize int64
	Quality       int
	Width         int
	Height        int
	SourceWidth   int
	SourceHeight  int
	Attempts      []Attempt
	// UnderLimit reports whether EstimatedSize fits the per-file limit the
	// ladder was given. The caller decides what to do when it does not.
	UnderLimit bool
}

// Compressor resamples a source image to fit the configured bounds and
// re-encodes it as JPEG, stepping quality down until the estimated encoded
// size fits the limit or retries are exhausted. Every encode starts from the
// same decoded source pixels; compressed output is never fed back in.
type Compressor struct {
	params Params
	logger logging.Logger
}

// NewCompressor creates a Compressor with normalized params.
func NewCompressor(params Params, logger logging.Logger) *Compressor {
	return &Compressor{
		params: params.Normalize(),
		logger: logging.OrNop(logger),
	}
}

// Params returns the normalized parameters in effect.
func (c *Compressor) Params() Params {
	return c.params
}

// Compress runs the resample and quality ladder for one source image. The
// returned error is a decode failure or context cancellation; exceeding the
// limit is not an error and is reported through Result.UnderLimit.
func (c *Compressor) Compress(ctx context.Context, source []byte, limit int64) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := Decode(source)
	if err != nil {
		return nil, err
	}

	srcBounds := img.Bounds()
	resampled := Resample(img, c.params.MaxWidth, c.params.MaxHeight)
	outBounds := resampled.Bounds()

	result := &Result{
		SourceWidth:  srcBounds.Dx(),
		SourceHeight: srcBounds.Dy(),
		Width:        outBounds.Dx(),
		Height:       outBounds.Dy(),
	}

	quality := c.params.InitialQuality
	for attempt := 0; attempt <= c.params.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		encoded, err := EncodeJPEG(resampled, quality)
		if err != nil {
			return nil, fmt.Errorf("quality ladder attempt %d: %w", attempt+1, err)
		}

		estimated := attachments.EstimateRawEncodedSize(len(encoded))
		result.Attempts = append(result.Attempts, Attempt{Quality: quality, EstimatedSize: estimated})
		c.logger.Debug("encode attempt %d: quality=%d estimated=%dB limit=%dB", attempt+1, quality, estimated, limit)

		if result.Data == nil || estimated < result.EstimatedSize {
			result.Data = encoded
			result.EstimatedSize = estimated
			result.Quality = quality
		}

		if result.EstimatedSize <= limit {
			result.UnderLimit = true
			return result, nil
		}

		if quality <= minJPEGQuality {
			break
		}
		quality -= c.params.QualityStep
		if quality < minJPEGQuality {
			quality = minJPEGQuality
		}
	}

	result.UnderLimit = result.EstimatedSize <= limit
	return result, nil
}
