package intake

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"taskboard/internal/attachments"
	interrors "taskboard/internal/errors"
	"taskboard/internal/imaging"
	"taskboard/internal/intake/source"
	"taskboard/internal/logging"
)

// compressionCacheSize bounds the digest-keyed cache of compression results.
// Dropping the same screenshot twice is common enough that skipping a repeat
// decode and quality ladder pays for the memory.
const compressionCacheSize = 64

type verdict int

const (
	verdictPlanned verdict = iota
	verdictInvalidFormat
	verdictOversizedSource
	verdictReadFailed
)

// candidate tracks one input file across the pipeline stages.
type candidate struct {
	file    source.File
	verdict verdict
	reason  string

	data   []byte
	digest string

	result *imaging.Result
	err    error
}

// Pipeline validates and compresses image candidates against a fixed Policy.
// Instances are safe for concurrent use.
type Pipeline struct {
	policy     Policy
	compressor *imaging.Compressor
	cache      *lru.Cache[string, *imaging.Result]
	logger     logging.Logger
}

// NewPipeline builds a pipeline from the given policy, filling unset limits
// with defaults.
func NewPipeline(policy Policy, logger logging.Logger) (*Pipeline, error) {
	policy = policy.Normalize()
	cache, err := lru.New[string, *imaging.Result](compressionCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create compression cache: %w", err)
	}
	logger = logging.OrNop(logger)
	return &Pipeline{
		policy:     policy,
		compressor: imaging.NewCompressor(policy.Compression, logger),
		cache:      cache,
		logger:     logger,
	}, nil
}

// Policy returns the normalized limits the pipeline enforces.
func (pl *Pipeline) Policy() Policy {
	return pl.policy
}

// AddFiles runs one intake batch. Each candidate is checked in input order:
// attachment count first, then declared and sniffed media type, raw source
// ceiling, per-file size after compression, and finally the card's aggregate
// budget. The first check that fails decides the file's rejection category.
// Files that cannot be read or decoded land in the report's ReadFailures
// instead of a category. Once a candidate trips the count limit, every
// remaining candidate is rejected for count without further processing.
//
// Compression runs on up to Policy.Concurrency goroutines, but acceptance is
// decided strictly in input order, so the outcome matches a one-at-a-time
// run. Rejections never abort the batch; the error return is reserved for
// context cancellation.
func (pl *Pipeline) AddFiles(ctx context.Context, files []source.File, existing []attachments.Attachment) ([]attachments.Attachment, attachments.RejectionReport, error) {
	var report attachments.RejectionReport
	if len(files) == 0 {
		return nil, report, nil
	}

	// A full card rejects the whole batch before any bytes are read.
	if len(existing) >= pl.policy.MaxCount {
		for _, f := range files {
			report.Add(attachments.CategoryTooManyImages, f.Name)
		}
		pl.logger.Info("intake: card already has %d/%d attachments, rejected %d candidate(s) unread",
			len(existing), pl.policy.MaxCount, len(files))
		return nil, report, nil
	}

	states := pl.screen(files)
	if err := pl.compressAll(ctx, states); err != nil {
		return nil, attachments.RejectionReport{}, err
	}
	accepted := pl.admit(states, existing, &report)

	pl.logger.Info("intake: %d candidate(s), %d accepted, %d rejected, %d read failure(s)",
		len(files), len(accepted), report.Len()-len(report.ReadFailures), len(report.ReadFailures))
	return accepted, report, nil
}

// screen reads and sniffs every candidate in input order, recording a
// verdict but deciding nothing: rejection categories are assigned later by
// admit, so that the count check stays ahead of all others.
func (pl *Pipeline) screen(files []source.File) []*candidate {
	states := make([]*candidate, len(files))
	for i, f := range files {
		st := &candidate{file: f}
		states[i] = st

		if f.DeclaredMIME != "" && !pl.policy.AcceptsMIME(f.DeclaredMIME) {
			st.verdict = verdictInvalidFormat
			continue
		}

		// Read at most one byte past the ceiling so an oversized source is
		// detected without buffering the rest of it.
		var readCap int64
		if !pl.policy.DisableRawCeiling {
			readCap = pl.policy.RawSourceCeiling
		}
		data, err := f.Read(readCap)
		if err != nil {
			st.verdict = verdictReadFailed
			st.reason = readFailureReason(err)
			pl.logger.Warn("intake: reading %s failed: %v", f.Name, err)
			continue
		}

		// The sniffed type outranks the declared one: a GIF renamed to
		// photo.jpg is still a GIF.
		if detected := DetectMIME(data); !pl.policy.acceptsMediaType(detected) {
			pl.logger.Debug("intake: %s sniffed as %q, rejecting", f.Name, detected)
			st.verdict = verdictInvalidFormat
			continue
		}

		if !pl.policy.DisableRawCeiling && int64(len(data)) > pl.policy.RawSourceCeiling {
			st.verdict = verdictOversizedSource
			continue
		}

		sum := sha256.Sum256(data)
		st.data = data
		st.digest = hex.EncodeToString(sum[:])
	}
	return states
}

// compressAll runs the quality ladder for every still-planned candidate,
// bounded by Policy.Concurrency. Identical payloads share one cached result.
// Per-file failures are recorded on the candidate; only cancellation aborts.
func (pl *Pipeline) compressAll(ctx context.Context, states []*candidate) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pl.policy.Concurrency)

	for _, st := range states {
		if st.verdict != verdictPlanned {
			continue
		}
		st := st
		g.Go(func() error {
			if cached, ok := pl.cache.Get(st.digest); ok {
				st.result = cached
				return nil
			}
			res, err := pl.compressor.Compress(ctx, st.data, pl.policy.PerFileLimit)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				st.err = err
				return nil
			}
			pl.cache.Add(st.digest, res)
			st.result = res
			return nil
		})
	}
	return g.Wait()
}

// admit walks candidates in input order and applies the ordered checks. The
// count check runs first for every file, even ones already known to be
// invalid, so a full card reports too_many_images rather than the file's
// own defect. Files rejected after compression free their slot for later
// candidates in the same batch.
func (pl *Pipeline) admit(states []*candidate, existing []attachments.Attachment, report *attachments.RejectionReport) []attachments.Attachment {
	var (
		accepted  []attachments.Attachment
		batchSize int64
		tripped   bool
	)
	existingSize := attachments.TotalSize(existing)

	for _, st := range states {
		name := st.file.Name

		if tripped || len(existing)+len(accepted)+1 > pl.policy.MaxCount {
			tripped = true
			report.Add(attachments.CategoryTooManyImages, name)
			continue
		}

		switch st.verdict {
		case verdictInvalidFormat:
			report.Add(attachments.CategoryInvalidFormat, name)
			continue
		case verdictOversizedSource:
			report.Add(attachments.CategoryOversizedSource, name)
			continue
		case verdictReadFailed:
			report.AddReadFailure(name, st.reason)
			continue
		}

		if st.err != nil {
			report.AddReadFailure(name, readFailureReason(st.err))
			continue
		}

		res := st.result
		if !res.UnderLimit {
			report.Add(attachments.CategoryOversizedAfterCompression, name)
			continue
		}

		dataURL := attachments.BuildDataURL(pl.policy.OutputMIME, res.Data)
		size := attachments.EstimateEncodedSize(dataURL)
		if existingSize+batchSize+size > pl.policy.AggregateLimit {
			report.Add(attachments.CategoryTotalSizeExceeded, name)
			continue
		}

		accepted = append(accepted, pl.buildAttachment(name, dataURL, size, res))
		batchSize += size
	}
	return accepted
}

func (pl *Pipeline) buildAttachment(sourceName, dataURL string, size int64, res *imaging.Result) attachments.Attachment {
	filename := attachments.OutputFilename(sourceName, pl.policy.OutputExtension)
	base, _ := attachments.SplitName(filename)
	sum := sha256.Sum256(res.Data)

	pl.logger.Debug("intake: accepted %s as %s, %dx%d -> %dx%d at quality %d after %d attempt(s), %d bytes",
		sourceName, filename, res.SourceWidth, res.SourceHeight, res.Width, res.Height,
		res.Quality, len(res.Attempts), size)

	return attachments.Attachment{
		ID:        attachments.NewID(),
		Filename:  filename,
		BaseName:  base,
		Extension: pl.policy.OutputExtension,
		MIMEType:  pl.policy.OutputMIME,
		Size:      size,
		DataURL:   dataURL,
		Digest:    hex.EncodeToString(sum[:]),
	}
}

// readFailureReason strips the filename prefix from a read error so the
// report does not repeat it next to the Filename field.
func readFailureReason(err error) string {
	var rerr *interrors.ReadError
	if errors.As(err, &rerr) && rerr.Err != nil {
		return fmt.Sprintf("%s: %v", rerr.Op, rerr.Err)
	}
	return err.Error()
}
