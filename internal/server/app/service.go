package app

import (
	"context"
	"time"

	"taskboard/internal/attachments"
	"taskboard/internal/board"
	"taskboard/internal/intake"
	"taskboard/internal/intake/source"
	"taskboard/internal/logging"
	"taskboard/internal/observability"
	"taskboard/internal/store"
)

// Service coordinates editor sessions, the intake pipeline, the payload
// store and the event broadcaster. It is the single entry point for HTTP
// handlers and the CLI; nothing below it publishes events or records
// batch metrics.
type Service struct {
	registry    *board.Registry
	pipeline    *intake.Pipeline
	payloads    *store.PayloadStore
	broadcaster *EventBroadcaster
	logger      logging.Logger

	metrics *observability.MetricsCollector
	tracer  *observability.TracerProvider
}

// serviceConfig collects option values before constructing the service.
type serviceConfig struct {
	metrics *observability.MetricsCollector
	tracer  *observability.TracerProvider
}

// ServiceOption configures optional behavior for the service.
type ServiceOption func(*serviceConfig)

// WithMetrics wires a metrics collector into the service.
func WithMetrics(metrics *observability.MetricsCollector) ServiceOption {
	return func(cfg *serviceConfig) {
		cfg.metrics = metrics
	}
}

// WithTracer wires a tracer provider into the service.
func WithTracer(tracer *observability.TracerProvider) ServiceOption {
	return func(cfg *serviceConfig) {
		cfg.tracer = tracer
	}
}

// NewService assembles the coordinator. Metrics and tracing default to
// disabled collectors so callers that do not care pay nothing.
func NewService(
	registry *board.Registry,
	pipeline *intake.Pipeline,
	payloads *store.PayloadStore,
	broadcaster *EventBroadcaster,
	logger logging.Logger,
	opts ...ServiceOption,
) *Service {
	cfg := serviceConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.metrics == nil {
		cfg.metrics = &observability.MetricsCollector{}
	}
	if cfg.tracer == nil {
		// A disabled provider never errors.
		cfg.tracer, _ = observability.NewTracerProvider(observability.TracingConfig{})
	}
	return &Service{
		registry:    registry,
		pipeline:    pipeline,
		payloads:    payloads,
		broadcaster: broadcaster,
		logger:      logging.OrNop(logger),
		metrics:     cfg.metrics,
		tracer:      cfg.tracer,
	}
}

// Broadcaster exposes the event broadcaster for stream handlers.
func (s *Service) Broadcaster() *EventBroadcaster {
	return s.broadcaster
}

// Limits returns the active intake policy.
func (s *Service) Limits() intake.Policy {
	return s.pipeline.Policy()
}

// CreateEditor opens a new editor session.
func (s *Service) CreateEditor(ctx context.Context, title string, column board.Column) board.EditorState {
	ed := s.registry.Create(title, column)
	s.metrics.IncrementActiveEditors(ctx)
	s.logger.Info("service: editor %s created (%q, column %s)", ed.ID(), ed.Title(), ed.Column())
	return ed.State()
}

// GetEditor returns a snapshot of one editor session.
func (s *Service) GetEditor(id string) (board.EditorState, error) {
	ed, err := s.registry.Get(id)
	if err != nil {
		return board.EditorState{}, err
	}
	return ed.State(), nil
}

// ListEditors returns snapshots of all sessions, newest first.
func (s *Service) ListEditors() []board.EditorState {
	editors := s.registry.List()
	states := make([]board.EditorState, 0, len(editors))
	for _, ed := range editors {
		states = append(states, ed.State())
	}
	return states
}

// DeleteEditor drops a session along with its stored event history.
func (s *Service) DeleteEditor(ctx context.Context, id string) error {
	if err := s.registry.Delete(id); err != nil {
		return err
	}
	s.broadcaster.ClearEventHistory(id)
	s.metrics.DecrementActiveEditors(ctx)
	s.logger.Info("service: editor %s deleted", id)
	return nil
}

// AddAttachments runs one intake batch against an editor. Accepted payloads
// are offloaded to the content store before the batch commits, so by the
// time clients receive the update event every digest resolves. The returned
// outcome carries the accepted attachments and the rejection report; the
// only error cases are an unknown editor and a cancelled context.
func (s *Service) AddAttachments(ctx context.Context, editorID string, files []source.File) (board.IntakeOutcome, error) {
	ed, err := s.registry.Get(editorID)
	if err != nil {
		return board.IntakeOutcome{}, err
	}

	ctx, span := s.tracer.StartSpan(ctx, observability.SpanIntakeBatch, observability.BatchAttrs(editorID, len(files))...)
	defer span.End()

	start := time.Now()
	outcome, err := ed.RunIntake(ctx, func(ctx context.Context, existing []attachments.Attachment) ([]attachments.Attachment, attachments.RejectionReport, error) {
		accepted, report, err := s.pipeline.AddFiles(ctx, files, existing)
		if err != nil {
			return nil, report, err
		}
		s.offloadPayloads(ctx, editorID, accepted)
		return accepted, report, nil
	})
	duration := time.Since(start)

	if err != nil {
		span.SetAttributes(observability.ErrorAttrs(err)...)
		s.metrics.RecordIntakeBatch(ctx, observability.BatchStatusFailed, 0, nil, 0, duration)
		s.logger.Warn("service: intake batch failed for editor %s: %v", editorID, err)
		return board.IntakeOutcome{}, err
	}

	status := observability.BatchStatusCompleted
	if outcome.Discarded {
		status = observability.BatchStatusDiscarded
	}
	span.SetAttributes(observability.OutcomeAttrs(len(outcome.Accepted), outcome.Report.Len())...)
	span.SetAttributes(observability.StatusAttrs(status)...)
	s.metrics.RecordIntakeBatch(ctx, status, len(outcome.Accepted), categoryCounts(outcome.Report), len(outcome.Report.ReadFailures), duration)

	if len(outcome.Accepted) > 0 {
		state := ed.State()
		s.broadcaster.Publish(newEvent(EventAttachmentsUpdated, editorID, map[string]any{
			"added":      len(outcome.Accepted),
			"count":      len(state.Attachments),
			"total_size": state.TotalSize,
		}))
	}
	if !outcome.Report.IsEmpty() {
		s.broadcaster.Publish(newEvent(EventIntakeRejected, editorID, map[string]any{
			"report": outcome.Report,
		}))
	}

	s.logger.Info("service: intake batch for editor %s: accepted=%d rejected=%d discarded=%v (%.0fms)",
		editorID, len(outcome.Accepted), outcome.Report.Len(), outcome.Discarded, float64(duration.Milliseconds()))
	return outcome, nil
}

// offloadPayloads copies each accepted payload into the content store and
// stamps the digest on the attachment. Offload failures are logged and
// skipped: the attachment still carries its full data URL, so nothing is
// lost beyond the by-digest download route.
func (s *Service) offloadPayloads(ctx context.Context, editorID string, accepted []attachments.Attachment) {
	_, span := s.tracer.StartSpan(ctx, observability.SpanPayloadPut, observability.EditorAttrs(editorID)...)
	defer span.End()

	for i := range accepted {
		_, data, err := attachments.ParseDataURL(accepted[i].DataURL)
		if err != nil {
			s.logger.Warn("service: cannot decode payload for %s: %v", accepted[i].Filename, err)
			continue
		}
		digest, err := s.payloads.Put(data, accepted[i].Extension)
		if err != nil {
			s.logger.Warn("service: payload offload failed for %s: %v", accepted[i].Filename, err)
			continue
		}
		accepted[i].Digest = digest
		s.metrics.RecordPayloadStored(ctx, int64(len(data)))
	}
}

// RemoveAttachment deletes one attachment from an editor. Removing an ID
// that is already gone is a no-op; the bool reports whether anything
// changed. The removal event fires only on actual removal.
func (s *Service) RemoveAttachment(_ context.Context, editorID, attachmentID string) (bool, error) {
	ed, err := s.registry.Get(editorID)
	if err != nil {
		return false, err
	}

	removed := ed.Remove(attachmentID)
	if removed {
		s.broadcaster.Publish(newEvent(EventAttachmentRemoved, editorID, map[string]any{
			"attachment_id": attachmentID,
			"count":         ed.Count(),
		}))
		s.logger.Info("service: removed attachment %s from editor %s", attachmentID, editorID)
	}
	return removed, nil
}

// ClearAttachments empties an editor's attachment set and reports how many
// entries were dropped. In-flight intake batches observe the clear and
// discard their results instead of committing.
func (s *Service) ClearAttachments(_ context.Context, editorID string) (int, error) {
	ed, err := s.registry.Get(editorID)
	if err != nil {
		return 0, err
	}

	dropped := ed.Clear()
	s.broadcaster.Publish(newEvent(EventAttachmentsCleared, editorID, map[string]any{
		"dropped": dropped,
	}))
	s.logger.Info("service: cleared %d attachment(s) from editor %s", dropped, editorID)
	return dropped, nil
}

// Attachments returns the committed attachment list for an editor.
func (s *Service) Attachments(editorID string) ([]attachments.Attachment, error) {
	ed, err := s.registry.Get(editorID)
	if err != nil {
		return nil, err
	}
	return ed.Attachments(), nil
}

// Payload fetches a stored payload by digest.
func (s *Service) Payload(ctx context.Context, digest string) ([]byte, string, error) {
	_, span := s.tracer.StartSpan(ctx, observability.SpanPayloadGet)
	defer span.End()

	data, ext, err := s.payloads.Get(digest)
	if err != nil {
		span.SetAttributes(observability.ErrorAttrs(err)...)
		return nil, "", err
	}
	return data, ext, nil
}

// categoryCounts flattens the report's per-category counts into the label
// map the metrics collector expects.
func categoryCounts(report attachments.RejectionReport) map[string]int {
	byCategory := report.CountsByCategory()
	if len(byCategory) == 0 {
		return nil
	}
	counts := make(map[string]int, len(byCategory))
	for category, n := range byCategory {
		counts[string(category)] = n
	}
	return counts
}
