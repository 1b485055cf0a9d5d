package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStreamMetricsRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStreamMetricsWithRegisterer(reg)

	m.RecordEventPublished("attachments.updated")
	m.RecordEventPublished("attachments.updated")
	m.RecordEventPublished("intake.rejected")
	m.RecordEventDropped("attachments.updated")
	m.AddSubscriber()
	m.AddSubscriber()
	m.RemoveSubscriber()
	m.RecordReplay(5)
	m.RecordReplay(0)
	m.RecordReplay(-3)

	if got := testutil.ToFloat64(m.eventsPublished.WithLabelValues("attachments.updated")); got != 2 {
		t.Errorf("events published = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.eventsPublished.WithLabelValues("intake.rejected")); got != 1 {
		t.Errorf("rejected events published = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.eventsDropped.WithLabelValues("attachments.updated")); got != 1 {
		t.Errorf("events dropped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.subscribers); got != 1 {
		t.Errorf("subscribers = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.replayServed); got != 5 {
		t.Errorf("replay served = %v, want 5", got)
	}
}

func TestStreamMetricsNilReceiver(t *testing.T) {
	var m *StreamMetrics

	// All recorders must be safe on a nil receiver.
	m.RecordEventPublished("attachments.updated")
	m.RecordEventDropped("attachments.updated")
	m.AddSubscriber()
	m.RemoveSubscriber()
	m.RecordReplay(3)
}
