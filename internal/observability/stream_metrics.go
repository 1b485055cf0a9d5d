package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StreamMetrics tracks health of the editor event stream.
type StreamMetrics struct {
	eventsPublished prometheus.CounterVec
	eventsDropped   prometheus.CounterVec
	subscribers     prometheus.Gauge
	replayServed    prometheus.Counter
}

var (
	defaultStreamMetrics     *StreamMetrics
	defaultStreamMetricsOnce sync.Once
)

// NewStreamMetrics builds a StreamMetrics recorder using the default registry.
func NewStreamMetrics() *StreamMetrics {
	defaultStreamMetricsOnce.Do(func() {
		defaultStreamMetrics = newStreamMetrics(prometheus.DefaultRegisterer)
	})
	return defaultStreamMetrics
}

// NewStreamMetricsWithRegisterer allows tests to provide a dedicated registry.
func NewStreamMetricsWithRegisterer(reg prometheus.Registerer) *StreamMetrics {
	return newStreamMetrics(reg)
}

func newStreamMetrics(reg prometheus.Registerer) *StreamMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &StreamMetrics{
		eventsPublished: *factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskboard",
			Subsystem: "stream",
			Name:      "events_published_total",
			Help:      "Total number of events published to editor subscribers",
		}, []string{"event"}),
		eventsDropped: *factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskboard",
			Subsystem: "stream",
			Name:      "events_dropped_total",
			Help:      "Events dropped because a subscriber buffer was full",
		}, []string{"event"}),
		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "taskboard",
			Subsystem: "stream",
			Name:      "subscribers",
			Help:      "Number of currently connected event subscribers",
		}),
		replayServed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "taskboard",
			Subsystem: "stream",
			Name:      "replay_served_total",
			Help:      "Events served from the replay buffer to newly connected subscribers",
		}),
	}
}

// RecordEventPublished increments the published counter for an event type.
func (m *StreamMetrics) RecordEventPublished(event string) {
	if m == nil {
		return
	}
	counter := m.eventsPublished.WithLabelValues(event)
	counter.Inc()
}

// RecordEventDropped increments the dropped counter for an event type.
func (m *StreamMetrics) RecordEventDropped(event string) {
	if m == nil {
		return
	}
	counter := m.eventsDropped.WithLabelValues(event)
	counter.Inc()
}

// AddSubscriber increments the subscriber gauge.
func (m *StreamMetrics) AddSubscriber() {
	if m == nil || m.subscribers == nil {
		return
	}
	m.subscribers.Inc()
}

// RemoveSubscriber decrements the subscriber gauge.
func (m *StreamMetrics) RemoveSubscriber() {
	if m == nil || m.subscribers == nil {
		return
	}
	m.subscribers.Dec()
}

// RecordReplay counts events replayed to a subscriber on connect.
func (m *StreamMetrics) RecordReplay(count int) {
	if m == nil || m.replayServed == nil {
		return
	}
	if count <= 0 {
		return
	}
	m.replayServed.Add(float64(count))
}
