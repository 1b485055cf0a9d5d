package app

import (
	"sync"

	"taskboard/internal/logging"
	"taskboard/internal/observability"
)

// EventBroadcaster fans editor events out to subscribed stream clients.
// Each client owns a buffered channel; sends never block the publisher.
type EventBroadcaster struct {
	mu      sync.RWMutex
	clients map[string][]chan Event

	// Event history per editor, replayed to late-joining clients.
	historyMu    sync.RWMutex
	eventHistory map[string][]Event
	maxHistory   int

	logger logging.Logger

	metrics broadcasterMetrics
	stream  *observability.StreamMetrics
}

// broadcasterMetrics tracks delivery counters for the metrics endpoint.
type broadcasterMetrics struct {
	mu                sync.RWMutex
	totalEventsSent   int64
	droppedEvents     int64
	totalConnections  int64
	activeConnections int64
}

// NewEventBroadcaster creates a broadcaster with no subscribers.
func NewEventBroadcaster(logger logging.Logger) *EventBroadcaster {
	return &EventBroadcaster{
		clients:      make(map[string][]chan Event),
		eventHistory: make(map[string][]Event),
		maxHistory:   256,
		logger:       logging.OrNop(logger),
	}
}

// SetStreamMetrics attaches Prometheus stream counters. A nil collector
// leaves delivery unobserved, which is fine for tests and the CLI.
func (b *EventBroadcaster) SetStreamMetrics(m *observability.StreamMetrics) {
	b.stream = m
}

// Publish stores the event in the editor's replay history and delivers it
// to every subscribed client.
func (b *EventBroadcaster) Publish(event Event) {
	if event.EditorID == "" {
		b.logger.Warn("[Publish] Dropping event with empty editor ID: type=%s", event.Type)
		return
	}

	b.storeEventHistory(event)

	b.mu.RLock()
	clients := b.clients[event.EditorID]
	b.mu.RUnlock()

	if len(clients) == 0 {
		b.logger.Debug("[Publish] No clients for editor %s (event: %s)", event.EditorID, event.Type)
		return
	}
	b.broadcastToClients(clients, event)
}

// broadcastToClients sends event to all clients in the list.
func (b *EventBroadcaster) broadcastToClients(clients []chan Event, event Event) {
	b.logger.Debug("[broadcastToClients] Sending event type=%s to %d clients for editor=%s", event.Type, len(clients), event.EditorID)

	for i, ch := range clients {
		select {
		case ch <- event:
			b.metrics.incrementEventsSent()
			b.stream.RecordEventPublished(event.Type)
		default:
			if b.ensureCriticalEventDelivery(i, len(clients), ch, event) {
				continue
			}
			// Client buffer full, skip this event to avoid blocking.
			b.logger.Warn("Client buffer full for editor %s, dropping event %s (client %d/%d)", event.EditorID, event.Type, i+1, len(clients))
			b.metrics.incrementDroppedEvents()
			b.stream.RecordEventDropped(event.Type)
		}
	}
}

// ensureCriticalEventDelivery forces destructive events through a full
// buffer by evicting the oldest queued event. Stale state after a missed
// clear or remove is worse than a lost intermediate update.
func (b *EventBroadcaster) ensureCriticalEventDelivery(clientIndex, totalClients int, ch chan Event, event Event) bool {
	if !isCriticalEvent(event) {
		return false
	}

	// Retry first in case the consumer drained the buffer after the
	// initial attempt.
	select {
	case ch <- event:
		b.logger.Warn("Client buffer previously full for editor %s, but critical event %s was delivered on retry (client %d/%d)", event.EditorID, event.Type, clientIndex+1, totalClients)
		b.metrics.incrementEventsSent()
		b.stream.RecordEventPublished(event.Type)
		return true
	default:
	}

	// Drop the oldest event to make room for the critical one.
	select {
	case dropped := <-ch:
		b.metrics.incrementDroppedEvents()
		b.stream.RecordEventDropped(dropped.Type)
	default:
		b.logger.Warn("Failed to free space for critical event %s for editor %s (client %d/%d)", event.Type, event.EditorID, clientIndex+1, totalClients)
		return false
	}

	select {
	case ch <- event:
		b.logger.Warn("Client buffer saturated for editor %s; dropped oldest event to deliver critical %s (client %d/%d)", event.EditorID, event.Type, clientIndex+1, totalClients)
		b.metrics.incrementEventsSent()
		b.stream.RecordEventPublished(event.Type)
		return true
	default:
		// Buffer filled again before we could send.
		b.logger.Warn("Client buffer refilled before delivering critical %s for editor %s (client %d/%d)", event.Type, event.EditorID, clientIndex+1, totalClients)
		return false
	}
}

// RegisterClient subscribes a channel to an editor's events.
func (b *EventBroadcaster) RegisterClient(editorID string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clients[editorID] = append(b.clients[editorID], ch)
	b.metrics.incrementConnections()
	b.stream.AddSubscriber()
	b.logger.Info("Client registered for editor %s (total: %d)", editorID, len(b.clients[editorID]))
}

// UnregisterClient removes a client channel and closes it.
func (b *EventBroadcaster) UnregisterClient(editorID string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	clients := b.clients[editorID]
	for i, client := range clients {
		if client == ch {
			b.clients[editorID] = append(clients[:i], clients[i+1:]...)
			close(ch)
			b.metrics.decrementConnections()
			b.stream.RemoveSubscriber()
			b.logger.Info("Client unregistered from editor %s (remaining: %d)", editorID, len(b.clients[editorID]))

			if len(b.clients[editorID]) == 0 {
				delete(b.clients, editorID)
			}
			break
		}
	}
}

// GetClientCount returns the number of clients subscribed to an editor.
func (b *EventBroadcaster) GetClientCount(editorID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.clients[editorID])
}

func (b *EventBroadcaster) storeEventHistory(event Event) {
	b.historyMu.Lock()
	defer b.historyMu.Unlock()

	history := append(b.eventHistory[event.EditorID], event)
	if len(history) > b.maxHistory {
		// Keep only the most recent maxHistory events.
		history = history[len(history)-b.maxHistory:]
	}
	b.eventHistory[event.EditorID] = history
}

// GetEventHistory returns a copy of the stored events for an editor.
func (b *EventBroadcaster) GetEventHistory(editorID string) []Event {
	b.historyMu.RLock()
	defer b.historyMu.RUnlock()

	history := b.eventHistory[editorID]
	if len(history) == 0 {
		return nil
	}
	out := make([]Event, len(history))
	copy(out, history)
	return out
}

// Replay returns the stored events for an editor and records the replay.
// New stream clients call this before receiving live events.
func (b *EventBroadcaster) Replay(editorID string) []Event {
	history := b.GetEventHistory(editorID)
	if len(history) > 0 {
		b.stream.RecordReplay(len(history))
		b.logger.Debug("[Replay] Served %d events for editor %s", len(history), editorID)
	}
	return history
}

// ClearEventHistory drops the stored events for an editor. Called when the
// editor session itself is deleted.
func (b *EventBroadcaster) ClearEventHistory(editorID string) {
	b.historyMu.Lock()
	defer b.historyMu.Unlock()
	delete(b.eventHistory, editorID)
}

// Metrics helper methods.
func (m *broadcasterMetrics) incrementEventsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalEventsSent++
}

func (m *broadcasterMetrics) incrementDroppedEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.droppedEvents++
}

func (m *broadcasterMetrics) incrementConnections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalConnections++
	m.activeConnections++
}

func (m *broadcasterMetrics) decrementConnections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeConnections--
}

// BroadcasterMetrics represents broadcaster metrics for export.
type BroadcasterMetrics struct {
	TotalEventsSent   int64          `json:"total_events_sent"`
	DroppedEvents     int64          `json:"dropped_events"`
	TotalConnections  int64          `json:"total_connections"`
	ActiveConnections int64          `json:"active_connections"`
	BufferDepth       map[string]int `json:"buffer_depth"`
	EditorCount       int            `json:"editor_count"`
}

// GetMetrics returns current broadcaster metrics.
func (b *EventBroadcaster) GetMetrics() BroadcasterMetrics {
	b.metrics.mu.RLock()
	totalEvents := b.metrics.totalEventsSent
	droppedEvents := b.metrics.droppedEvents
	totalConns := b.metrics.totalConnections
	activeConns := b.metrics.activeConnections
	b.metrics.mu.RUnlock()

	b.mu.RLock()
	defer b.mu.RUnlock()

	bufferDepth := make(map[string]int)
	for editorID, clients := range b.clients {
		totalDepth := 0
		for _, ch := range clients {
			totalDepth += len(ch)
		}
		if totalDepth > 0 {
			bufferDepth[editorID] = totalDepth
		}
	}

	return BroadcasterMetrics{
		TotalEventsSent:   totalEvents,
		DroppedEvents:     droppedEvents,
		TotalConnections:  totalConns,
		ActiveConnections: activeConns,
		BufferDepth:       bufferDepth,
		EditorCount:       len(b.clients),
	}
}
