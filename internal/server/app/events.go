package app

import "time"

// Event types pushed to connected board clients.
const (
	// EventAttachmentsUpdated fires after an intake batch commits at least
	// one attachment to an editor.
	EventAttachmentsUpdated = "attachments.updated"

	// EventAttachmentsCleared fires when an editor's attachment set is
	// cleared. Clients must drop any cached attachment state.
	EventAttachmentsCleared = "attachments.cleared"

	// EventAttachmentRemoved fires when a single attachment is removed.
	EventAttachmentRemoved = "attachment.removed"

	// EventIntakeRejected fires when an intake batch rejects one or more
	// files, so clients can surface per-file feedback.
	EventIntakeRejected = "intake.rejected"
)

// Event is a board change notification delivered to stream clients.
type Event struct {
	Type      string         `json:"type"`
	EditorID  string         `json:"editor_id"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}

func newEvent(eventType, editorID string, payload map[string]any) Event {
	return Event{
		Type:      eventType,
		EditorID:  editorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// isCriticalEvent reports whether an event must reach every client even
// when its buffer is full. Destructive changes qualify: a client that
// misses one renders attachments that no longer exist.
func isCriticalEvent(event Event) bool {
	switch event.Type {
	case EventAttachmentsCleared, EventAttachmentRemoved:
		return true
	default:
		return false
	}
}
