package board

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/attachments"
	"taskboard/internal/logging"
)

// Editor owns the working attachment collection for one task draft. All
// mutation goes through the documented operations; callers never hold the
// backing slice.
//
// The collection carries an epoch counter. An intake batch snapshots the
// epoch when it starts and commits only if the epoch is unchanged, so a
// clear issued while files are still compressing wins: the late completions
// are discarded, never resurrected.
type Editor struct {
	id        string
	title     string
	column    Column
	createdAt time.Time

	// batchMu serializes intake batches so every batch sees the committed
	// state of the previous one. Clear and Remove take only mu and are
	// never blocked by a running batch.
	batchMu sync.Mutex

	mu    sync.Mutex
	epoch uint64
	items []attachments.Attachment

	logger logging.Logger
}

// EditorState is the read-only snapshot handed to callers and serialized
// by the API layer.
type EditorState struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Column      Column                   `json:"column"`
	CreatedAt   time.Time                `json:"created_at"`
	Attachments []attachments.Attachment `json:"attachments"`
	TotalSize   int64                    `json:"total_size"`
}

// IntakeOutcome is what one intake batch produced for this editor.
type IntakeOutcome struct {
	Accepted []attachments.Attachment
	Report   attachments.RejectionReport

	// Discarded reports that a clear arrived while the batch was running,
	// so the accepted files were dropped instead of committed.
	Discarded bool
}

// IntakeFunc runs one batch against a snapshot of the committed collection
// and returns what it accepted.
type IntakeFunc func(ctx context.Context, existing []attachments.Attachment) ([]attachments.Attachment, attachments.RejectionReport, error)

func newEditor(title string, column Column, logger logging.Logger) *Editor {
	return &Editor{
		id:        fmt.Sprintf("ed-%s", uuid.New().String()),
		title:     strings.TrimSpace(title),
		column:    column,
		createdAt: time.Now(),
		logger:    logging.OrNop(logger),
	}
}

func (ed *Editor) ID() string           { return ed.id }
func (ed *Editor) Title() string        { return ed.title }
func (ed *Editor) Column() Column       { return ed.column }
func (ed *Editor) CreatedAt() time.Time { return ed.createdAt }

// Attachments returns a copy of the committed collection in commit order.
func (ed *Editor) Attachments() []attachments.Attachment {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.snapshotLocked()
}

// Count returns the number of committed attachments.
func (ed *Editor) Count() int {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return len(ed.items)
}

// TotalSize returns the summed estimated size of the committed collection.
func (ed *Editor) TotalSize() int64 {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return attachments.TotalSize(ed.items)
}

// State returns a consistent snapshot of the editor.
func (ed *Editor) State() EditorState {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	items := ed.snapshotLocked()
	return EditorState{
		ID:          ed.id,
		Title:       ed.title,
		Column:      ed.column,
		CreatedAt:   ed.createdAt,
		Attachments: items,
		TotalSize:   attachments.TotalSize(items),
	}
}

// RunIntake executes one intake batch against the editor. Batches serialize
// per editor, so the count and budget checks inside run always see the
// previous batch's committed state. The accepted files commit atomically;
// if a clear happened while the batch ran, they are dropped and the outcome
// reports Discarded.
func (ed *Editor) RunIntake(ctx context.Context, run IntakeFunc) (IntakeOutcome, error) {
	ed.batchMu.Lock()
	defer ed.batchMu.Unlock()

	epoch, existing := ed.begin()
	accepted, report, err := run(ctx, existing)
	if err != nil {
		return IntakeOutcome{}, err
	}

	outcome := IntakeOutcome{Accepted: accepted, Report: report}
	if len(accepted) == 0 {
		return outcome, nil
	}
	if !ed.commit(epoch, accepted) {
		ed.logger.Info("editor %s: cleared during intake, dropped %d stale completion(s)", ed.id, len(accepted))
		outcome.Accepted = nil
		outcome.Discarded = true
	}
	return outcome, nil
}

// Remove deletes the attachment with the given ID and reports whether it
// was present. Removing an absent ID is a no-op.
func (ed *Editor) Remove(id string) bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	next := attachments.RemoveByID(ed.items, id)
	removed := len(next) != len(ed.items)
	ed.items = next
	return removed
}

// Clear empties the collection, invalidates in-flight batches and returns
// how many attachments were dropped.
func (ed *Editor) Clear() int {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	n := len(ed.items)
	ed.items = nil
	ed.epoch++
	return n
}

func (ed *Editor) begin() (uint64, []attachments.Attachment) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.epoch, ed.snapshotLocked()
}

func (ed *Editor) commit(epoch uint64, accepted []attachments.Attachment) bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if epoch != ed.epoch {
		return false
	}
	ed.items = append(ed.items, accepted...)
	return true
}

func (ed *Editor) snapshotLocked() []attachments.Attachment {
	out := make([]attachments.Attachment, len(ed.items))
	copy(out, ed.items)
	return out
}
