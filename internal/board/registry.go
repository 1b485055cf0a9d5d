package board

import (
	"sort"
	"sync"

	interrors "taskboard/internal/errors"
	"taskboard/internal/logging"
)

// Registry is the in-memory index of live editor sessions.
type Registry struct {
	mu      sync.RWMutex
	editors map[string]*Editor
	logger  logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{
		editors: make(map[string]*Editor),
		logger:  logging.OrNop(logger),
	}
}

// Create opens a new editor session.
func (r *Registry) Create(title string, column Column) *Editor {
	if !column.Valid() {
		column = ColumnTodo
	}
	ed := newEditor(title, column, r.logger)

	r.mu.Lock()
	r.editors[ed.ID()] = ed
	r.mu.Unlock()

	r.logger.Debug("registry: created editor %s in %s", ed.ID(), column)
	return ed
}

// Get retrieves an editor session by ID.
func (r *Registry) Get(id string) (*Editor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ed, exists := r.editors[id]
	if !exists {
		return nil, interrors.NewNotFound("editor", id)
	}
	return ed, nil
}

// List returns all sessions, newest first.
func (r *Registry) List() []*Editor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	editors := make([]*Editor, 0, len(r.editors))
	for _, ed := range r.editors {
		editors = append(editors, ed)
	}
	sort.Slice(editors, func(i, j int) bool {
		return editors[i].CreatedAt().After(editors[j].CreatedAt())
	})
	return editors
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.editors)
}

// Delete drops a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.editors[id]; !exists {
		return interrors.NewNotFound("editor", id)
	}
	delete(r.editors, id)
	return nil
}
