// Package board holds the editor sessions that own working attachment
// collections while a task draft is being authored.
package board

import (
	"fmt"
	"strings"
)

// Column names the board lane a draft is destined for.
type Column string

const (
	ColumnTodo             Column = "todo"
	ColumnInProgress       Column = "in_progress"
	ColumnAwaitingFeedback Column = "awaiting_feedback"
	ColumnDone             Column = "done"
)

// Columns lists every lane in board order.
func Columns() []Column {
	return []Column{ColumnTodo, ColumnInProgress, ColumnAwaitingFeedback, ColumnDone}
}

// Valid reports whether c is a known lane.
func (c Column) Valid() bool {
	switch c {
	case ColumnTodo, ColumnInProgress, ColumnAwaitingFeedback, ColumnDone:
		return true
	}
	return false
}

func (c Column) String() string {
	return string(c)
}

// ParseColumn normalizes a lane name. The empty string maps to the todo
// lane so freshly created drafts need no explicit column.
func ParseColumn(s string) (Column, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	if normalized == "" {
		return ColumnTodo, nil
	}
	c := Column(normalized)
	if !c.Valid() {
		names := make([]string, 0, 4)
		for _, col := range Columns() {
			names = append(names, string(col))
		}
		return "", fmt.Errorf("unknown column %q, expected one of %s", s, strings.Join(names, ", "))
	}
	return c, nil
}
