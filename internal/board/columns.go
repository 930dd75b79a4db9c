// Package board derives the view each presentation mode consumes from the
// canonical store state, and implements the kanban column/drag engine with
// work-in-progress limits. Buckets are always recomputed from the store;
// they are never an independent source of truth.
package board

import (
	"github.com/jthorne/taskdeck/pkg/models"
)

// Column is a status bucket on the kanban board. WIPLimit caps how many
// tasks the bucket may hold at once; 0 means unlimited.
type Column struct {
	ID       string
	Status   models.TaskStatus
	WIPLimit int
}

// DefaultColumns returns the fixed board layout: Open capped at 5,
// In Progress capped at 3, Done unbounded. Limits are configuration, not
// business law; .boardconfig can override them.
func DefaultColumns() []Column {
	return []Column{
		{ID: "open", Status: models.StatusOpen, WIPLimit: 5},
		{ID: "in-progress", Status: models.StatusInProgress, WIPLimit: 3},
		{ID: "done", Status: models.StatusDone},
	}
}

// ColumnByID returns the column with the given id, or false.
func ColumnByID(columns []Column, id string) (Column, bool) {
	for _, c := range columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnForStatus returns the column whose status matches, or false.
func ColumnForStatus(columns []Column, status models.TaskStatus) (Column, bool) {
	for _, c := range columns {
		if c.Status == status {
			return c, true
		}
	}
	return Column{}, false
}
