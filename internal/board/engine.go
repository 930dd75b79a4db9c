package board

import (
	"errors"
	"fmt"

	"github.com/jthorne/taskdeck/pkg/models"
)

// ErrNoSingleProject is returned by AddTaskToColumn unless exactly one
// project is selected; the UI disables the action otherwise.
var ErrNoSingleProject = errors.New("exactly one project must be selected")

// TaskStore is the subset of the domain store the engine needs. The engine
// never mutates buckets directly; committed moves go through UpdateTask and
// the buckets re-derive from the store's state.
type TaskStore interface {
	Tasks() []models.Task
	SelectedProjects() map[string]struct{}
	AddTask(draft models.TaskDraft) (models.Task, error)
	UpdateTask(id string, patch models.TaskPatch) (models.Task, error)
}

// EventLogger mirrors store.EventLogger for WIP-rejection events.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// DragSource is where a drag started.
type DragSource struct {
	ColumnID string
	Index    int
}

// DragDestination is where a drag ended. A nil destination means the drag
// was cancelled or dropped outside any column.
type DragDestination struct {
	ColumnID string
	Index    int
}

// DragResult is the drag-end event delivered by a view.
type DragResult struct {
	Source      DragSource
	Destination *DragDestination
	DraggedID   string
}

// MoveOutcome reports what a drag did. WIPLimitExceeded is a policy
// rejection, not an error: the dragged task stays where it was and the UI
// should show a warning.
type MoveOutcome struct {
	// Committed is set once the store confirmed the status change.
	Committed bool
	// Reordered is set for a same-column move; ordering is ephemeral UI
	// state and resets when buckets re-derive from a reload.
	Reordered bool
	// WIPLimitExceeded is set when the destination bucket is at its limit.
	WIPLimitExceeded bool
	// Column is the resolved destination column, when there is one.
	Column Column
}

// Engine computes the effect of drag-and-drop moves between status buckets
// and enforces WIP limits. It keeps only an ephemeral per-column ordering
// overlay; bucket membership always derives from the store. Not safe for
// concurrent use: it belongs to a single UI event loop.
type Engine struct {
	columns []Column
	store   TaskStore
	events  EventLogger

	// order holds the manual in-column ordering by task id, per column.
	// Tasks missing from the overlay follow in derived order.
	order map[string][]string
}

// NewEngine creates an engine over the given columns and store. events may
// be nil.
func NewEngine(columns []Column, store TaskStore, events EventLogger) *Engine {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Engine{
		columns: cols,
		store:   store,
		events:  events,
		order:   make(map[string][]string),
	}
}

// Columns returns the board's column definitions in order.
func (e *Engine) Columns() []Column {
	out := make([]Column, len(e.columns))
	copy(out, e.columns)
	return out
}

// Buckets derives the current visible buckets: store tasks filtered by the
// project selection, partitioned by status, with the manual ordering
// overlay applied on top.
func (e *Engine) Buckets() map[string][]models.Task {
	visible := VisibleTasks(e.store.Tasks(), e.store.SelectedProjects())
	buckets := BucketByStatus(visible, e.columns)
	for id, tasks := range buckets {
		buckets[id] = e.applyOrder(id, tasks)
	}
	return buckets
}

// ApplyDrag computes and applies the effect of a drag-end event.
//
// A nil destination is a no-op. A same-column move is an ephemeral reorder.
// A cross-column move is a status change: it is rejected when the
// destination bucket is at its WIP limit, and otherwise committed through
// the store; the engine reports Committed only after the store confirms.
func (e *Engine) ApplyDrag(res DragResult) (MoveOutcome, error) {
	if res.Destination == nil {
		return MoveOutcome{}, nil
	}

	src, ok := ColumnByID(e.columns, res.Source.ColumnID)
	if !ok {
		return MoveOutcome{}, fmt.Errorf("unknown source column %q", res.Source.ColumnID)
	}
	dst, ok := ColumnByID(e.columns, res.Destination.ColumnID)
	if !ok {
		return MoveOutcome{}, fmt.Errorf("unknown destination column %q", res.Destination.ColumnID)
	}

	if src.ID == dst.ID {
		e.reorder(src.ID, res.Source.Index, res.Destination.Index)
		return MoveOutcome{Reordered: true, Column: dst}, nil
	}

	buckets := e.Buckets()
	if dst.WIPLimit > 0 && len(buckets[dst.ID]) >= dst.WIPLimit {
		if e.events != nil {
			_ = e.events.LogEvent("board.move_rejected", map[string]any{
				"task":   res.DraggedID,
				"column": dst.ID,
				"limit":  dst.WIPLimit,
			})
		}
		return MoveOutcome{WIPLimitExceeded: true, Column: dst}, nil
	}

	status := dst.Status
	if _, err := e.store.UpdateTask(res.DraggedID, models.TaskPatch{Status: &status}); err != nil {
		// Move did not commit; buckets stay as derived from the store.
		return MoveOutcome{Column: dst}, err
	}

	e.dropFromOrder(src.ID, res.DraggedID)
	e.insertIntoOrder(dst.ID, res.DraggedID, res.Destination.Index, buckets[dst.ID])
	if e.events != nil {
		_ = e.events.LogEvent("task.moved", map[string]any{
			"task": res.DraggedID,
			"from": src.ID,
			"to":   dst.ID,
		})
	}
	return MoveOutcome{Committed: true, Column: dst}, nil
}

// AddTaskToColumn creates a task with its status preset to the column's
// status and its group set to the single selected project. The precondition
// fails unless exactly one project is selected.
func (e *Engine) AddTaskToColumn(columnID string, draft models.TaskDraft) (models.Task, error) {
	col, ok := ColumnByID(e.columns, columnID)
	if !ok {
		return models.Task{}, fmt.Errorf("unknown column %q", columnID)
	}

	selected := e.store.SelectedProjects()
	if len(selected) != 1 {
		return models.Task{}, ErrNoSingleProject
	}
	for id := range selected {
		draft.GroupID = id
	}
	draft.Status = col.Status

	return e.store.AddTask(draft)
}

// --- ordering overlay ---

// applyOrder reorders tasks so ids present in the overlay come first, in
// overlay order; everything else keeps derived order. Stale overlay ids are
// pruned as a side effect.
func (e *Engine) applyOrder(columnID string, tasks []models.Task) []models.Task {
	overlay := e.order[columnID]
	if len(overlay) == 0 {
		return tasks
	}

	byID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	out := make([]models.Task, 0, len(tasks))
	kept := overlay[:0]
	seen := make(map[string]struct{}, len(overlay))
	for _, id := range overlay {
		if t, ok := byID[id]; ok {
			out = append(out, t)
			kept = append(kept, id)
			seen[id] = struct{}{}
		}
	}
	e.order[columnID] = kept

	for _, t := range tasks {
		if _, ok := seen[t.ID]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// reorder records a same-column move in the overlay.
func (e *Engine) reorder(columnID string, from, to int) {
	tasks := e.Buckets()[columnID]
	if from < 0 || from >= len(tasks) {
		return
	}
	if to < 0 {
		to = 0
	}
	if to >= len(tasks) {
		to = len(tasks) - 1
	}

	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	moved := ids[from]
	ids = append(ids[:from], ids[from+1:]...)
	ids = append(ids[:to], append([]string{moved}, ids[to:]...)...)
	e.order[columnID] = ids
}

func (e *Engine) dropFromOrder(columnID, taskID string) {
	overlay := e.order[columnID]
	for i, id := range overlay {
		if id == taskID {
			e.order[columnID] = append(overlay[:i], overlay[i+1:]...)
			return
		}
	}
}

// insertIntoOrder places the moved task at the drop index in the
// destination column's overlay, seeding the overlay from the bucket's
// current derived order.
func (e *Engine) insertIntoOrder(columnID, taskID string, index int, bucket []models.Task) {
	ids := make([]string, 0, len(bucket)+1)
	for _, t := range bucket {
		if t.ID != taskID {
			ids = append(ids, t.ID)
		}
	}
	if index < 0 {
		index = 0
	}
	if index > len(ids) {
		index = len(ids)
	}
	ids = append(ids[:index], append([]string{taskID}, ids[index:]...)...)
	e.order[columnID] = ids
}
