// Package store holds the authoritative in-memory task/project state and
// the mutations against it. Every mutation is a full read-modify-write of
// the persisted snapshot; the in-memory collections are committed only
// after the write succeeds, so they are always derivable from the last
// successful save.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jthorne/taskdeck/pkg/models"
)

// DatabaseStore is the subset of the storage adapter the store needs.
// Defining it here keeps the store independent of the storage package.
type DatabaseStore interface {
	Load() (models.Database, error)
	Update(fn func(*models.Database) error) error
}

// EventLogger receives one event per committed mutation. A nil logger
// disables event recording.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// Store owns the tasks and projects collections, the selected-project
// filter, and the loading/error status views observe. Mutations are
// serialized through a single writer lock, strictly in issue order; each
// completes its read-modify-write before the next starts.
type Store struct {
	db     DatabaseStore
	events EventLogger
	newID  func() string

	writeMu sync.Mutex // serializes mutations

	mu       sync.RWMutex // guards the state below
	tasks    []models.Task
	projects []models.Project
	selected map[string]struct{}
	loading  bool
	err      error
}

// New creates a Store over the given adapter. events may be nil.
func New(db DatabaseStore, events EventLogger) *Store {
	return &Store{
		db:       db,
		events:   events,
		newID:    uuid.NewString,
		selected: make(map[string]struct{}),
	}
}

// --- Read surface (views are read-only observers) ---

// Tasks returns a copy of the task collection.
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTasks(s.tasks)
}

// Projects returns a copy of the project collection.
func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// SelectedProjects returns a copy of the selection filter set. An empty set
// means no filter.
func (s *Store) SelectedProjects() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]struct{}, len(s.selected))
	for id := range s.selected {
		out[id] = struct{}{}
	}
	return out
}

// IsLoading reports whether a store operation is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error recorded by the last failed operation, or nil.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// --- Mutations ---

// FetchData loads the full snapshot and replaces the in-memory collections.
func (s *Store) FetchData() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.begin()

	db, err := s.db.Load()
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.tasks = copyTasks(db.Tasks)
	s.projects = append([]models.Project(nil), db.Projects...)
	s.loading = false
	s.mu.Unlock()
	return nil
}

// AddTask assigns a new unique id to the draft, appends it to the persisted
// task collection, and commits it in memory. The returned task carries the
// populated id.
func (s *Store) AddTask(draft models.TaskDraft) (models.Task, error) {
	task := models.Task{
		ID:          s.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		DueDate:     draft.DueDate,
		GroupID:     draft.GroupID,
		Priority:    draft.Priority,
		Assignee:    draft.Assignee,
		Progress:    draft.Progress,
	}

	err := s.mutate(func(db *models.Database) error {
		if draft.GroupID != "" && findProject(db.Projects, draft.GroupID) < 0 {
			return &NotFoundError{Kind: "project", ID: draft.GroupID}
		}
		db.Tasks = append(db.Tasks, task)
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}

	s.log("task.created", map[string]any{"id": task.ID, "title": task.Title, "status": string(task.Status)})
	return task, nil
}

// UpdateTask merges the patch into the task with the given id. Missing ids
// are a NotFoundError; fields not set in the patch are preserved. A patch
// that re-homes the task to a nonexistent project is rejected the same way
// AddTask rejects one.
func (s *Store) UpdateTask(id string, patch models.TaskPatch) (models.Task, error) {
	var updated models.Task
	err := s.mutate(func(db *models.Database) error {
		i := findTask(db.Tasks, id)
		if i < 0 {
			return &NotFoundError{Kind: "task", ID: id}
		}
		if patch.GroupID != nil && findProject(db.Projects, *patch.GroupID) < 0 {
			return &NotFoundError{Kind: "project", ID: *patch.GroupID}
		}
		patch.Apply(&db.Tasks[i])
		updated = db.Tasks[i]
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}

	s.log("task.updated", map[string]any{"id": id, "status": string(updated.Status)})
	return updated, nil
}

// DeleteTask removes the task with the given id. A missing id is a no-op,
// not an error.
func (s *Store) DeleteTask(id string) error {
	removed := false
	err := s.mutate(func(db *models.Database) error {
		i := findTask(db.Tasks, id)
		if i < 0 {
			return nil
		}
		db.Tasks = append(db.Tasks[:i], db.Tasks[i+1:]...)
		removed = true
		return nil
	})
	if err != nil {
		return err
	}

	if removed {
		s.log("task.deleted", map[string]any{"id": id})
	}
	return nil
}

// AddProject assigns a new unique id to the draft and appends it to the
// persisted project collection.
func (s *Store) AddProject(draft models.ProjectDraft) (models.Project, error) {
	project := models.Project{
		ID:          s.newID(),
		Name:        draft.Name,
		Description: draft.Description,
		Members:     append([]string(nil), draft.Members...),
		Color:       draft.Color,
	}
	if project.Members == nil {
		project.Members = []string{}
	}

	err := s.mutate(func(db *models.Database) error {
		db.Projects = append(db.Projects, project)
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}

	s.log("project.created", map[string]any{"id": project.ID, "name": project.Name})
	return project, nil
}

// UpdateProject merges the patch into the project with the given id.
func (s *Store) UpdateProject(id string, patch models.ProjectPatch) (models.Project, error) {
	var updated models.Project
	err := s.mutate(func(db *models.Database) error {
		i := findProject(db.Projects, id)
		if i < 0 {
			return &NotFoundError{Kind: "project", ID: id}
		}
		patch.Apply(&db.Projects[i])
		updated = db.Projects[i]
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}

	s.log("project.updated", map[string]any{"id": id})
	return updated, nil
}

// DeleteProject removes the project and every task whose GroupID references
// it, in the same persisted write. Both collections commit together so no
// reader ever observes an orphaned task. A missing id is a no-op.
func (s *Store) DeleteProject(id string) error {
	removed := false
	err := s.mutate(func(db *models.Database) error {
		i := findProject(db.Projects, id)
		if i < 0 {
			return nil
		}
		db.Projects = append(db.Projects[:i], db.Projects[i+1:]...)
		kept := db.Tasks[:0]
		for _, t := range db.Tasks {
			if t.GroupID != id {
				kept = append(kept, t)
			}
		}
		db.Tasks = kept
		removed = true
		return nil
	})
	if err != nil {
		return err
	}

	if removed {
		s.log("project.deleted", map[string]any{"id": id})
		// Drop the deleted project from the selection filter.
		s.mu.Lock()
		delete(s.selected, id)
		s.mu.Unlock()
	}
	return nil
}

// ToggleProjectSelection adds the id to the selection filter if absent and
// removes it if present. Transient UI state; nothing is persisted.
func (s *Store) ToggleProjectSelection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
}

// SetSelectedProjects replaces the selection filter wholesale.
func (s *Store) SetSelectedProjects(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.selected[id] = struct{}{}
	}
}

// --- Internals ---

// mutate runs one mutation as a full read-modify-write cycle through the
// adapter and, on success, replaces the in-memory collections with the
// mutated ones. On any failure the prior in-memory state is untouched and
// the error is recorded for observers.
func (s *Store) mutate(fn func(*models.Database) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.begin()

	var result models.Database
	err := s.db.Update(func(db *models.Database) error {
		if err := fn(db); err != nil {
			return err
		}
		result = db.Clone()
		return nil
	})
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.tasks = result.Tasks
	s.projects = result.Projects
	s.loading = false
	s.mu.Unlock()
	return nil
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) log(eventType string, data map[string]any) {
	if s.events == nil {
		return
	}
	_ = s.events.LogEvent(eventType, data)
}

func findTask(tasks []models.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func findProject(projects []models.Project, id string) int {
	for i, p := range projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func copyTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		if t.DueDate != nil {
			due := *t.DueDate
			t.DueDate = &due
		}
		out[i] = t
	}
	return out
}
