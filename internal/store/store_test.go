package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jthorne/taskdeck/pkg/models"
)

// memStore is an in-memory DatabaseStore for tests. failNext makes the
// next Update or Load fail without touching the snapshot.
type memStore struct {
	db       models.Database
	failNext error
	saves    int
}

func newMemStore() *memStore {
	return &memStore{db: models.EmptyDatabase()}
}

func (m *memStore) Load() (models.Database, error) {
	if err := m.takeFailure(); err != nil {
		return models.Database{}, err
	}
	return m.db.Clone(), nil
}

func (m *memStore) Update(fn func(*models.Database) error) error {
	if err := m.takeFailure(); err != nil {
		return err
	}
	db := m.db.Clone()
	if err := fn(&db); err != nil {
		return err
	}
	m.db = db
	m.saves++
	return nil
}

func (m *memStore) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

// eventRecorder captures logged event types in order.
type eventRecorder struct {
	types []string
}

func (r *eventRecorder) LogEvent(eventType string, data map[string]any) error {
	r.types = append(r.types, eventType)
	return nil
}

func newTestStore(t *testing.T) (*Store, *memStore, *eventRecorder) {
	t.Helper()
	adapter := newMemStore()
	events := &eventRecorder{}
	s := New(adapter, events)
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return s, adapter, events
}

func mustAddProject(t *testing.T, s *Store, name string) models.Project {
	t.Helper()
	p, err := s.AddProject(models.ProjectDraft{Name: name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func mustAddTask(t *testing.T, s *Store, title, groupID string) models.Task {
	t.Helper()
	task, err := s.AddTask(models.TaskDraft{Title: title, Status: models.StatusOpen, GroupID: groupID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return task
}

func TestFetchData_ReplacesState(t *testing.T) {
	s, adapter, _ := newTestStore(t)
	adapter.db = models.Database{
		Tasks:    []models.Task{{ID: "t1", Title: "seeded"}},
		Users:    []models.User{},
		Projects: []models.Project{{ID: "p1", Name: "Seeded"}},
	}

	if err := s.FetchData(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Tasks(); len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("expected seeded task, got %+v", got)
	}
	if got := s.Projects(); len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("expected seeded project, got %+v", got)
	}
	if s.IsLoading() {
		t.Fatal("expected loading to clear after fetch")
	}
	if s.Err() != nil {
		t.Fatalf("unexpected error state: %v", s.Err())
	}
}

func TestFetchData_FailurePreservesState(t *testing.T) {
	s, adapter, _ := newTestStore(t)
	p := mustAddProject(t, s, "Project")
	mustAddTask(t, s, "task", p.ID)

	adapter.failNext = errors.New("disk gone")
	if err := s.FetchData(); err == nil {
		t.Fatal("expected error")
	}

	if got := s.Tasks(); len(got) != 1 {
		t.Fatalf("expected prior state preserved, got %d tasks", len(got))
	}
	if s.Err() == nil {
		t.Fatal("expected error state to be recorded")
	}
	if s.IsLoading() {
		t.Fatal("expected loading to clear after failure")
	}
}

func TestAddTask_AssignsUniqueID(t *testing.T) {
	s, adapter, events := newTestStore(t)
	p := mustAddProject(t, s, "Project")

	t1 := mustAddTask(t, s, "first", p.ID)
	t2 := mustAddTask(t, s, "second", p.ID)

	if t1.ID == "" || t2.ID == "" || t1.ID == t2.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", t1.ID, t2.ID)
	}
	if len(adapter.db.Tasks) != 2 {
		t.Fatalf("expected 2 persisted tasks, got %d", len(adapter.db.Tasks))
	}
	want := []string{"project.created", "task.created", "task.created"}
	if len(events.types) != len(want) {
		t.Fatalf("expected events %v, got %v", want, events.types)
	}
}

func TestAddTask_UnknownProject(t *testing.T) {
	s, adapter, _ := newTestStore(t)

	_, err := s.AddTask(models.TaskDraft{Title: "orphan", GroupID: "nope"})
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(adapter.db.Tasks) != 0 {
		t.Fatal("expected nothing persisted")
	}
}

func TestUpdateTask_ShallowMerge(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustAddProject(t, s, "Project")
	due := "2026-10-01"
	task, err := s.AddTask(models.TaskDraft{
		Title:    "original",
		Status:   models.StatusOpen,
		GroupID:  p.ID,
		Priority: models.PriorityHigh,
		DueDate:  &due,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := models.StatusInProgress
	got, err := s.UpdateTask(task.ID, models.TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Status != models.StatusInProgress {
		t.Fatalf("expected status updated, got %q", got.Status)
	}
	// Untouched fields survive the merge.
	if got.Title != "original" || got.Priority != models.PriorityHigh {
		t.Fatalf("expected unpatched fields preserved, got %+v", got)
	}
	if got.DueDate == nil || *got.DueDate != due {
		t.Fatal("expected due date preserved")
	}
}

func TestUpdateTask_ClearDueDate(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustAddProject(t, s, "Project")
	due := "2026-10-01"
	task, err := s.AddTask(models.TaskDraft{Title: "dated", GroupID: p.ID, DueDate: &due})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.UpdateTask(task.ID, models.TaskPatch{ClearDueDate: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DueDate != nil {
		t.Fatalf("expected due date cleared, got %q", *got.DueDate)
	}
}

func TestUpdateTask_UnknownProject(t *testing.T) {
	s, adapter, _ := newTestStore(t)
	p := mustAddProject(t, s, "Home")
	task := mustAddTask(t, s, "homed", p.ID)

	group := "no-such-project"
	_, err := s.UpdateTask(task.ID, models.TaskPatch{GroupID: &group})
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "project" {
		t.Fatalf("expected project NotFoundError, got %+v", nf)
	}
	if adapter.db.Tasks[0].GroupID != p.ID {
		t.Fatalf("orphaning patch persisted: task references %q", adapter.db.Tasks[0].GroupID)
	}

	// Re-homing to an existing project still works.
	other := mustAddProject(t, s, "Other")
	got, err := s.UpdateTask(task.ID, models.TaskPatch{GroupID: &other.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GroupID != other.ID {
		t.Fatalf("expected task moved to %q, got %q", other.ID, got.GroupID)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	s, _, _ := newTestStore(t)

	title := "new"
	_, err := s.UpdateTask("missing", models.TaskPatch{Title: &title})
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "task" || nf.ID != "missing" {
		t.Fatalf("unexpected NotFoundError contents: %+v", nf)
	}
}

func TestDeleteTask_Idempotent(t *testing.T) {
	s, adapter, events := newTestStore(t)
	p := mustAddProject(t, s, "Project")
	task := mustAddTask(t, s, "doomed", p.ID)

	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(adapter.db.Tasks) != 0 {
		t.Fatal("expected task removed from snapshot")
	}

	// Deleting again is a no-op, not an error, and logs nothing.
	before := len(events.types)
	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatalf("unexpected error on repeat delete: %v", err)
	}
	if len(events.types) != before {
		t.Fatal("expected no event for redundant delete")
	}
}

func TestDeleteProject_CascadesTasks(t *testing.T) {
	s, adapter, _ := newTestStore(t)
	keep := mustAddProject(t, s, "Keep")
	doomed := mustAddProject(t, s, "Doomed")
	mustAddTask(t, s, "survives", keep.ID)
	mustAddTask(t, s, "goes 1", doomed.ID)
	mustAddTask(t, s, "goes 2", doomed.ID)
	s.ToggleProjectSelection(doomed.ID)

	if err := s.DeleteProject(doomed.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(adapter.db.Projects) != 1 || adapter.db.Projects[0].ID != keep.ID {
		t.Fatalf("expected only %q to remain, got %+v", keep.ID, adapter.db.Projects)
	}
	for _, task := range adapter.db.Tasks {
		if task.GroupID == doomed.ID {
			t.Fatalf("orphaned task %q survived the cascade", task.ID)
		}
	}
	if got := s.Tasks(); len(got) != 1 || got[0].Title != "survives" {
		t.Fatalf("expected in-memory cascade, got %+v", got)
	}
	if _, ok := s.SelectedProjects()[doomed.ID]; ok {
		t.Fatal("expected deleted project dropped from the selection filter")
	}
}

func TestDeleteProject_MissingIsNoOp(t *testing.T) {
	s, adapter, _ := newTestStore(t)
	mustAddProject(t, s, "Project")

	saves := adapter.saves
	if err := s.DeleteProject("missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adapter.saves != saves+1 {
		// Still one RMW cycle; the snapshot content is unchanged.
		t.Fatalf("expected exactly one save, got %d more", adapter.saves-saves)
	}
	if len(adapter.db.Projects) != 1 {
		t.Fatal("expected snapshot unchanged")
	}
}

func TestToggleProjectSelection(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.ToggleProjectSelection("p1")
	if _, ok := s.SelectedProjects()["p1"]; !ok {
		t.Fatal("expected p1 selected after first toggle")
	}

	s.ToggleProjectSelection("p1")
	if len(s.SelectedProjects()) != 0 {
		t.Fatal("expected empty selection after second toggle")
	}
}

func TestSetSelectedProjects_Replaces(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.ToggleProjectSelection("old")

	s.SetSelectedProjects([]string{"a", "b"})
	selected := s.SelectedProjects()
	if len(selected) != 2 {
		t.Fatalf("expected 2 selected, got %d", len(selected))
	}
	if _, ok := selected["old"]; ok {
		t.Fatal("expected prior selection replaced")
	}
}

func TestMutation_FailurePreservesPriorState(t *testing.T) {
	s, adapter, _ := newTestStore(t)
	p := mustAddProject(t, s, "Project")
	task := mustAddTask(t, s, "stable", p.ID)

	adapter.failNext = errors.New("write failed")
	title := "changed"
	if _, err := s.UpdateTask(task.ID, models.TaskPatch{Title: &title}); err == nil {
		t.Fatal("expected error")
	}

	if got := s.Tasks(); got[0].Title != "stable" {
		t.Fatalf("expected prior state preserved, got title %q", got[0].Title)
	}
	if s.Err() == nil {
		t.Fatal("expected error state recorded")
	}

	// The next successful mutation clears the error state.
	if _, err := s.UpdateTask(task.ID, models.TaskPatch{Title: &title}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Err() != nil {
		t.Fatalf("expected error state cleared, got %v", s.Err())
	}
	if got := s.Tasks(); got[0].Title != "changed" {
		t.Fatalf("expected update applied, got %q", got[0].Title)
	}
}

func TestReads_ReturnCopies(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustAddProject(t, s, "Project")
	mustAddTask(t, s, "task", p.ID)

	tasks := s.Tasks()
	tasks[0].Title = "mutated by caller"

	if got := s.Tasks(); got[0].Title != "task" {
		t.Fatal("expected caller mutation not to reach store state")
	}

	selected := s.SelectedProjects()
	selected["sneaky"] = struct{}{}
	if len(s.SelectedProjects()) != 0 {
		t.Fatal("expected selection copy to be independent")
	}
}
