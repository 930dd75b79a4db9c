package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jthorne/taskdeck/internal/storage"
	"github.com/jthorne/taskdeck/pkg/models"
)

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	app, err := NewApp(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app, dir
}

func TestNewApp_WiresComponents(t *testing.T) {
	app, _ := newTestApp(t)

	if app.Config == nil || app.Database == nil || app.Store == nil || app.Engine == nil {
		t.Fatal("expected all components wired")
	}
	if len(app.Engine.Columns()) != 3 {
		t.Fatalf("expected default columns, got %d", len(app.Engine.Columns()))
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	content := "columns:\n  - id: only\n    status: Nowhere\n"
	if err := os.WriteFile(filepath.Join(dir, ".boardconfig"), []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := NewApp(dir); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestApp_EndToEnd(t *testing.T) {
	app, dir := newTestApp(t)

	project, err := app.Store.AddProject(models.ProjectDraft{Name: "Launch"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	task, err := app.Store.AddTask(models.TaskDraft{
		Title:   "Ship it",
		Status:  models.StatusOpen,
		GroupID: project.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := models.StatusDone
	if _, err := app.Store.UpdateTask(task.ID, models.TaskPatch{Status: &status}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The mutation must be durable: a fresh adapter over the same directory
	// sees it.
	db, err := storage.NewDatabaseStore(dir).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(db.Tasks) != 1 || db.Tasks[0].Status != models.StatusDone {
		t.Fatalf("expected persisted Done task, got %+v", db.Tasks)
	}
	if len(db.Projects) != 1 {
		t.Fatalf("expected persisted project, got %d", len(db.Projects))
	}
}

func TestResolveBasePath_EnvOverride(t *testing.T) {
	t.Setenv("TASKDECK_HOME", "/tmp/deck-home")
	if got := ResolveBasePath(); got != "/tmp/deck-home" {
		t.Fatalf("expected env override, got %q", got)
	}
}

func TestResolveBasePath_FindsConfigUpward(t *testing.T) {
	t.Setenv("TASKDECK_HOME", "")
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".boardconfig"), []byte("data_dir: .\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatalf("creating nested dir: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getting cwd: %v", err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("changing dir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	got := ResolveBasePath()
	// Resolve symlinks: TempDir may sit behind one on some platforms.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Fatalf("expected %q, got %q", root, got)
	}
}
