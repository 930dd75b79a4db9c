package storage

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/jthorne/taskdeck/pkg/models"
)

func genAlphaString(t *rapid.T, label string, minLen, maxLen int) string {
	letters := "abcdefghijklmnopqrstuvwxyz"
	n := rapid.IntRange(minLen, maxLen).Draw(t, label+"Len")
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rapid.IntRange(0, len(letters)-1).Draw(t, label+"Char")]
	}
	return string(b)
}

func genStatus(t *rapid.T) models.TaskStatus {
	statuses := models.Statuses()
	return statuses[rapid.IntRange(0, len(statuses)-1).Draw(t, "statusIdx")]
}

func genPriority(t *rapid.T) models.Priority {
	priorities := []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
	return priorities[rapid.IntRange(0, len(priorities)-1).Draw(t, "priorityIdx")]
}

func genTask(t *rapid.T, idx int) models.Task {
	task := models.Task{
		ID:          fmt.Sprintf("task-%d-%s", idx, genAlphaString(t, "taskID", 4, 8)),
		Title:       genAlphaString(t, "title", 1, 40),
		Description: genAlphaString(t, "description", 0, 60),
		Status:      genStatus(t),
		GroupID:     genAlphaString(t, "groupID", 1, 10),
		Priority:    genPriority(t),
		Assignee:    genAlphaString(t, "assignee", 0, 12),
		Progress:    rapid.IntRange(0, 100).Draw(t, "progress"),
	}
	if rapid.Bool().Draw(t, "hasDue") {
		due := fmt.Sprintf("2026-%02d-%02d",
			rapid.IntRange(1, 12).Draw(t, "dueMonth"),
			rapid.IntRange(1, 28).Draw(t, "dueDay"))
		task.DueDate = &due
	}
	return task
}

func genDatabase(t *rapid.T) models.Database {
	db := models.EmptyDatabase()

	nTasks := rapid.IntRange(0, 8).Draw(t, "nTasks")
	for i := 0; i < nTasks; i++ {
		db.Tasks = append(db.Tasks, genTask(t, i))
	}

	nProjects := rapid.IntRange(0, 4).Draw(t, "nProjects")
	for i := 0; i < nProjects; i++ {
		db.Projects = append(db.Projects, models.Project{
			ID:      fmt.Sprintf("project-%d", i),
			Name:    genAlphaString(t, "projectName", 1, 20),
			Members: []string{genAlphaString(t, "member", 1, 10)},
			Color:   genAlphaString(t, "color", 0, 8),
		})
	}

	nUsers := rapid.IntRange(0, 3).Draw(t, "nUsers")
	for i := 0; i < nUsers; i++ {
		name := genAlphaString(t, "userName", 1, 12)
		db.Users = append(db.Users, models.User{
			ID:    fmt.Sprintf("user-%d", i),
			Name:  name,
			Email: name + "@example.com",
		})
	}

	return db
}

// Property: any snapshot written through the adapter comes back equal, in
// content and in order.
func TestProperty_SnapshotRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dir := t.TempDir()
		store := NewDatabaseStore(dir)

		want := genDatabase(rt)
		if err := store.Save(want); err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		got, err := store.Load()
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		if len(got.Tasks) != len(want.Tasks) {
			rt.Fatalf("task count: got %d, want %d", len(got.Tasks), len(want.Tasks))
		}
		for i := range want.Tasks {
			w, g := want.Tasks[i], got.Tasks[i]
			if g.ID != w.ID || g.Title != w.Title || g.Status != w.Status ||
				g.GroupID != w.GroupID || g.Priority != w.Priority ||
				g.Assignee != w.Assignee || g.Progress != w.Progress {
				rt.Fatalf("task %d: got %+v, want %+v", i, g, w)
			}
			switch {
			case w.DueDate == nil && g.DueDate != nil:
				rt.Fatalf("task %d: unexpected due date %q", i, *g.DueDate)
			case w.DueDate != nil && (g.DueDate == nil || *g.DueDate != *w.DueDate):
				rt.Fatalf("task %d: due date not preserved", i)
			}
		}
		if len(got.Projects) != len(want.Projects) || len(got.Users) != len(want.Users) {
			rt.Fatalf("collection sizes: %d/%d, want %d/%d",
				len(got.Projects), len(got.Users), len(want.Projects), len(want.Users))
		}
		for i := range want.Projects {
			if got.Projects[i].ID != want.Projects[i].ID || got.Projects[i].Name != want.Projects[i].Name {
				rt.Fatalf("project %d not preserved", i)
			}
		}
	})
}

// Property: YAML export of any snapshot decodes back to the same content.
func TestProperty_ExportRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		want := genDatabase(rt)

		data, err := EncodeYAML(want)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		got, err := DecodeYAML(data)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		if len(got.Tasks) != len(want.Tasks) || len(got.Projects) != len(want.Projects) {
			rt.Fatalf("collection sizes changed: %d/%d, want %d/%d",
				len(got.Tasks), len(got.Projects), len(want.Tasks), len(want.Projects))
		}
		for i := range want.Tasks {
			if got.Tasks[i].ID != want.Tasks[i].ID || got.Tasks[i].Status != want.Tasks[i].Status {
				rt.Fatalf("task %d not preserved through export", i)
			}
		}
	})
}
