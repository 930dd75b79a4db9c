package board

import (
	"github.com/jthorne/taskdeck/pkg/models"
)

// VisibleTasks projects tasks through the selected-project filter. An empty
// set means no filter; otherwise only tasks whose GroupID is in the set
// pass. Pure: the input slice is not modified.
func VisibleTasks(tasks []models.Task, selected map[string]struct{}) []models.Task {
	if len(selected) == 0 {
		out := make([]models.Task, len(tasks))
		copy(out, tasks)
		return out
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := selected[t.GroupID]; ok {
			out = append(out, t)
		}
	}
	return out
}

// BucketByStatus partitions tasks into the given columns by status. The
// partition is stable: each task keeps its relative input order within its
// bucket. Tasks whose status matches no column are dropped.
func BucketByStatus(tasks []models.Task, columns []Column) map[string][]models.Task {
	buckets := make(map[string][]models.Task, len(columns))
	byStatus := make(map[models.TaskStatus]string, len(columns))
	for _, c := range columns {
		buckets[c.ID] = []models.Task{}
		byStatus[c.Status] = c.ID
	}
	for _, t := range tasks {
		if id, ok := byStatus[t.Status]; ok {
			buckets[id] = append(buckets[id], t)
		}
	}
	return buckets
}
