package models

// TaskStatus represents the lifecycle state of a task and decides which
// board column the task belongs to.
type TaskStatus string

const (
	StatusOpen       TaskStatus = "Open"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

// Statuses lists all task statuses in board order.
func Statuses() []TaskStatus {
	return []TaskStatus{StatusOpen, StatusInProgress, StatusDone}
}

// ValidStatus reports whether s is one of the known task statuses.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Priority represents the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a unit of trackable work. GroupID references the owning
// Project; the store guarantees no task outlives its project.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Status      TaskStatus `json:"status" yaml:"status"`
	DueDate     *string    `json:"dueDate" yaml:"due_date"` // ISO 8601 date, nil when unset
	GroupID     string     `json:"groupId" yaml:"group_id"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Assignee    string     `json:"assignee" yaml:"assignee"`
	Progress    int        `json:"progress" yaml:"progress"` // 0..100
}

// TaskDraft holds the fields of a task before an ID is assigned.
type TaskDraft struct {
	Title       string
	Description string
	Status      TaskStatus
	DueDate     *string
	GroupID     string
	Priority    Priority
	Assignee    string
	Progress    int
}

// TaskPatch is a partial update applied over an existing task. Nil fields
// are left unchanged (shallow merge).
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	DueDate     *string
	// ClearDueDate removes the due date; it wins over DueDate when both are set.
	ClearDueDate bool
	GroupID      *string
	Priority     *Priority
	Assignee     *string
	Progress     *int
}

// Apply merges the patch into t field by field.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.GroupID != nil {
		t.GroupID = *p.GroupID
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
	if p.Progress != nil {
		t.Progress = *p.Progress
	}
}
