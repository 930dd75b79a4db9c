package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jthorne/taskdeck/internal/board"
	"github.com/jthorne/taskdeck/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks (add, list, update, move, delete)",
	Long: `Unified task management commands.

Add tasks to a project, list and filter them, apply partial updates, move
them across board columns (WIP limits apply), and delete them.`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long: `Add a new task with the given title.

The task is appended to the board in the Open column unless --status says
otherwise. --project is required and must name an existing project id.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("store not initialized")
		}

		title := strings.TrimSpace(args[0])
		if title == "" {
			return fmt.Errorf("task title must not be empty")
		}

		projectFlag, _ := cmd.Flags().GetString("project")
		statusFlag, _ := cmd.Flags().GetString("status")
		priorityFlag, _ := cmd.Flags().GetString("priority")
		dueFlag, _ := cmd.Flags().GetString("due")
		assigneeFlag, _ := cmd.Flags().GetString("assignee")
		descriptionFlag, _ := cmd.Flags().GetString("description")

		if projectFlag == "" {
			return fmt.Errorf("--project is required")
		}

		draft := models.TaskDraft{
			Title:       title,
			Description: descriptionFlag,
			Status:      models.StatusOpen,
			GroupID:     projectFlag,
			Priority:    Config.DefaultPriority,
			Assignee:    assigneeFlag,
		}
		if draft.Assignee == "" {
			draft.Assignee = Config.DefaultAssignee
		}
		if statusFlag != "" {
			status := models.TaskStatus(statusFlag)
			if !models.ValidStatus(status) {
				return fmt.Errorf("invalid status %q, must be one of: Open, In Progress, Done", statusFlag)
			}
			draft.Status = status
		}
		if priorityFlag != "" {
			priority := models.Priority(priorityFlag)
			if !models.ValidPriority(priority) {
				return fmt.Errorf("invalid priority %q, must be one of: low, medium, high", priorityFlag)
			}
			draft.Priority = priority
		}
		if dueFlag != "" {
			if _, err := time.Parse("2006-01-02", dueFlag); err != nil {
				return fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", dueFlag)
			}
			draft.DueDate = &dueFlag
		}

		task, err := Store.AddTask(draft)
		if err != nil {
			return fmt.Errorf("adding task: %w", err)
		}

		fmt.Printf("Added task %s\n", task.ID)
		fmt.Printf("  Title:    %s\n", task.Title)
		fmt.Printf("  Status:   %s\n", task.Status)
		fmt.Printf("  Project:  %s\n", task.GroupID)
		fmt.Printf("  Priority: %s\n", task.Priority)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, honoring the project filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("store not initialized")
		}
		if err := Store.FetchData(); err != nil {
			return fmt.Errorf("loading board: %w", err)
		}

		projectFlag, _ := cmd.Flags().GetString("project")
		statusFlag, _ := cmd.Flags().GetString("status")
		if projectFlag != "" {
			Store.SetSelectedProjects([]string{projectFlag})
		}

		tasks := board.VisibleTasks(Store.Tasks(), Store.SelectedProjects())
		if statusFlag != "" {
			filtered := tasks[:0]
			for _, t := range tasks {
				if t.Status == models.TaskStatus(statusFlag) {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}
		printTaskTable(tasks)
		return nil
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Apply a partial update to a task",
	Long: `Apply a partial update to a task: only the fields named by flags
change, everything else is preserved. Updating a nonexistent task is an
error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("store not initialized")
		}

		var patch models.TaskPatch
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("task title must not be empty")
			}
			patch.Title = &title
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			patch.Description = &description
		}
		if cmd.Flags().Changed("status") {
			statusFlag, _ := cmd.Flags().GetString("status")
			status := models.TaskStatus(statusFlag)
			if !models.ValidStatus(status) {
				return fmt.Errorf("invalid status %q, must be one of: Open, In Progress, Done", statusFlag)
			}
			patch.Status = &status
		}
		if cmd.Flags().Changed("priority") {
			priorityFlag, _ := cmd.Flags().GetString("priority")
			priority := models.Priority(priorityFlag)
			if !models.ValidPriority(priority) {
				return fmt.Errorf("invalid priority %q, must be one of: low, medium, high", priorityFlag)
			}
			patch.Priority = &priority
		}
		if cmd.Flags().Changed("assignee") {
			assignee, _ := cmd.Flags().GetString("assignee")
			patch.Assignee = &assignee
		}
		if cmd.Flags().Changed("progress") {
			progress, _ := cmd.Flags().GetInt("progress")
			if progress < 0 || progress > 100 {
				return fmt.Errorf("progress %d out of range [0, 100]", progress)
			}
			patch.Progress = &progress
		}
		if cmd.Flags().Changed("due") {
			dueFlag, _ := cmd.Flags().GetString("due")
			if dueFlag == "" {
				patch.ClearDueDate = true
			} else {
				if _, err := time.Parse("2006-01-02", dueFlag); err != nil {
					return fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", dueFlag)
				}
				patch.DueDate = &dueFlag
			}
		}

		task, err := Store.UpdateTask(args[0], patch)
		if err != nil {
			return fmt.Errorf("updating task: %w", err)
		}
		fmt.Printf("Updated task %s (%s, %s)\n", task.ID, task.Status, task.Priority)
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <task-id> <column>",
	Short: "Move a task to another board column",
	Long: `Move a task to the named column (open, in-progress, done). The move
goes through the board engine, so destination WIP limits apply exactly as
they do for drag-and-drop.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil || Engine == nil {
			return fmt.Errorf("board engine not initialized")
		}
		if err := Store.FetchData(); err != nil {
			return fmt.Errorf("loading board: %w", err)
		}

		taskID, columnID := args[0], args[1]
		columns := Engine.Columns()
		dst, ok := board.ColumnByID(columns, columnID)
		if !ok {
			return fmt.Errorf("unknown column %q", columnID)
		}

		src, srcIndex, err := locateTask(taskID)
		if err != nil {
			return err
		}

		destIndex := len(Engine.Buckets()[dst.ID])
		outcome, err := Engine.ApplyDrag(board.DragResult{
			Source:      board.DragSource{ColumnID: src.ID, Index: srcIndex},
			Destination: &board.DragDestination{ColumnID: dst.ID, Index: destIndex},
			DraggedID:   taskID,
		})
		if err != nil {
			return fmt.Errorf("moving task: %w", err)
		}
		if outcome.WIPLimitExceeded {
			fmt.Printf("Move rejected: column %q is at its WIP limit (%d)\n", dst.ID, dst.WIPLimit)
			return nil
		}
		if outcome.Reordered {
			fmt.Printf("Task %s is already in %q\n", taskID, dst.ID)
			return nil
		}
		fmt.Printf("Moved task %s to %s\n", taskID, dst.Status)
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Long:  `Delete a task by id. Deleting an id that does not exist is a no-op.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("store not initialized")
		}
		if err := Store.DeleteTask(args[0]); err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		fmt.Printf("Deleted task %s\n", args[0])
		return nil
	},
}

// locateTask finds the column and in-bucket index of a task on the current
// board, for building a drag result from the command line.
func locateTask(taskID string) (board.Column, int, error) {
	buckets := Engine.Buckets()
	for _, col := range Engine.Columns() {
		for i, t := range buckets[col.ID] {
			if t.ID == taskID {
				return col, i, nil
			}
		}
	}
	return board.Column{}, 0, fmt.Errorf("task %s not found on the board", taskID)
}

var (
	taskHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	taskDoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	taskActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	taskOpenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printTaskTable(tasks []models.Task) {
	fmt.Println(taskHeaderStyle.Render(fmt.Sprintf("%-38s %-28s %-12s %-8s %-10s %s",
		"ID", "TITLE", "STATUS", "PRIO", "DUE", "PROJECT")))
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = *t.DueDate
		}
		title := t.Title
		if len(title) > 28 {
			title = title[:25] + "..."
		}
		line := fmt.Sprintf("%-38s %-28s %-12s %-8s %-10s %s",
			t.ID, title, t.Status, t.Priority, due, t.GroupID)
		fmt.Println(styleForTaskStatus(t.Status).Render(line))
	}
}

func styleForTaskStatus(status models.TaskStatus) lipgloss.Style {
	switch status {
	case models.StatusDone:
		return taskDoneStyle
	case models.StatusInProgress:
		return taskActiveStyle
	default:
		return taskOpenStyle
	}
}

func init() {
	taskAddCmd.Flags().String("project", "", "Project id that owns the task (required)")
	taskAddCmd.Flags().String("status", "", "Initial status (Open, In Progress, Done)")
	taskAddCmd.Flags().String("priority", "", "Priority (low, medium, high)")
	taskAddCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	taskAddCmd.Flags().String("assignee", "", "Assignee name")
	taskAddCmd.Flags().String("description", "", "Task description")

	taskListCmd.Flags().String("project", "", "Show only tasks for this project id")
	taskListCmd.Flags().String("status", "", "Show only tasks with this status")

	taskUpdateCmd.Flags().String("title", "", "New title")
	taskUpdateCmd.Flags().String("description", "", "New description")
	taskUpdateCmd.Flags().String("status", "", "New status (Open, In Progress, Done)")
	taskUpdateCmd.Flags().String("priority", "", "New priority (low, medium, high)")
	taskUpdateCmd.Flags().String("assignee", "", "New assignee")
	taskUpdateCmd.Flags().Int("progress", 0, "Progress percentage [0, 100]")
	taskUpdateCmd.Flags().String("due", "", "New due date (YYYY-MM-DD); empty clears it")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	rootCmd.AddCommand(taskCmd)
}
