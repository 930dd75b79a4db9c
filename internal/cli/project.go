package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jthorne/taskdeck/pkg/models"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects and the project filter",
	Long: `Project management commands.

Projects group tasks. Deleting a project also deletes every task it owns.
The select subcommand toggles projects in and out of the view filter; an
empty filter shows everything.`,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("store not initialized")
		}

		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("project name must not be empty")
		}
		description, _ := cmd.Flags().GetString("description")
		color, _ := cmd.Flags().GetString("color")
		members, _ := cmd.Flags().GetStringSlice("member")

		project, err := Store.AddProject(models.ProjectDraft{
			Name:        name,
			Description: description,
			Color:       color,
			Members:     members,
		})
		if err != nil {
			return fmt.Errorf("adding project: %w", err)
		}
		fmt.Printf("Added project %s (%s)\n", project.ID, project.Name)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with task counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("store not initialized")
		}
		if err := Store.FetchData(); err != nil {
			return fmt.Errorf("loading board: %w", err)
		}

		projects := Store.Projects()
		if len(projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		counts := make(map[string]int)
		for _, t := range Store.Tasks() {
			counts[t.GroupID]++
		}
		selected := Store.SelectedProjects()

		fmt.Println(taskHeaderStyle.Render(fmt.Sprintf("%-38s %-24s %-6s %s", "ID", "NAME", "TASKS", "FILTER")))
		for _, p := range projects {
			marker := ""
			if _, ok := selected[p.ID]; ok {
				marker = "selected"
			}
			line := fmt.Sprintf("%-38s %-24s %-6d %s", p.ID, p.Name, counts[p.ID], marker)
			if marker != "" {
				line = lipgloss.NewStyle().Bold(true).Render(line)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <project-id>",
	Short: "Apply a partial update to a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("store not initialized")
		}

		var patch models.ProjectPatch
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("project name must not be empty")
			}
			patch.Name = &name
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			patch.Description = &description
		}
		if cmd.Flags().Changed("color") {
			color, _ := cmd.Flags().GetString("color")
			patch.Color = &color
		}
		if cmd.Flags().Changed("member") {
			members, _ := cmd.Flags().GetStringSlice("member")
			patch.Members = &members
		}

		project, err := Store.UpdateProject(args[0], patch)
		if err != nil {
			return fmt.Errorf("updating project: %w", err)
		}
		fmt.Printf("Updated project %s (%s)\n", project.ID, project.Name)
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and all of its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("store not initialized")
		}
		if err := Store.FetchData(); err != nil {
			return fmt.Errorf("loading board: %w", err)
		}

		removed := 0
		for _, t := range Store.Tasks() {
			if t.GroupID == args[0] {
				removed++
			}
		}
		if err := Store.DeleteProject(args[0]); err != nil {
			return fmt.Errorf("deleting project: %w", err)
		}
		fmt.Printf("Deleted project %s and %d task(s)\n", args[0], removed)
		return nil
	},
}

var projectSelectCmd = &cobra.Command{
	Use:   "select <project-id>...",
	Short: "Toggle projects in the view filter (current invocation only)",
	Long: `Toggle each named project in or out of the view filter. Pass
--clear to reset the filter so every task is visible again.

The filter is in-memory state and lasts only for the current invocation;
it is not persisted across runs. To filter a one-shot command, use
'task list --project' or 'board --project' instead.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("store not initialized")
		}

		clear, _ := cmd.Flags().GetBool("clear")
		if clear {
			Store.SetSelectedProjects(nil)
			fmt.Println("Project filter cleared; all tasks visible.")
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("name at least one project id, or pass --clear")
		}
		for _, id := range args {
			Store.ToggleProjectSelection(id)
		}

		selected := Store.SelectedProjects()
		if len(selected) == 0 {
			fmt.Println("Project filter is empty; all tasks visible.")
			return nil
		}
		ids := make([]string, 0, len(selected))
		for id := range selected {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Printf("Filtering on: %s (this invocation only; use --project on list/board to filter a one-shot command)\n",
			strings.Join(ids, ", "))
		return nil
	},
}

func init() {
	projectAddCmd.Flags().String("description", "", "Project description")
	projectAddCmd.Flags().String("color", "", "Display color token")
	projectAddCmd.Flags().StringSlice("member", nil, "Project member (repeatable)")

	projectUpdateCmd.Flags().String("name", "", "New name")
	projectUpdateCmd.Flags().String("description", "", "New description")
	projectUpdateCmd.Flags().String("color", "", "New display color token")
	projectUpdateCmd.Flags().StringSlice("member", nil, "Replacement member list (repeatable)")

	projectSelectCmd.Flags().Bool("clear", false, "Reset the filter to show all tasks")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectSelectCmd)
	rootCmd.AddCommand(projectCmd)
}
