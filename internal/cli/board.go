package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jthorne/taskdeck/internal/board"
	"github.com/jthorne/taskdeck/pkg/models"
)

type boardModel struct {
	columns []board.Column
	buckets map[string][]models.Task

	// Cursor position: focused column index and task index within it.
	col int
	row int

	width  int
	height int

	// Add-task prompt state.
	adding bool
	input  textinput.Model

	status  string
	loading bool
	err     error
}

// boardLoadedMsg carries the reloaded buckets back to the model.
type boardLoadedMsg struct {
	buckets map[string][]models.Task
	err     error
}

// Style definitions.
var (
	boardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	columnStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeColumnStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)

	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62"))

	wipFullStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	cardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	selectedCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62"))

	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	boardHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newBoardModel() boardModel {
	input := textinput.New()
	input.Placeholder = "task title"
	input.CharLimit = 120

	return boardModel{
		columns: Engine.Columns(),
		buckets: make(map[string][]models.Task),
		input:   input,
		loading: true,
	}
}

func (m boardModel) Init() tea.Cmd {
	return loadBoard
}

func loadBoard() tea.Msg {
	if err := Store.FetchData(); err != nil {
		return boardLoadedMsg{err: err}
	}
	return boardLoadedMsg{buckets: Engine.Buckets()}
}

// refreshBoard re-derives buckets without a disk reload, after a mutation
// the store already persisted.
func refreshBoard() tea.Msg {
	return boardLoadedMsg{buckets: Engine.Buckets()}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.adding {
			return m.updateAddPrompt(msg)
		}
		return m.updateBoardKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.buckets = msg.buckets
		m.clampCursor()
		return m, nil
	}

	return m, nil
}

func (m boardModel) updateBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "left":
		if m.col > 0 {
			m.col--
			m.clampCursor()
		}
		return m, nil

	case "right":
		if m.col < len(m.columns)-1 {
			m.col++
			m.clampCursor()
		}
		return m, nil

	case "j", "down":
		if m.row < len(m.focusedBucket())-1 {
			m.row++
		}
		return m, nil

	case "k", "up":
		if m.row > 0 {
			m.row--
		}
		return m, nil

	case "h":
		return m.moveAcross(-1)

	case "l":
		return m.moveAcross(1)

	case "J":
		return m.moveWithin(1)

	case "K":
		return m.moveWithin(-1)

	case "a":
		if len(Store.SelectedProjects()) != 1 {
			m.status = warningStyle.Render("Select exactly one project to add tasks (taskdeck project select)")
			return m, nil
		}
		m.adding = true
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "r":
		m.loading = true
		m.status = ""
		return m, loadBoard
	}

	return m, nil
}

func (m boardModel) updateAddPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil

	case "enter":
		title := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		if title == "" {
			return m, nil
		}
		_, err := Engine.AddTaskToColumn(m.columns[m.col].ID, models.TaskDraft{
			Title:    title,
			Priority: Config.DefaultPriority,
			Assignee: Config.DefaultAssignee,
		})
		if err != nil {
			m.status = warningStyle.Render(fmt.Sprintf("Add failed: %s", err))
			return m, nil
		}
		m.status = fmt.Sprintf("Added %q to %s", title, m.columns[m.col].ID)
		return m, refreshBoard
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// moveAcross moves the focused task to the adjacent column through the
// engine, so WIP limits apply.
func (m boardModel) moveAcross(dir int) (tea.Model, tea.Cmd) {
	bucket := m.focusedBucket()
	if len(bucket) == 0 {
		return m, nil
	}
	target := m.col + dir
	if target < 0 || target >= len(m.columns) {
		return m, nil
	}

	src := m.columns[m.col]
	dst := m.columns[target]
	task := bucket[m.row]

	outcome, err := Engine.ApplyDrag(board.DragResult{
		Source:      board.DragSource{ColumnID: src.ID, Index: m.row},
		Destination: &board.DragDestination{ColumnID: dst.ID, Index: len(m.buckets[dst.ID])},
		DraggedID:   task.ID,
	})
	if err != nil {
		m.status = warningStyle.Render(fmt.Sprintf("Move failed: %s", err))
		return m, refreshBoard
	}
	if outcome.WIPLimitExceeded {
		m.status = warningStyle.Render(fmt.Sprintf("%s is at its WIP limit (%d)", dst.ID, dst.WIPLimit))
		return m, nil
	}

	m.col = target
	m.status = fmt.Sprintf("Moved %q to %s", task.Title, dst.Status)
	return m, refreshBoard
}

// moveWithin reorders the focused task inside its column; the ordering is
// ephemeral and resets on reload.
func (m boardModel) moveWithin(dir int) (tea.Model, tea.Cmd) {
	bucket := m.focusedBucket()
	if len(bucket) == 0 {
		return m, nil
	}
	target := m.row + dir
	if target < 0 || target >= len(bucket) {
		return m, nil
	}

	col := m.columns[m.col]
	_, err := Engine.ApplyDrag(board.DragResult{
		Source:      board.DragSource{ColumnID: col.ID, Index: m.row},
		Destination: &board.DragDestination{ColumnID: col.ID, Index: target},
		DraggedID:   bucket[m.row].ID,
	})
	if err != nil {
		m.status = warningStyle.Render(fmt.Sprintf("Reorder failed: %s", err))
		return m, nil
	}
	m.row = target
	return m, refreshBoard
}

func (m boardModel) focusedBucket() []models.Task {
	if m.col < 0 || m.col >= len(m.columns) {
		return nil
	}
	return m.buckets[m.columns[m.col].ID]
}

func (m *boardModel) clampCursor() {
	if m.col >= len(m.columns) {
		m.col = len(m.columns) - 1
	}
	if m.col < 0 {
		m.col = 0
	}
	if n := len(m.focusedBucket()); m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m boardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := boardTitleStyle.Render(" taskdeck board ")
	help := boardHelpStyle.Render("←/→ j/k: navigate | h/l: move task | J/K: reorder | a: add | r: reload | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading board...\n\n%s", title, help)
	}
	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	colWidth := (m.width - 2) / len(m.columns)
	if colWidth < 24 {
		colWidth = 24
	}

	rendered := make([]string, 0, len(m.columns))
	for i, col := range m.columns {
		rendered = append(rendered, m.renderColumn(i, col, colWidth-4))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	footer := help
	if m.adding {
		footer = fmt.Sprintf("Add to %s: %s", m.columns[m.col].ID, m.input.View())
	} else if m.status != "" {
		footer = fmt.Sprintf("%s\n%s", m.status, help)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, footer)
}

func (m boardModel) renderColumn(index int, col board.Column, width int) string {
	bucket := m.buckets[col.ID]

	header := fmt.Sprintf("%s (%d)", col.Status, len(bucket))
	if col.WIPLimit > 0 {
		header = fmt.Sprintf("%s (%d/%d)", col.Status, len(bucket), col.WIPLimit)
	}
	headerLine := columnHeaderStyle.Render(header)
	if col.WIPLimit > 0 && len(bucket) >= col.WIPLimit {
		headerLine = wipFullStyle.Render(header)
	}

	var b strings.Builder
	b.WriteString(headerLine)
	b.WriteString("\n")

	if len(bucket) == 0 {
		b.WriteString(boardHelpStyle.Render("  (empty)"))
	}
	for i, t := range bucket {
		line := taskCardLine(t, width)
		if index == m.col && i == m.row && !m.adding {
			b.WriteString(selectedCardStyle.Render(line))
		} else {
			b.WriteString(cardStyle.Render(line))
		}
		b.WriteString("\n")
	}

	style := columnStyle
	if index == m.col {
		style = activeColumnStyle
	}
	return style.Width(width).Render(b.String())
}

func taskCardLine(t models.Task, width int) string {
	line := fmt.Sprintf("[%s] %s", t.Priority, t.Title)
	if t.DueDate != nil {
		line = fmt.Sprintf("%s (due %s)", line, *t.DueDate)
	}
	if len(line) > width {
		line = line[:width-3] + "..."
	}
	return line
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive kanban board",
	Long: `Open the interactive kanban board.

Columns derive from the configured board layout; moving a task across
columns changes its status through the store, and destination WIP limits
are enforced. Reordering within a column is cosmetic and resets on reload.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil || Engine == nil {
			return fmt.Errorf("board engine not initialized")
		}

		projectFlag, _ := cmd.Flags().GetStringSlice("project")
		if len(projectFlag) > 0 {
			Store.SetSelectedProjects(projectFlag)
		}

		p := tea.NewProgram(newBoardModel(), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running board: %w", err)
		}
		return nil
	},
}

func init() {
	boardCmd.Flags().StringSlice("project", nil, "Filter the board to these project ids (repeatable)")
	rootCmd.AddCommand(boardCmd)
}
