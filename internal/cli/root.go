// Package cli implements the taskdeck command tree. Commands validate
// input at the edge and drive the injected store and board engine; they
// never mutate store state directly.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jthorne/taskdeck/internal/board"
	"github.com/jthorne/taskdeck/internal/config"
	"github.com/jthorne/taskdeck/internal/observability"
	"github.com/jthorne/taskdeck/internal/storage"
	"github.com/jthorne/taskdeck/internal/store"
)

// Services injected by the App at startup.
var (
	BasePath string
	Config   *config.BoardConfig
	Database storage.DatabaseStore
	Store    *store.Store
	Engine   *board.Engine
	EventLog observability.EventLog
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "taskdeck - local project board with table, kanban, and timeline views",
	Long: `taskdeck is a single-user project board that keeps all tasks and
projects in one local JSON snapshot.

Tasks move through Open, In Progress, and Done columns; columns can carry
work-in-progress limits, and every view derives from the same store.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taskdeck %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
