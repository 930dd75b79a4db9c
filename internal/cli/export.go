package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jthorne/taskdeck/internal/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the full snapshot as YAML",
	Long: `Export the full board snapshot (tasks, users, projects) as YAML.
Writes to the given file, or to stdout when no file is named.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Database == nil {
			return fmt.Errorf("database not initialized")
		}

		db, err := Database.Load()
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		data, err := storage.EncodeYAML(db)
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}

		if len(args) == 0 {
			fmt.Print(string(data))
			return nil
		}
		if err := os.WriteFile(args[0], data, 0o600); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Printf("Exported %d task(s) and %d project(s) to %s\n",
			len(db.Tasks), len(db.Projects), args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the snapshot with a YAML export",
	Long: `Replace the entire board snapshot with the contents of a YAML
export file. The previous snapshot is overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Database == nil || Store == nil {
			return fmt.Errorf("database not initialized")
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading import: %w", err)
		}
		db, err := storage.DecodeYAML(data)
		if err != nil {
			return fmt.Errorf("decoding import: %w", err)
		}
		if err := Database.Save(db); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		// Bring the in-memory store in line with the new snapshot.
		if err := Store.FetchData(); err != nil {
			return fmt.Errorf("reloading store: %w", err)
		}
		fmt.Printf("Imported %d task(s) and %d project(s) from %s\n",
			len(db.Tasks), len(db.Projects), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
