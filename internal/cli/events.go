package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jthorne/taskdeck/internal/observability"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Read the mutation event log",
	Long: `Read the board's mutation event log (JSONL, one event per line).

Filter with --type (e.g. task.created, board.move_rejected) and --since
(RFC 3339 timestamp or YYYY-MM-DD).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("event log not available")
		}

		typeFlag, _ := cmd.Flags().GetString("type")
		sinceFlag, _ := cmd.Flags().GetString("since")
		jsonFlag, _ := cmd.Flags().GetBool("json")
		limitFlag, _ := cmd.Flags().GetInt("limit")

		filter := observability.EventFilter{Type: typeFlag}
		if sinceFlag != "" {
			since, err := parseEventTime(sinceFlag)
			if err != nil {
				return err
			}
			filter.Since = &since
		}

		events, err := EventLog.Read(filter)
		if err != nil {
			return fmt.Errorf("reading event log: %w", err)
		}
		if limitFlag > 0 && len(events) > limitFlag {
			events = events[len(events)-limitFlag:]
		}
		if len(events) == 0 {
			fmt.Println("No events found.")
			return nil
		}

		for _, e := range events {
			if jsonFlag {
				data, err := json.Marshal(e)
				if err != nil {
					return fmt.Errorf("encoding event: %w", err)
				}
				fmt.Println(string(data))
				continue
			}
			line := fmt.Sprintf("%s  %-22s", e.Time.Format(time.RFC3339), e.Type)
			for k, v := range e.Data {
				line += fmt.Sprintf(" %s=%v", k, v)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func parseEventTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q, expected RFC 3339 or YYYY-MM-DD", value)
}

func init() {
	eventsCmd.Flags().String("type", "", "Show only events of this type")
	eventsCmd.Flags().String("since", "", "Show only events at or after this time")
	eventsCmd.Flags().Bool("json", false, "Print raw JSON lines")
	eventsCmd.Flags().Int("limit", 0, "Show only the most recent N events")
	rootCmd.AddCommand(eventsCmd)
}
