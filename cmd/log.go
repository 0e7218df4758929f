package cmd

import (
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/date"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

var logActions = []string{board.ActionAdd, board.ActionUpdate, board.ActionMove, board.ActionDelete}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show activity log",
	Long:  `Displays the activity log of board mutations (add, update, move, delete).`,
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().String("since", "", "show entries after this date (YYYY-MM-DD)")
	logCmd.Flags().Int("limit", 0, "maximum number of entries to show (most recent)")
	logCmd.Flags().String("action", "", "filter by action type (add, update, move, delete)")
	logCmd.Flags().String("task", "", "filter by task ID or ID suffix")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := board.LogFilterOptions{}
	if v, _ := cmd.Flags().GetString("since"); v != "" {
		d, parseErr := date.Parse(v)
		if parseErr != nil {
			return task.ValidateDate("since", v, parseErr)
		}
		opts.Since = d.Time
	}
	if v, _ := cmd.Flags().GetInt("limit"); v > 0 {
		opts.Limit = v
	}
	if v, _ := cmd.Flags().GetString("action"); v != "" {
		if !slices.Contains(logActions, v) {
			return clierr.Newf(clierr.InvalidInput, "unknown action %q", v).
				WithDetails(map[string]any{"action": v, "allowed": logActions})
		}
		opts.Action = v
	}
	opts.TaskID, _ = cmd.Flags().GetString("task")

	entries, err := board.ReadLog(cfg.Dir(), opts)
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		if entries == nil {
			entries = []board.LogEntry{}
		}
		return output.JSON(os.Stdout, entries)
	case output.FormatCompact:
		output.ActivityLogCompact(os.Stdout, entries)
	default:
		output.ActivityLogTable(os.Stdout, entries)
	}
	return nil
}
