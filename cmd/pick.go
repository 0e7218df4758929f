package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick the next task to work on",
	Long: `Finds the most urgent task of a column (the first column by default):
highest priority first, then earliest due date, then oldest. With --move
the picked task is moved in the same step.`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	pickCmd.Flags().StringP("column", "c", "", "column to pick from (default: first column)")
	pickCmd.Flags().StringP("assignee", "a", "", "only tasks assigned to this person")
	pickCmd.Flags().String("package", "", "only tasks in this package")
	pickCmd.Flags().String("move", "", "also move the picked task to this column")
	pickCmd.Flags().BoolP("force", "f", false, "override the WIP limit of the --move column")
	rootCmd.AddCommand(pickCmd)
}

type pickResult struct {
	*task.Task
	Moved bool   `json:"moved"`
	From  string `json:"from,omitempty"`
}

func runPick(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var opts board.PickOptions
	if ref, _ := cmd.Flags().GetString("column"); ref != "" {
		col, err := cfg.ResolveColumn(ref)
		if err != nil {
			return err
		}
		opts.ColumnID = col.ID
	}
	opts.Assignee, _ = cmd.Flags().GetString("assignee")
	opts.Package, _ = cmd.Flags().GetString("package")

	var dest *config.ColumnConfig
	if ref, _ := cmd.Flags().GetString("move"); ref != "" {
		if dest, err = cfg.ResolveColumn(ref); err != nil {
			return err
		}
	}
	force, _ := cmd.Flags().GetBool("force")

	var result pickResult
	if _, err := openStore(cfg).Update(func(b *board.Board) error {
		picked := board.Pick(b, opts)
		if picked == nil {
			return clierr.New(clierr.NothingToPick, "no task matches the pick criteria")
		}
		result.Task = picked
		if dest == nil || string(picked.Status) == dest.Title {
			return nil
		}
		if !force {
			counts := board.CountByStatus(b.AllTasks())
			if err := board.CheckWIPLimit(cfg, counts, dest.Title, string(picked.Status)); err != nil {
				return err
			}
		}
		result.From = string(picked.Status)
		result.Moved = true
		return b.MoveTaskTo(picked.ID, dest.ID, board.End)
	}); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, result)
	}
	output.Messagef(os.Stdout, "Picked task %s: %s", board.ShortID(result.ID), result.Title)
	if result.Moved {
		output.Messagef(os.Stdout, "  Moved: %s -> %s", result.From, result.Status)
	}
	return nil
}
