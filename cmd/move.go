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

var moveCmd = &cobra.Command{
	Use:   "move ID[,ID,...] [COLUMN]",
	Short: "Move a task to a different column",
	Long: `Moves a task to another column, given by id or title, or along the
column order with --next/--prev. The task takes the column title as its
status. Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runMove,
}

func init() {
	moveCmd.Flags().Bool("next", false, "move to the next column")
	moveCmd.Flags().Bool("prev", false, "move to the previous column")
	moveCmd.Flags().Int("index", board.End, "position in the destination column (default: end)")
	moveCmd.Flags().BoolP("force", "f", false, "override WIP limits")
	rootCmd.AddCommand(moveCmd)
}

// moveResult wraps a task with a changed flag for JSON output.
type moveResult struct {
	*task.Task
	Changed bool `json:"changed"`
}

func runMove(cmd *cobra.Command, args []string) error {
	refs, err := parseRefs(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	target := ""
	if len(args) == 2 { //nolint:mnd // positional arg
		col, err := cfg.ResolveColumn(args[1])
		if err != nil {
			return err
		}
		target = col.ID
	}
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")
	if err := checkMoveArgs(target, next, prev); err != nil {
		return err
	}
	index, _ := cmd.Flags().GetInt("index")
	force, _ := cmd.Flags().GetBool("force")

	req := moveRequest{target: target, next: next, prev: prev, index: index, force: force}
	if len(refs) == 1 {
		return moveSingleTask(cfg, refs[0], req)
	}
	return runBatch(refs, func(ref string) error {
		_, _, err := executeMove(cfg, ref, req)
		return err
	})
}

type moveRequest struct {
	target     string
	next, prev bool
	index      int
	force      bool
}

func checkMoveArgs(target string, next, prev bool) error {
	set := 0
	for _, b := range []bool{target != "", next, prev} {
		if b {
			set++
		}
	}
	switch {
	case set == 0:
		return clierr.New(clierr.InvalidInput, "provide a target column or use --next/--prev")
	case set > 1:
		return clierr.New(clierr.StatusConflict, "use only one of COLUMN, --next and --prev")
	}
	return nil
}

func moveSingleTask(cfg *config.Config, ref string, req moveRequest) error {
	t, from, err := executeMove(cfg, ref, req)
	if err != nil {
		return err
	}
	changed := from != string(t.Status) || req.index != board.End

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, moveResult{Task: t, Changed: changed})
	}
	if from == string(t.Status) && changed {
		output.Messagef(os.Stdout, "Reordered task %s within %s", board.ShortID(t.ID), t.Status)
		return nil
	}
	if from == string(t.Status) {
		output.Messagef(os.Stdout, "Task %s stays in %s", board.ShortID(t.ID), t.Status)
		return nil
	}
	output.Messagef(os.Stdout, "Moved task %s: %s -> %s", board.ShortID(t.ID), from, t.Status)
	return nil
}

// executeMove resolves ref and its destination and moves the task.
// Returns the moved task and the title of its former column. Moving a task
// onto its own column without an index leaves the board untouched.
func executeMove(cfg *config.Config, ref string, req moveRequest) (*task.Task, string, error) {
	var (
		moved *task.Task
		from  string
	)
	_, err := openStore(cfg).Update(func(b *board.Board) error {
		t, col, err := b.ResolveTask(ref)
		if err != nil {
			return err
		}
		dest, err := moveTarget(b, col, t, req)
		if err != nil {
			return err
		}
		moved, from = t, col.Title
		if dest == col && req.index == board.End {
			return nil
		}
		if !req.force {
			counts := board.CountByStatus(b.AllTasks())
			if err := board.CheckWIPLimit(cfg, counts, dest.Title, col.Title); err != nil {
				return err
			}
		}
		return b.MoveTask(t.ID, col.ID, dest.ID, req.index)
	})
	return moved, from, err
}

func moveTarget(b *board.Board, current *board.Column, t *task.Task, req moveRequest) (*board.Column, error) {
	if req.target != "" {
		return b.Column(req.target)
	}
	idx := -1
	for i, c := range b.Columns {
		if c == current {
			idx = i
		}
	}
	switch {
	case req.next && idx >= len(b.Columns)-1:
		return nil, boundaryError(t, current, "last")
	case req.next:
		return b.Columns[idx+1], nil
	case idx <= 0:
		return nil, boundaryError(t, current, "first")
	default:
		return b.Columns[idx-1], nil
	}
}

func boundaryError(t *task.Task, col *board.Column, edge string) *clierr.Error {
	return clierr.Newf(clierr.StatusConflict, "task %s is already in the %s column (%s)",
		board.ShortID(t.ID), edge, col.Title).
		WithDetails(map[string]any{"id": t.ID, "column": col.Title})
}
