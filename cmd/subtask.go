package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Manage the subtasks of a task",
	Long:  `Adds and completes checklist items. Subtasks never change the task's column.`,
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add ID TITLE",
	Short: "Add a subtask",
	Args:  cobra.ExactArgs(2), //nolint:mnd // id, title
	RunE:  runSubtaskAdd,
}

var subtaskToggleCmd = &cobra.Command{
	Use:   "toggle ID SUBTASK",
	Short: "Toggle a subtask between open and done",
	Long:  `SUBTASK is the subtask id or its 1-based position in the list.`,
	Args:  cobra.ExactArgs(2), //nolint:mnd // id, subtask
	RunE:  runSubtaskToggle,
}

func init() {
	subtaskCmd.AddCommand(subtaskAddCmd, subtaskToggleCmd)
	rootCmd.AddCommand(subtaskCmd)
}

type subtaskResult struct {
	TaskID string `json:"task_id"`
	task.Subtask
}

func runSubtaskAdd(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var (
		taskID string
		sub    *task.Subtask
	)
	if _, err := openStore(cfg).Update(func(b *board.Board) error {
		t, _, err := b.ResolveTask(args[0])
		if err != nil {
			return err
		}
		taskID = t.ID
		sub, err = b.AddSubtask(t.ID, args[1])
		return err
	}); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, subtaskResult{TaskID: taskID, Subtask: *sub})
	}
	output.Messagef(os.Stdout, "Added subtask to task %s: %s", board.ShortID(taskID), sub.Title)
	return nil
}

func runSubtaskToggle(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var (
		taskID string
		sub    task.Subtask
	)
	if _, err := openStore(cfg).Update(func(b *board.Board) error {
		t, _, err := b.ResolveTask(args[0])
		if err != nil {
			return err
		}
		taskID = t.ID
		subID := resolveSubtask(t, args[1])
		done, err := b.ToggleSubtask(t.ID, subID)
		if err != nil {
			return err
		}
		for _, s := range t.Subtasks {
			if s.ID == subID {
				sub = s
			}
		}
		sub.Completed = done
		return nil
	}); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, subtaskResult{TaskID: taskID, Subtask: sub})
	}
	state := "open"
	if sub.Completed {
		state = "done"
	}
	output.Messagef(os.Stdout, "Subtask %q of task %s is now %s", sub.Title, board.ShortID(taskID), state)
	return nil
}

// resolveSubtask maps a 1-based position to a subtask id. Anything else is
// taken as an id.
func resolveSubtask(t *task.Task, ref string) string {
	if pos, err := strconv.Atoi(ref); err == nil && pos >= 1 && pos <= len(t.Subtasks) {
		return t.Subtasks[pos-1].ID
	}
	return ref
}
