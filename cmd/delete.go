package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Deletes tasks from the board. Prompts for confirmation in interactive
mode unless --yes is given. A task with open subtasks is only deleted
with --force.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	deleteCmd.Flags().BoolP("force", "f", false, "delete even with open subtasks")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	refs, err := parseRefs(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	yes, _ := cmd.Flags().GetBool("yes")
	force, _ := cmd.Flags().GetBool("force")

	if !yes {
		ok, err := confirmDelete(cfg, refs)
		if err != nil || !ok {
			return err
		}
	}

	if len(refs) > 1 {
		return runBatch(refs, func(ref string) error {
			_, err := executeDelete(cfg, ref, force)
			return err
		})
	}

	t, err := executeDelete(cfg, refs[0], force)
	if err != nil {
		return err
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     t.ID,
			"title":  t.Title,
		})
	}
	output.Messagef(os.Stdout, "Deleted task %s: %s", board.ShortID(t.ID), t.Title)
	return nil
}

// confirmDelete asks before deleting. It fails when no terminal can answer.
func confirmDelete(cfg *config.Config, refs []string) (bool, error) {
	if !stdinIsTerminal() {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}

	question := fmt.Sprintf("Delete %d tasks?", len(refs))
	if len(refs) == 1 {
		b, err := openStore(cfg).Load()
		if err != nil {
			return false, err
		}
		t, _, err := b.ResolveTask(refs[0])
		if err != nil {
			return false, err
		}
		question = fmt.Sprintf("Delete task %s %q?", board.ShortID(t.ID), t.Title)
	}

	ok, err := confirm(question, false)
	if err == nil && !ok {
		fmt.Fprintln(os.Stderr, "Canceled.")
	}
	return ok, err
}

func executeDelete(cfg *config.Config, ref string, force bool) (*task.Task, error) {
	var deleted *task.Task
	_, err := openStore(cfg).Update(func(b *board.Board) error {
		t, _, err := b.ResolveTask(ref)
		if err != nil {
			return err
		}
		deleted, err = b.DeleteTask(t.ID, force)
		return err
	})
	return deleted, err
}
