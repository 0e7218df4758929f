package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/date"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only the given flags are changed;
an empty value clears a field. Use "move" to change a task's column.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().StringP("description", "d", "", "new description")
	editCmd.Flags().String("due", "", "new due date (YYYY-MM-DD)")
	editCmd.Flags().Bool("clear-due", false, "clear the due date")
	editCmd.Flags().StringP("assignee", "a", "", "new assignee")
	editCmd.Flags().StringP("priority", "p", "", "new priority")
	editCmd.Flags().String("package", "", "new package")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	patch, err := patchFromFlags(cmd)
	if err != nil {
		return err
	}
	if patch.Empty() {
		return clierr.New(clierr.InvalidInput, "no changes specified")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var updated *task.Task
	if _, err := openStore(cfg).Update(func(b *board.Board) error {
		t, _, err := b.ResolveTask(args[0])
		if err != nil {
			return err
		}
		updated, err = b.UpdateTask(t.ID, patch)
		return err
	}); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, updated)
	}
	output.Messagef(os.Stdout, "Updated task %s: %s", board.ShortID(updated.ID), updated.Title)
	return nil
}

// patchFromFlags collects the flags the user set into a board patch.
func patchFromFlags(cmd *cobra.Command) (board.Patch, error) {
	var p board.Patch
	flags := cmd.Flags()
	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}

	p.Title = str("title")
	p.Description = str("description")
	p.Assignee = str("assignee")
	p.Priority = str("priority")
	p.Package = str("package")

	p.ClearDue, _ = flags.GetBool("clear-due")
	if v := str("due"); v != nil {
		if p.ClearDue {
			return p, clierr.New(clierr.StatusConflict, "cannot use --due and --clear-due together")
		}
		due, err := date.Parse(*v)
		if err != nil {
			return p, task.FormatDueDate(*v, err)
		}
		p.Due = &due
	}
	return p, nil
}
