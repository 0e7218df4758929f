package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Manage custom fields of a task",
	Long: `Sets or removes free-form name/value fields. The field name
"` + task.FieldAssignee + `" writes the task's assignee.`,
}

var fieldSetCmd = &cobra.Command{
	Use:   "set ID NAME VALUE",
	Short: "Set a custom field",
	Args:  cobra.ExactArgs(3), //nolint:mnd // id, name, value
	RunE:  runFieldSet,
}

var fieldRemoveCmd = &cobra.Command{
	Use:     "remove ID NAME",
	Aliases: []string{"rm"},
	Short:   "Remove a custom field",
	Args:    cobra.ExactArgs(2), //nolint:mnd // id, name
	RunE:    runFieldRemove,
}

func init() {
	fieldCmd.AddCommand(fieldSetCmd, fieldRemoveCmd)
	rootCmd.AddCommand(fieldCmd)
}

func runFieldSet(_ *cobra.Command, args []string) error {
	t, err := updateField(args[0], func(b *board.Board, id string) (*task.Task, error) {
		return b.SetCustomField(id, args[1], args[2])
	})
	if err != nil {
		return err
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, "Set %s on task %s", args[1], board.ShortID(t.ID))
	return nil
}

func runFieldRemove(_ *cobra.Command, args []string) error {
	t, err := updateField(args[0], func(b *board.Board, id string) (*task.Task, error) {
		return b.RemoveCustomField(id, args[1])
	})
	if err != nil {
		return err
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, "Removed %s from task %s", args[1], board.ShortID(t.ID))
	return nil
}

func updateField(ref string, fn func(*board.Board, string) (*task.Task, error)) (*task.Task, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	var updated *task.Task
	_, err = openStore(cfg).Update(func(b *board.Board) error {
		t, _, err := b.ResolveTask(ref)
		if err != nil {
			return err
		}
		updated, err = fn(b, t.ID)
		return err
	})
	return updated, err
}
