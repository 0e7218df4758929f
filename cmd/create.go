package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/date"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "add TITLE",
	Aliases: []string{"create"},
	Short:   "Add a new task",
	Long: `Adds a task to a column (the default column unless --column is given).
The task takes the column title as its status.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringP("column", "c", "", "column id or title (default from config)")
	createCmd.Flags().StringP("description", "d", "", "task description")
	createCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	createCmd.Flags().StringP("assignee", "a", "", "task assignee")
	createCmd.Flags().StringP("priority", "p", "", "task priority (default from config)")
	createCmd.Flags().String("package", "", "package name")
	createCmd.Flags().StringArray("subtask", nil, "subtask title, repeatable")
	createCmd.Flags().StringArray("field", nil, "custom field as name=value, repeatable")
	createCmd.Flags().Bool("force", false, "ignore the column's WIP limit")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	draft, err := draftFromFlags(cmd, args[0], cfg)
	if err != nil {
		return err
	}
	colRef, _ := cmd.Flags().GetString("column")
	if colRef == "" {
		colRef = cfg.Defaults.Column
	}
	col, err := cfg.ResolveColumn(colRef)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	var created *task.Task
	if _, err := openStore(cfg).Update(func(b *board.Board) error {
		if !force {
			if err := board.CheckWIPLimit(cfg, board.CountByStatus(b.AllTasks()), col.Title, ""); err != nil {
				return err
			}
		}
		var addErr error
		created, addErr = b.AddTask(col.ID, draft)
		return addErr
	}); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, created)
	}

	output.Messagef(os.Stdout, "Created task %s: %s", board.ShortID(created.ID), created.Title)
	output.Messagef(os.Stdout, "  Status: %s | Priority: %s", created.Status, created.Priority)
	if created.Assignee != "" {
		output.Messagef(os.Stdout, "  Assignee: %s", created.Assignee)
	}
	if created.Package != "" {
		output.Messagef(os.Stdout, "  Package: %s", created.Package)
	}
	return nil
}

// draftFromFlags builds a task draft from the add flags.
func draftFromFlags(cmd *cobra.Command, title string, cfg *config.Config) (task.Draft, error) {
	d := task.Draft{Title: title}
	d.Description, _ = cmd.Flags().GetString("description")
	d.Assignee, _ = cmd.Flags().GetString("assignee")
	d.Package, _ = cmd.Flags().GetString("package")

	prio, _ := cmd.Flags().GetString("priority")
	if prio == "" {
		prio = cfg.Defaults.Priority
	}
	p, err := task.ParsePriority(prio)
	if err != nil {
		return d, err
	}
	d.Priority = p

	if v, _ := cmd.Flags().GetString("due"); v != "" {
		due, err := date.Parse(v)
		if err != nil {
			return d, task.FormatDueDate(v, err)
		}
		d.Due = &due
	}

	subtasks, _ := cmd.Flags().GetStringArray("subtask")
	for _, s := range subtasks {
		d.Subtasks = append(d.Subtasks, task.Subtask{Title: s})
	}

	fields, _ := cmd.Flags().GetStringArray("field")
	for _, f := range fields {
		name, value, err := parseFieldFlag(f)
		if err != nil {
			return d, err
		}
		d.CustomFields = append(d.CustomFields, task.CustomField{Name: name, Value: value})
	}
	return d, nil
}

// parseFieldFlag splits a name=value custom field argument.
func parseFieldFlag(s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", clierr.Newf(clierr.InvalidField, "invalid field %q (want name=value)", s).
			WithDetails(map[string]any{"field": s})
	}
	return name, value, nil
}
