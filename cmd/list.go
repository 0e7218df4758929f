package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

// Task selections of the list and export commands.
const (
	viewActive    = "active"
	viewCompleted = "completed"
	viewAll       = "all"
	viewPackage   = "package"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks with optional filtering, sorting and output format control.

Views:
  active     tasks outside the completed column, newest first (default)
  completed  tasks in the completed column, newest first
  all        every task in column order
  package    active tasks grouped by package`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("view", viewActive, "task selection (active, completed, all, package)")
	listCmd.Flags().StringSlice("status", nil, "filter by column id or title (comma-separated)")
	listCmd.Flags().StringSlice("priority", nil, "filter by priority (comma-separated)")
	listCmd.Flags().String("assignee", "", "filter by assignee")
	listCmd.Flags().String("package", "", "filter by package")
	listCmd.Flags().StringP("search", "s", "", "search title, description, subtasks and fields")
	listCmd.Flags().Bool("overdue", false, "show only overdue tasks")
	listCmd.Flags().Bool("scheduled", false, "show only tasks with a due date")
	listCmd.Flags().Bool("unscheduled", false, "show only tasks without a due date")
	listCmd.Flags().String("sort", "", "sort field ("+strings.Join(board.SortFields, ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, _, b, err := loadBoard()
	if err != nil {
		return err
	}

	filter, err := filterFromFlags(cmd, cfg)
	if err != nil {
		return err
	}
	view, _ := cmd.Flags().GetString("view")
	tasks, err := selectTasks(b, view)
	if err != nil {
		return err
	}
	if len(filter.Statuses) > 0 && !cmd.Flags().Changed("view") {
		tasks = b.AllTasks()
	}
	filter.Now = b.Now()
	filter.CompletedTitle = b.CompletedTitle()
	tasks = board.Filter(tasks, filter)

	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	if sortBy != "" {
		if !slices.Contains(board.SortFields, sortBy) {
			return clierr.Newf(clierr.InvalidInput, "unknown sort field %q", sortBy).
				WithDetails(map[string]any{"sort": sortBy, "allowed": board.SortFields})
		}
		board.Sort(tasks, sortBy, reverse, b.ColumnTitles())
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}

	if view == viewPackage {
		return renderPackageView(b, b.PackageView(tasks))
	}

	switch outputFormat() {
	case output.FormatJSON:
		if tasks == nil {
			tasks = []*task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks, listOptions(b, task.ViewTaskList))
	default:
		output.TaskTable(os.Stdout, tasks, listOptions(b, task.ViewTableRow))
	}
	return nil
}

// selectTasks returns the tasks of a view. The package view starts from
// the active tasks.
func selectTasks(b *board.Board, view string) ([]*task.Task, error) {
	switch view {
	case "", viewActive, viewPackage:
		active, _ := b.ActiveAndCompleted()
		return active, nil
	case viewCompleted:
		_, completed := b.ActiveAndCompleted()
		return completed, nil
	case viewAll:
		return b.AllTasks(), nil
	default:
		return nil, clierr.Newf(clierr.InvalidInput, "unknown view %q", view).
			WithDetails(map[string]any{
				"view":    view,
				"allowed": []string{viewActive, viewCompleted, viewAll, viewPackage},
			})
	}
}

func filterFromFlags(cmd *cobra.Command, cfg *config.Config) (board.FilterOptions, error) {
	var f board.FilterOptions
	statuses, _ := cmd.Flags().GetStringSlice("status")
	for _, s := range statuses {
		col, err := cfg.ResolveColumn(s)
		if err != nil {
			return f, task.ValidateStatus(s, cfg.ColumnTitles())
		}
		f.Statuses = append(f.Statuses, col.Title)
	}
	priorities, _ := cmd.Flags().GetStringSlice("priority")
	for _, p := range priorities {
		prio, err := task.ParsePriority(p)
		if err != nil {
			return f, err
		}
		f.Priorities = append(f.Priorities, string(prio))
	}
	f.Assignee, _ = cmd.Flags().GetString("assignee")
	f.Package, _ = cmd.Flags().GetString("package")
	f.Search, _ = cmd.Flags().GetString("search")
	f.Overdue, _ = cmd.Flags().GetBool("overdue")

	scheduled, _ := cmd.Flags().GetBool("scheduled")
	unscheduled, _ := cmd.Flags().GetBool("unscheduled")
	switch {
	case scheduled && unscheduled:
		return f, clierr.New(clierr.StatusConflict, "cannot use --scheduled and --unscheduled together")
	case scheduled, unscheduled:
		f.HasDue = &scheduled
	}
	return f, nil
}

func renderPackageView(b *board.Board, groups []board.PackageGroup) error {
	switch outputFormat() {
	case output.FormatJSON:
		if groups == nil {
			groups = []board.PackageGroup{}
		}
		return output.JSON(os.Stdout, groups)
	case output.FormatCompact:
		output.PackageCompact(os.Stdout, groups)
	default:
		output.PackageTable(os.Stdout, groups, listOptions(b, task.ViewTaskList))
	}
	return nil
}

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long:  `Shows every field of a task. ID is the full id or a unique suffix of it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	_, _, b, err := loadBoard()
	if err != nil {
		return err
	}
	t, _, err := b.ResolveTask(args[0])
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t, listOptions(b, task.ViewTaskList))
	default:
		output.TaskDetail(os.Stdout, t, listOptions(b, task.ViewTaskList))
	}
	return nil
}
