package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/task"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	overdueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	badgeStyles  = map[task.Badge]lipgloss.Style{
		task.BadgeDestructive: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		task.BadgeWarning:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.BadgeSuccess:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		task.BadgeSecondary:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	overdueStyle = lipgloss.NewStyle()
	for k := range badgeStyles {
		badgeStyles[k] = lipgloss.NewStyle()
	}
}

const (
	colPad       = 2
	maxTitle     = 48
	overdueMark  = "!"
	overdueLabel = "(overdue)"
)

// ListOptions controls how task lists are rendered.
type ListOptions struct {
	// View selects the defaults shown for missing fields.
	View task.View
	// Overdue reports whether a task is overdue. Nil means never.
	Overdue func(*task.Task) bool
}

func (o ListOptions) overdue(t *task.Task) bool {
	return o.Overdue != nil && o.Overdue(t)
}

type tableCell struct {
	text  string
	style *lipgloss.Style
}

// TaskTable renders a list of tasks as a formatted table. Overdue rows
// carry a leading marker and an "(overdue)" suffix on the due date.
func TaskTable(w io.Writer, tasks []*task.Task, opts ListOptions) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	header := []string{"ID", "STATUS", "PRIORITY", "TITLE", "ASSIGNEE", "PACKAGE", "DUE"}
	rows := make([][]tableCell, len(tasks))
	marks := make([]bool, len(tasks))
	for i, t := range tasks {
		d := t.DisplayFor(opts.View)
		marks[i] = opts.overdue(t)
		prio := badgeStyles[t.Priority.Badge()]
		rows[i] = []tableCell{
			{text: board.ShortID(t.ID)},
			{text: string(t.Status)},
			{text: d.Priority, style: &prio},
			{text: truncate(t.Title, maxTitle)},
			dimIfDefault(d.Assignee, t.Assignee == ""),
			dimIfDefault(d.Package, t.Package == ""),
			dueCell(t, marks[i]),
		}
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c.text))
		}
	}

	var hb strings.Builder
	hb.WriteString(padRight("", len(overdueMark)+1))
	for i, h := range header {
		hb.WriteString(padRight(headerStyle.Render(h), widths[i]+colPad))
	}
	fmt.Fprintln(w, strings.TrimRight(hb.String(), " "))

	for r, row := range rows {
		var b strings.Builder
		mark := ""
		if marks[r] {
			mark = overdueStyle.Render(overdueMark)
		}
		b.WriteString(padRight(mark, len(overdueMark)+1))
		for i, c := range row {
			b.WriteString(padRight(c.render(), widths[i]+colPad))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func (c tableCell) render() string {
	if c.style == nil {
		return c.text
	}
	return c.style.Render(c.text)
}

func dimIfDefault(text string, isDefault bool) tableCell {
	if isDefault {
		return tableCell{text: text, style: &dimStyle}
	}
	return tableCell{text: text}
}

func dueCell(t *task.Task, overdue bool) tableCell {
	if t.Due == nil {
		return tableCell{text: "--", style: &dimStyle}
	}
	if overdue {
		return tableCell{text: t.Due.String() + " " + overdueLabel, style: &overdueStyle}
	}
	return tableCell{text: t.Due.String()}
}

// TaskDetail renders a single task with full detail.
func TaskDetail(w io.Writer, t *task.Task, opts ListOptions) {
	d := t.DisplayFor(opts.View)
	titleLine := fmt.Sprintf("Task %s: %s", board.ShortID(t.ID), t.Title)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "ID", t.ID)
	printField(w, "Status", string(t.Status))
	printField(w, "Priority", badgeStyles[t.Priority.Badge()].Render(d.Priority))
	printField(w, "Assignee", d.Assignee)
	printField(w, "Package", d.Package)
	printField(w, "Due", dueCell(t, opts.overdue(t)).render())
	printField(w, "Created", t.CreatedAt.Format("2006-01-02 15:04"))

	if len(t.Subtasks) > 0 {
		done, total := t.SubtaskProgress()
		printField(w, "Subtasks", strconv.Itoa(done)+"/"+strconv.Itoa(total))
		for _, s := range t.Subtasks {
			check := "[ ]"
			if s.Completed {
				check = "[x]"
			}
			fmt.Fprintf(w, "    %s %s %s\n", check, s.Title, dimStyle.Render(s.ID))
		}
	}
	if len(t.CustomFields) > 0 {
		printField(w, "Fields", "")
		for _, f := range t.CustomFields {
			fmt.Fprintf(w, "    %s: %s\n", f.Name, f.Value)
		}
	}

	if t.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Description)
	}
}

// PackageTable renders package groups, each followed by its tasks.
func PackageTable(w io.Writer, groups []board.PackageGroup, opts ListOptions) {
	if len(groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", g.Name, len(g.Tasks))))
		for _, t := range g.Tasks {
			fmt.Fprintln(w, "  "+formatTaskLine(t, opts))
		}
	}
}

// StatsTable renders the status summary.
func StatsTable(w io.Writer, stats []board.Stat) {
	if len(stats) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-14s %6s %8s", "CATEGORY", "COUNT", "PERCENT")))
	for _, s := range stats {
		fmt.Fprintf(w, "%-14s %6d %7d%%\n", s.Name, s.Count, s.Percent)
	}
}

// PackageCatalogTable renders package summaries.
func PackageCatalogTable(w io.Writer, pkgs []board.PackageSummary) {
	if len(pkgs) == 0 {
		fmt.Fprintln(os.Stderr, "No packages found.")
		return
	}
	nameW := len("PACKAGE")
	for _, p := range pkgs {
		nameW = max(nameW, lipgloss.Width(p.Name))
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s %6s  %-10s %s",
		nameW, "PACKAGE", "TASKS", "DONE", "TEAM", "DESCRIPTION")))
	for _, p := range pkgs {
		name := p.Name
		if !p.Declared {
			name = dimStyle.Render(name)
		}
		fmt.Fprintf(w, "%s %6d %6d  %s %s\n",
			padRight(name, nameW), p.Total, p.Completed,
			padRight(stringOrDash(p.Team), len("TEAM      ")), p.Description)
	}
}

// OverviewTable renders a board summary as a formatted dashboard.
func OverviewTable(w io.Writer, o board.Overview) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(o.BoardName))
	fmt.Fprintf(w, "Total: %d tasks | %d overdue | %d packages\n", o.Total, o.Overdue, o.Packages)
	if o.WIPWarning != "" {
		fmt.Fprintln(w, overdueStyle.Render(o.WIPWarning))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s %6s %8s %8s", "COLUMN", "COUNT", "WIP", "OVERDUE")))
	for _, c := range o.Columns {
		wip := dimStyle.Render("--")
		if c.WIPLimit > 0 {
			wip = strconv.Itoa(c.Count) + "/" + strconv.Itoa(c.WIPLimit)
		}
		fmt.Fprintf(w, "%-16s %6d %s %8d\n", c.Title, c.Count, padLeft(wip, 8), c.Overdue) //nolint:mnd // column width
	}

	if len(o.Stats) > 0 {
		fmt.Fprintln(w)
		StatsTable(w, o.Stats)
	}
	for _, s := range o.Sections {
		if len(s.Items) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(strings.ToUpper(s.Name)))
		for _, it := range s.Items {
			line := "  " + board.ShortID(it.ID) + " " + it.Title
			if it.Note != "" {
				line += " " + dimStyle.Render("("+it.Note+")")
			}
			fmt.Fprintln(w, line)
		}
	}
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width. ANSI sequences
// do not count toward the width.
func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func padLeft(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

// ActivityLogTable renders activity log entries, oldest first.
func ActivityLogTable(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity log entries found.")
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-19s  %-7s %-8s  %s", "TIME", "ACTION", "TASK", "DETAIL")))
	for _, e := range entries {
		fmt.Fprintf(w, "%-19s  %-7s %-8s  %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Action, board.ShortID(e.TaskID), e.Detail)
	}
}
