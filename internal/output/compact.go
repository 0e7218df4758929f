package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task, opts ListOptions) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t, opts))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, opts ListOptions) {
	fmt.Fprintln(w, formatTaskLine(t, opts))
	fmt.Fprintln(w, "  id:"+t.ID+" created:"+t.CreatedAt.Format("2006-01-02"))

	for _, s := range t.Subtasks {
		check := "[ ]"
		if s.Completed {
			check = "[x]"
		}
		fmt.Fprintln(w, "  "+check+" "+s.Title)
	}
	for _, f := range t.CustomFields {
		fmt.Fprintln(w, "  "+f.Name+"="+f.Value)
	}
	if t.Description != "" {
		for _, line := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// PackageCompact renders package groups as "Name (n): id id ..." lines.
func PackageCompact(w io.Writer, groups []board.PackageGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, g := range groups {
		short := make([]string, len(g.Tasks))
		for i, t := range g.Tasks {
			short[i] = board.ShortID(t.ID)
		}
		fmt.Fprintf(w, "%s (%d): %s\n", g.Name, len(g.Tasks), strings.Join(short, " "))
	}
}

// StatsCompact renders the status summary on one line.
func StatsCompact(w io.Writer, stats []board.Stat) {
	if len(stats) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	parts := make([]string, len(stats))
	for i, s := range stats {
		parts[i] = s.Name + "=" + strconv.Itoa(s.Count) + " (" + strconv.Itoa(s.Percent) + "%)"
	}
	fmt.Fprintln(w, strings.Join(parts, " | "))
}

// PackageCatalogCompact renders package summaries one per line.
func PackageCatalogCompact(w io.Writer, pkgs []board.PackageSummary) {
	if len(pkgs) == 0 {
		fmt.Fprintln(os.Stderr, "No packages found.")
		return
	}
	for _, p := range pkgs {
		line := p.Name + " " + strconv.Itoa(p.Completed) + "/" + strconv.Itoa(p.Total)
		if !p.Declared {
			line += " (undeclared)"
		}
		if p.Team != "" {
			line += " team:" + p.Team
		}
		fmt.Fprintln(w, line)
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, o board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks, %d overdue, %d packages)\n", o.BoardName, o.Total, o.Overdue, o.Packages)
	if o.WIPWarning != "" {
		fmt.Fprintln(w, "  "+o.WIPWarning)
	}
	for _, c := range o.Columns {
		line := "  " + c.Title + ": " + strconv.Itoa(c.Count)
		if c.WIPLimit > 0 {
			line += "/" + strconv.Itoa(c.WIPLimit)
		}
		if c.Overdue > 0 {
			line += " (" + strconv.Itoa(c.Overdue) + " overdue)"
		}
		fmt.Fprintln(w, line)
	}
}

// ActivityLogCompact renders activity log entries in compact format.
func ActivityLogCompact(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity log entries found.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Action, board.ShortID(e.TaskID), e.Detail)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task, opts ListOptions) string {
	d := t.DisplayFor(opts.View)
	line := board.ShortID(t.ID) + " [" + string(t.Status) + "/" + d.Priority + "] " + t.Title

	if t.Assignee != "" {
		line += " @" + t.Assignee
	}
	if t.Package != "" {
		line += " pkg:" + t.Package
	}
	if t.Due != nil {
		line += " due:" + t.Due.String()
		if opts.overdue(t) {
			line += " " + overdueLabel
		}
	}
	if done, total := t.SubtaskProgress(); total > 0 {
		line += " " + strconv.Itoa(done) + "/" + strconv.Itoa(total)
	}
	return line
}
