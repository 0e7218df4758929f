package board

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/date"
	"github.com/antopolskiy/taskboard/internal/task"
)

// Sentinel markers for in-place file updates.
const (
	summaryBeginMarker = "<!-- BEGIN taskboard summary -->"
	summaryEndMarker   = "<!-- END taskboard summary -->"
)

// SummaryOptions controls which sections to include.
type SummaryOptions struct {
	Sections []string // empty = all sections
	Days     int      // horizon for the due-soon section (default 7)
}

// Overview holds the board summary.
type Overview struct {
	BoardName  string           `json:"board_name"`
	Total      int              `json:"total"`
	Overdue    int              `json:"overdue"`
	Packages   int              `json:"packages"`
	WIPWarning string           `json:"wip_warning,omitempty"`
	Columns    []ColumnSummary  `json:"columns"`
	Stats      []Stat           `json:"stats"`
	Sections   []SummarySection `json:"sections"`
}

// ColumnSummary holds the counts of one column.
type ColumnSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Count    int    `json:"count"`
	Overdue  int    `json:"overdue"`
	WIPLimit int    `json:"wip_limit,omitempty"`
}

// SummarySection is a named group of summary items.
type SummarySection struct {
	Name  string        `json:"name"`
	Items []SummaryItem `json:"items"`
}

// SummaryItem is a single task in a summary section.
type SummaryItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Assignee string `json:"assignee,omitempty"`
	Note     string `json:"note,omitempty"`
}

// Section names, in default order.
const (
	SectionInProgress = "in-progress"
	SectionBlocked    = "blocked"
	SectionOverdue    = "overdue"
	SectionDueSoon    = "due-soon"
	SectionCompleted  = "completed"
)

// SectionNames returns the ordered list of section names.
func SectionNames() []string {
	return []string{SectionInProgress, SectionBlocked, SectionOverdue, SectionDueSoon, SectionCompleted}
}

const defaultDays = 7

// Summarize builds the board overview at now.
func Summarize(cfg *config.Config, b *Board, now time.Time, opts SummaryOptions) Overview {
	days := opts.Days
	if days <= 0 {
		days = defaultDays
	}
	completed := b.CompletedTitle()
	all := b.AllTasks()

	o := Overview{
		BoardName: cfg.Board.Name,
		Total:     len(all),
		Packages:  len(b.PackageSummaries()),
		Stats:     computeStats(all, now, completed),
	}

	var wipWarnings []string
	for _, c := range b.Columns {
		cs := ColumnSummary{ID: c.ID, Title: c.Title, Count: len(c.Tasks), WIPLimit: cfg.WIPLimit(c.Title)}
		for _, t := range c.Tasks {
			if isOverdue(t, now, completed) {
				cs.Overdue++
			}
		}
		o.Overdue += cs.Overdue
		if cs.WIPLimit > 0 && cs.Count >= cs.WIPLimit {
			wipWarnings = append(wipWarnings,
				c.Title+" ("+strconv.Itoa(cs.Count)+"/"+strconv.Itoa(cs.WIPLimit)+")")
		}
		o.Columns = append(o.Columns, cs)
	}
	if len(wipWarnings) > 0 {
		o.WIPWarning = "WIP limit reached: " + strings.Join(wipWarnings, ", ")
	}

	wanted := SectionNames()
	if len(opts.Sections) > 0 {
		wanted = opts.Sections
	}
	for _, name := range wanted {
		items := buildSection(all, name, now, days, completed)
		if len(items) > 0 {
			o.Sections = append(o.Sections, SummarySection{Name: name, Items: items})
		}
	}
	return o
}

func buildSection(tasks []*task.Task, name string, now time.Time, days int, completed string) []SummaryItem {
	var items []SummaryItem
	switch name {
	case SectionInProgress:
		items = collect(tasks, func(t *task.Task) (bool, string) {
			if t.Status != task.StatusInProgress {
				return false, ""
			}
			if done, total := t.SubtaskProgress(); total > 0 {
				return true, fmt.Sprintf("%d/%d subtasks", done, total)
			}
			return true, ""
		})
		sortByPriority(items)
	case SectionBlocked:
		items = collect(tasks, func(t *task.Task) (bool, string) {
			return t.Status == task.StatusBlocked, ""
		})
	case SectionOverdue:
		items = collect(tasks, func(t *task.Task) (bool, string) {
			if !isOverdue(t, now, completed) {
				return false, ""
			}
			return true, "due " + t.Due.String()
		})
	case SectionDueSoon:
		horizon := date.Today(now).AddDate(0, 0, days)
		items = collect(tasks, func(t *task.Task) (bool, string) {
			if t.Due == nil || string(t.Status) == completed || t.Due.Before(now) || t.Due.After(horizon) {
				return false, ""
			}
			return true, "due " + t.Due.String()
		})
	case SectionCompleted:
		items = collect(tasks, func(t *task.Task) (bool, string) {
			return string(t.Status) == completed, ""
		})
	}
	return items
}

func collect(tasks []*task.Task, keep func(*task.Task) (bool, string)) []SummaryItem {
	var items []SummaryItem
	for _, t := range tasks {
		if ok, note := keep(t); ok {
			items = append(items, taskToItem(t, note))
		}
	}
	return items
}

func taskToItem(t *task.Task, note string) SummaryItem {
	return SummaryItem{
		ID:       t.ID,
		Title:    t.Title,
		Status:   string(t.Status),
		Priority: t.DisplayFor(task.ViewTaskList).Priority,
		Assignee: t.Assignee,
		Note:     note,
	}
}

func sortByPriority(items []SummaryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return task.Priority(items[i].Priority).Rank() > task.Priority(items[j].Priority).Rank()
	})
}

// RenderSummaryMarkdown renders the overview as markdown wrapped in
// sentinel markers.
func RenderSummaryMarkdown(o Overview) string {
	var b strings.Builder

	b.WriteString(summaryBeginMarker)
	b.WriteString("\n## Board: ")
	b.WriteString(o.BoardName)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "**%d tasks** | %d overdue | %d packages\n", o.Total, o.Overdue, o.Packages)
	if o.WIPWarning != "" {
		b.WriteString("\n> ")
		b.WriteString(o.WIPWarning)
		b.WriteString("\n")
	}

	for _, sec := range o.Sections {
		b.WriteString("\n### ")
		b.WriteString(sectionTitle(sec.Name))
		b.WriteString("\n\n")
		for _, item := range sec.Items {
			fmt.Fprintf(&b, "- **%s** (%s", item.Title, item.Priority)
			if item.Assignee != "" {
				b.WriteString(", @")
				b.WriteString(item.Assignee)
			}
			b.WriteString(")")
			if item.Note != "" {
				b.WriteString(": ")
				b.WriteString(item.Note)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(summaryEndMarker)
	b.WriteString("\n")
	return b.String()
}

func sectionTitle(name string) string {
	switch name {
	case SectionInProgress:
		return "In Progress"
	case SectionBlocked:
		return "Blocked"
	case SectionOverdue:
		return "Overdue"
	case SectionDueSoon:
		return "Due Soon"
	case SectionCompleted:
		return "Completed"
	default:
		return name
	}
}

// WriteSummaryToFile writes content to path, replacing an existing
// marker-delimited block or appending if none is found.
func WriteSummaryToFile(path, content string) error {
	const fileMode = 0o600

	existing, err := os.ReadFile(path) //nolint:gosec // user-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(path, []byte(content), fileMode)
		}
		return fmt.Errorf("reading file: %w", err)
	}

	text := string(existing)
	beginIdx := strings.Index(text, summaryBeginMarker)
	endIdx := strings.Index(text, summaryEndMarker)

	if beginIdx >= 0 && endIdx >= 0 {
		endOfBlock := endIdx + len(summaryEndMarker)
		if endOfBlock < len(text) && text[endOfBlock] == '\n' {
			endOfBlock++
		}
		updated := text[:beginIdx] + content + text[endOfBlock:]
		return os.WriteFile(path, []byte(updated), fileMode)
	}

	separator := "\n"
	if len(text) > 0 && !strings.HasSuffix(text, "\n") {
		separator = "\n\n"
	}
	return os.WriteFile(path, []byte(text+separator+content), fileMode)
}
