package board

import (
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/antopolskiy/taskboard/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Statuses   []string
	Priorities []string
	Assignee   string
	Package    string
	Search     string // accent- and case-insensitive match across title, description, subtasks and field values
	Overdue    bool   // only overdue tasks; uses Now and CompletedTitle
	HasDue     *bool  // nil=no filter, true=only scheduled, false=only unscheduled

	Now            time.Time
	CompletedTitle string
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []*task.Task, opts FilterOptions) []*task.Task {
	var query string
	if opts.Search != "" {
		query = foldText(opts.Search)
	}
	var result []*task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) && (query == "" || matchesSearch(t, query)) {
			result = append(result, t)
		}
	}
	return result
}

// Filter applies opts to every task on the board, filling the clock and
// completed title from the board when unset.
func (b *Board) Filter(opts FilterOptions) []*task.Task {
	if opts.Now.IsZero() {
		opts.Now = b.Now()
	}
	if opts.CompletedTitle == "" {
		opts.CompletedTitle = b.CompletedTitle()
	}
	return Filter(b.AllTasks(), opts)
}

func matchesFilter(t *task.Task, opts FilterOptions) bool {
	if len(opts.Statuses) > 0 && !slices.Contains(opts.Statuses, string(t.Status)) {
		return false
	}
	if len(opts.Priorities) > 0 && !containsFold(opts.Priorities, string(t.Priority)) {
		return false
	}
	if opts.Assignee != "" && !strings.EqualFold(t.Assignee, opts.Assignee) {
		return false
	}
	if opts.Package != "" && t.PackageName() != opts.Package {
		return false
	}
	if opts.HasDue != nil && (t.Due != nil) != *opts.HasDue {
		return false
	}
	if opts.Overdue {
		completed := opts.CompletedTitle
		if completed == "" {
			completed = DefaultCompletedTitle
		}
		if !isOverdue(t, opts.Now, completed) {
			return false
		}
	}
	return true
}

// matchesSearch reports whether the folded query occurs in any text of t.
func matchesSearch(t *task.Task, query string) bool {
	fields := []string{t.Title, t.Description, t.Assignee, t.Package}
	for _, s := range t.Subtasks {
		fields = append(fields, s.Title)
	}
	for _, f := range t.CustomFields {
		fields = append(fields, f.Value)
	}
	for _, f := range fields {
		if f != "" && strings.Contains(foldText(f), query) {
			return true
		}
	}
	return false
}

// foldText strips diacritics and case-folds s so "Café" matches "cafe".
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func containsFold(slice []string, item string) bool {
	return slices.ContainsFunc(slice, func(s string) bool { return strings.EqualFold(s, item) })
}
