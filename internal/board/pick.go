package board

import (
	"sort"
	"strings"

	"github.com/antopolskiy/taskboard/internal/task"
)

// PickOptions controls how the pick algorithm selects a task.
type PickOptions struct {
	ColumnID string // column to pick from (empty = first column)
	Assignee string // only tasks assigned to this person
	Package  string // only tasks in this package
}

// Pick finds the most urgent task of a column. Returns nil if no task
// matches.
func Pick(b *Board, opts PickOptions) *task.Task {
	candidates := pickCandidates(b, opts)
	if len(candidates) == 0 {
		return nil
	}
	sortPickCandidates(candidates)
	return candidates[0]
}

func pickCandidates(b *Board, opts PickOptions) []*task.Task {
	var col *Column
	if opts.ColumnID == "" {
		if len(b.Columns) == 0 {
			return nil
		}
		col = b.Columns[0]
	} else {
		c, err := b.Column(opts.ColumnID)
		if err != nil {
			return nil
		}
		col = c
	}

	var candidates []*task.Task
	for _, t := range col.Tasks {
		if opts.Assignee != "" && !strings.EqualFold(t.Assignee, opts.Assignee) {
			continue
		}
		if opts.Package != "" && t.PackageName() != opts.Package {
			continue
		}
		candidates = append(candidates, t)
	}
	return candidates
}

// sortPickCandidates orders by priority, then due date (unscheduled
// last), then age.
func sortPickCandidates(candidates []*task.Task) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		if compareDue(a, b) {
			return true
		}
		if compareDue(b, a) {
			return false
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// compareDue reports whether a is due strictly before b. A task without
// a due date is never before one with a due date.
func compareDue(a, b *task.Task) bool {
	switch {
	case a.Due == nil:
		return false
	case b.Due == nil:
		return true
	default:
		return a.Due.Time.Before(b.Due.Time)
	}
}
