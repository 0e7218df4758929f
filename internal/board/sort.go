package board

import (
	"slices"
	"sort"
	"strings"

	"github.com/antopolskiy/taskboard/internal/task"
)

// SortFields lists the fields Sort accepts.
var SortFields = []string{"created", "title", "status", "priority", "due", "package", "assignee"}

// Sort orders tasks in place by field. Status order follows statusOrder
// (the board's column titles). Unknown fields sort by creation time.
// Tasks without a due date sort last whatever the direction.
func Sort(tasks []*task.Task, field string, reverse bool, statusOrder []string) {
	less := lessFunc(field, statusOrder)
	sort.SliceStable(tasks, func(i, j int) bool {
		if field == "due" {
			switch {
			case tasks[i].Due == nil && tasks[j].Due == nil:
				return false
			case tasks[i].Due == nil:
				return false
			case tasks[j].Due == nil:
				return true
			}
		}
		if reverse {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
}

func lessFunc(field string, statusOrder []string) func(a, b *task.Task) bool {
	switch field {
	case "title":
		return func(a, b *task.Task) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case "status":
		return func(a, b *task.Task) bool {
			return statusIndex(statusOrder, a.Status) < statusIndex(statusOrder, b.Status)
		}
	case "priority":
		return func(a, b *task.Task) bool { return a.Priority.Rank() < b.Priority.Rank() }
	case "due":
		return func(a, b *task.Task) bool { return a.Due.Time.Before(b.Due.Time) }
	case "package":
		return func(a, b *task.Task) bool { return a.PackageName() < b.PackageName() }
	case "assignee":
		return func(a, b *task.Task) bool { return a.Assignee < b.Assignee }
	default:
		return func(a, b *task.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

func statusIndex(order []string, s task.Status) int {
	if i := slices.Index(order, string(s)); i >= 0 {
		return i
	}
	return len(order)
}
