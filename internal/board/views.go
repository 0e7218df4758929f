package board

import (
	"math"
	"sort"
	"time"

	"github.com/antopolskiy/taskboard/internal/task"
)

// ActiveAndCompleted splits the tasks of the given columns. Completed are
// the tasks of the column titled completedTitle in column order; active
// are all others, newest first with ties kept in board order.
func ActiveAndCompleted(columns []*Column, completedTitle string) (active, completed []*task.Task) {
	for _, c := range columns {
		if c.Title == completedTitle {
			completed = append(completed, c.Tasks...)
			continue
		}
		active = append(active, c.Tasks...)
	}
	sortNewestFirst(active)
	return active, completed
}

// ActiveAndCompleted splits the board's tasks around its completed column.
func (b *Board) ActiveAndCompleted() (active, completed []*task.Task) {
	return ActiveAndCompleted(b.Columns, b.CompletedTitle())
}

func sortNewestFirst(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

// PackageGroup is the tasks of one package.
type PackageGroup struct {
	Name  string       `json:"name"`
	Tasks []*task.Task `json:"tasks"`
}

// GroupByPackage groups tasks by package, or Unassigned. Groups appear in
// first-seen order and each group is sorted newest first.
func GroupByPackage(tasks []*task.Task) []PackageGroup {
	index := make(map[string]int)
	var groups []PackageGroup
	for _, t := range tasks {
		name := t.PackageName()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, PackageGroup{Name: name})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	for i := range groups {
		sortNewestFirst(groups[i].Tasks)
	}
	return groups
}

// GroupByPackageMap is GroupByPackage keyed by package name.
func GroupByPackageMap(tasks []*task.Task) map[string][]*task.Task {
	groups := GroupByPackage(tasks)
	m := make(map[string][]*task.Task, len(groups))
	for _, g := range groups {
		m[g.Name] = g.Tasks
	}
	return m
}

// PackageView groups tasks like GroupByPackage and then applies any
// display order stored by ReorderWithinPackage.
func (b *Board) PackageView(tasks []*task.Task) []PackageGroup {
	groups := GroupByPackage(tasks)
	for i := range groups {
		groups[i].Tasks = b.applyPackageOrder(groups[i].Name, groups[i].Tasks)
	}
	return groups
}

// Stat categories, in report order.
const (
	StatUnscheduled = "Unscheduled"
	StatInProgress  = "In Progress"
	StatCompleted   = "Completed"
	StatBlocked     = "Blocked"
	StatOverdue     = "Overdue"
)

// Stat is one category of the status summary.
type Stat struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// ComputeStats counts tasks per category. The categories overlap, so the
// percentages need not sum to 100. An empty input yields an empty slice.
func ComputeStats(tasks []*task.Task, now time.Time) []Stat {
	return computeStats(tasks, now, DefaultCompletedTitle)
}

// Stats computes the status summary of every task on the board.
func (b *Board) Stats() []Stat {
	return computeStats(b.AllTasks(), b.Now(), b.CompletedTitle())
}

func computeStats(tasks []*task.Task, now time.Time, completedTitle string) []Stat {
	total := len(tasks)
	if total == 0 {
		return []Stat{}
	}
	var unscheduled, inProgress, completed, blocked, overdue int
	for _, t := range tasks {
		if t.Due == nil {
			unscheduled++
		}
		switch string(t.Status) {
		case string(task.StatusInProgress):
			inProgress++
		case completedTitle:
			completed++
		case string(task.StatusBlocked):
			blocked++
		}
		if isOverdue(t, now, completedTitle) {
			overdue++
		}
	}
	stat := func(name string, n int) Stat {
		return Stat{Name: name, Count: n, Percent: percent(n, total)}
	}
	return []Stat{
		stat(StatUnscheduled, unscheduled),
		stat(StatInProgress, inProgress),
		stat(StatCompleted, completed),
		stat(StatBlocked, blocked),
		stat(StatOverdue, overdue),
	}
}

func percent(n, total int) int {
	return int(math.Round(float64(n) / float64(total) * 100)) //nolint:mnd // percent
}

// IsOverdue reports whether t is due strictly before today and not in
// the default completed column.
func IsOverdue(t *task.Task, now time.Time) bool {
	return isOverdue(t, now, DefaultCompletedTitle)
}

// IsOverdue reports whether t is overdue on this board.
func (b *Board) IsOverdue(t *task.Task) bool {
	return isOverdue(t, b.Now(), b.CompletedTitle())
}

func isOverdue(t *task.Task, now time.Time, completedTitle string) bool {
	return t.Due != nil && t.Due.Before(now) && string(t.Status) != completedTitle
}

// Overdue returns the overdue tasks in input order.
func Overdue(tasks []*task.Task, now time.Time) []*task.Task {
	var out []*task.Task
	for _, t := range tasks {
		if IsOverdue(t, now) {
			out = append(out, t)
		}
	}
	return out
}

// CountByStatus returns the number of tasks in each status.
func CountByStatus(tasks []*task.Task) map[string]int {
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[string(t.Status)]++
	}
	return counts
}
