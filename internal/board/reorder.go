package board

import (
	"slices"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/task"
)

// Reorder returns a copy of list with the element at from moved to to.
// Both indexes are clamped to the list bounds; the input is not modified.
func Reorder[T any](list []T, from, to int) []T {
	out := slices.Clone(list)
	if len(out) < 2 { //nolint:mnd // nothing to reorder
		return out
	}
	from = clamp(from, 0, len(out)-1)
	to = clamp(to, 0, len(out)-1)
	if from == to {
		return out
	}
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}

func clamp(i, lo, hi int) int {
	return max(lo, min(i, hi))
}

// PackageTasks returns the display order of a package: tasks with a
// stored position first, in that order, then the rest newest first.
func (b *Board) PackageTasks(name string) ([]*task.Task, error) {
	var members []*task.Task
	for _, t := range b.AllTasks() {
		if t.PackageName() == name {
			members = append(members, t)
		}
	}
	if len(members) == 0 && !b.HasPackage(name) {
		return nil, packageNotFound(name)
	}
	sortNewestFirst(members)
	return b.applyPackageOrder(name, members), nil
}

func (b *Board) applyPackageOrder(name string, members []*task.Task) []*task.Task {
	stored := b.PackageOrder[name]
	if len(stored) == 0 {
		return members
	}
	byID := make(map[string]*task.Task, len(members))
	for _, t := range members {
		byID[t.ID] = t
	}
	ordered := make([]*task.Task, 0, len(members))
	placed := make(map[string]bool, len(stored))
	for _, id := range stored {
		if t, ok := byID[id]; ok && !placed[id] {
			ordered = append(ordered, t)
			placed[id] = true
		}
	}
	for _, t := range members {
		if !placed[t.ID] {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

// ReorderWithinPackage moves a task to toIndex within its package's
// display order and returns the new order. Column membership is not
// touched. Moving a task to its current index returns the order as is.
func (b *Board) ReorderWithinPackage(name, taskID string, toIndex int) ([]*task.Task, error) {
	members, err := b.PackageTasks(name)
	if err != nil {
		return nil, err
	}
	from := indexOf(members, taskID)
	if from < 0 {
		return nil, task.NotFound(taskID).WithDetails(map[string]any{"id": taskID, "package": name})
	}

	if clamp(toIndex, 0, len(members)-1) == from {
		return members, nil
	}
	ordered := Reorder(members, from, toIndex)
	ids := make([]string, len(ordered))
	for i, t := range ordered {
		ids[i] = t.ID
	}
	if b.PackageOrder == nil {
		b.PackageOrder = make(map[string][]string)
	}
	b.PackageOrder[name] = ids
	return ordered, nil
}

func (b *Board) forgetInPackageOrder(t *task.Task) {
	name := t.PackageName()
	ids, ok := b.PackageOrder[name]
	if !ok {
		return
	}
	ids = slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return id == t.ID })
	if len(ids) == 0 {
		delete(b.PackageOrder, name)
		return
	}
	b.PackageOrder[name] = ids
}

func packageNotFound(name string) *clierr.Error {
	return clierr.Newf(clierr.PackageNotFound, "package not found: %s", name).
		WithDetails(map[string]any{"package": name})
}
