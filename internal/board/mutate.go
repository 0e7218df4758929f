package board

import (
	"math"
	"strings"

	"github.com/antopolskiy/taskboard/internal/date"
	"github.com/antopolskiy/taskboard/internal/task"
)

// End is a destination index that always clamps to the end of a column.
const End = math.MaxInt

// AddTask creates a task from the draft and appends it to the column.
// The task takes the column title as its status.
func (b *Board) AddTask(columnID string, d task.Draft) (*task.Task, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	col, err := b.Column(columnID)
	if err != nil {
		return nil, err
	}
	if d.Priority == "" {
		d.Priority = task.DefaultPriority
	}

	t := task.New(d, task.Status(col.Title), b.Now(), b.id)
	tasks := make([]*task.Task, len(col.Tasks), len(col.Tasks)+1)
	copy(tasks, col.Tasks)
	col.Tasks = append(tasks, t)

	b.notifyAdded(col.ID, t)
	return t, nil
}

// MoveTask moves a task from one column to another and inserts it at
// toIndex, clamped to the destination bounds. Moving within one column
// reorders it. The task keeps its identity and takes the destination
// title as its status.
func (b *Board) MoveTask(taskID, fromColumnID, toColumnID string, toIndex int) error {
	from, err := b.Column(fromColumnID)
	if err != nil {
		return err
	}
	to, err := b.Column(toColumnID)
	if err != nil {
		return err
	}
	i := indexOf(from.Tasks, taskID)
	if i < 0 {
		return task.NotFound(taskID)
	}
	t := from.Tasks[i]

	if from == to {
		from.Tasks = Reorder(from.Tasks, i, toIndex)
		b.notifyMoved(t, from.ID, to.ID)
		return nil
	}

	src := make([]*task.Task, 0, len(from.Tasks)-1)
	src = append(src, from.Tasks[:i]...)
	src = append(src, from.Tasks[i+1:]...)
	dst := insertAt(to.Tasks, toIndex, t)

	t.Status = task.Status(to.Title)
	from.Tasks, to.Tasks = src, dst

	b.notifyMoved(t, from.ID, to.ID)
	return nil
}

// MoveTaskTo moves a task to the given column wherever it currently is.
func (b *Board) MoveTaskTo(taskID, toColumnID string, toIndex int) error {
	_, from, err := b.FindTask(taskID)
	if err != nil {
		return err
	}
	return b.MoveTask(taskID, from.ID, toColumnID, toIndex)
}

func insertAt(tasks []*task.Task, i int, t *task.Task) []*task.Task {
	i = clamp(i, 0, len(tasks))
	out := make([]*task.Task, 0, len(tasks)+1)
	out = append(out, tasks[:i]...)
	out = append(out, t)
	return append(out, tasks[i:]...)
}

// Patch lists task field changes. Nil pointers leave a field untouched;
// an empty string clears an optional field.
type Patch struct {
	Title       *string
	Description *string
	Due         *date.Date
	ClearDue    bool
	Assignee    *string
	Priority    *string
	Package     *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Due == nil && !p.ClearDue &&
		p.Assignee == nil && p.Priority == nil && p.Package == nil
}

// UpdateTask applies a patch. The task is left untouched if any field
// fails validation.
func (b *Board) UpdateTask(id string, p Patch) (*task.Task, error) {
	t, _, err := b.FindTask(id)
	if err != nil {
		return nil, err
	}

	next := t.Clone()
	if p.Title != nil {
		if err := task.ValidateTitle(*p.Title); err != nil {
			return nil, err
		}
		next.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	switch {
	case p.ClearDue:
		next.Due = nil
	case p.Due != nil:
		d := *p.Due
		next.Due = &d
	}
	if p.Assignee != nil {
		next.Assignee = strings.TrimSpace(*p.Assignee)
	}
	if p.Priority != nil {
		prio, err := task.ParsePriority(*p.Priority)
		if err != nil {
			return nil, err
		}
		next.Priority = prio
	}
	if p.Package != nil {
		next.Package = strings.TrimSpace(*p.Package)
	}

	*t = *next
	b.notifyUpdated(t)
	return t, nil
}

// SetCustomField sets a named field on a task. The promoted names write
// the typed fields; an empty value clears the field.
func (b *Board) SetCustomField(taskID, name, value string) (*task.Task, error) {
	t, _, err := b.FindTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := t.SetField(name, value, b.id); err != nil {
		return nil, err
	}
	b.notifyUpdated(t)
	return t, nil
}

// RemoveCustomField clears a named field. Removing a field that is not
// set is not an error.
func (b *Board) RemoveCustomField(taskID, name string) (*task.Task, error) {
	return b.SetCustomField(taskID, name, "")
}

// AddSubtask appends a checklist item to a task.
func (b *Board) AddSubtask(taskID, title string) (*task.Subtask, error) {
	t, _, err := b.FindTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := task.ValidateTitle(title); err != nil {
		return nil, err
	}
	t.Subtasks = append(t.Subtasks, task.Subtask{
		ID:    b.id(task.PrefixSubtask),
		Title: strings.TrimSpace(title),
	})
	b.notifyUpdated(t)
	return &t.Subtasks[len(t.Subtasks)-1], nil
}

// ToggleSubtask flips a subtask's completion and returns the new state.
// The task's status is never changed.
func (b *Board) ToggleSubtask(taskID, subtaskID string) (bool, error) {
	t, _, err := b.FindTask(taskID)
	if err != nil {
		return false, err
	}
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			t.Subtasks[i].Completed = !t.Subtasks[i].Completed
			b.notifyUpdated(t)
			return t.Subtasks[i].Completed, nil
		}
	}
	return false, task.SubtaskNotFound(taskID, subtaskID)
}

// DeleteTask removes a task. A task with open subtasks is only removed
// when force is set.
func (b *Board) DeleteTask(taskID string, force bool) (*task.Task, error) {
	t, col, err := b.FindTask(taskID)
	if err != nil {
		return nil, err
	}
	if !force && t.HasOpenSubtasks() {
		done, total := t.SubtaskProgress()
		return nil, task.ValidateOpenSubtasks(t.ID, total-done)
	}

	i := indexOf(col.Tasks, taskID)
	tasks := make([]*task.Task, 0, len(col.Tasks)-1)
	tasks = append(tasks, col.Tasks[:i]...)
	col.Tasks = append(tasks, col.Tasks[i+1:]...)
	b.forgetInPackageOrder(t)

	b.notifyDeleted(t)
	return t, nil
}
