// Package task defines the task data model shared by the board and its
// collaborators.
package task

import (
	"strings"
	"time"

	"github.com/antopolskiy/taskboard/internal/date"
)

// Status is the workflow stage of a task. It always equals the title of
// the column that holds the task.
type Status string

// Built-in statuses. Boards may configure further column titles.
const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusBlocked    Status = "Blocked"
)

// Task is a single unit of work on the board.
type Task struct {
	ID           string        `yaml:"id" json:"id"`
	Title        string        `yaml:"title" json:"title"`
	Description  string        `yaml:"description,omitempty" json:"description,omitempty"`
	Status       Status        `yaml:"status" json:"status"`
	Due          *date.Date    `yaml:"due,omitempty" json:"dueDate"`
	CreatedAt    time.Time     `yaml:"created_at" json:"createdAt"`
	Assignee     string        `yaml:"assignee,omitempty" json:"assignee,omitempty"`
	Priority     Priority      `yaml:"priority,omitempty" json:"priority,omitempty"`
	Package      string        `yaml:"package,omitempty" json:"package,omitempty"`
	Subtasks     []Subtask     `yaml:"subtasks,omitempty" json:"subtasks"`
	CustomFields []CustomField `yaml:"custom_fields,omitempty" json:"customFields"`
}

// Subtask is a checklist item of a task. Completing a subtask never
// changes the task's status.
type Subtask struct {
	ID        string `yaml:"id" json:"id"`
	Title     string `yaml:"title" json:"title"`
	Completed bool   `yaml:"completed,omitempty" json:"completed"`
}

// CustomField is a free-form name/value pair attached to a task.
type CustomField struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// Draft holds the caller-supplied fields of a task that does not exist yet.
type Draft struct {
	Title        string
	Description  string
	Due          *date.Date
	Assignee     string
	Priority     Priority
	Package      string
	Subtasks     []Subtask
	CustomFields []CustomField
}

// Validate checks the fields a draft must carry.
func (d Draft) Validate() error {
	if err := ValidateTitle(d.Title); err != nil {
		return err
	}
	for _, f := range d.CustomFields {
		if err := validateField(f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// New builds a task from a draft. The caller supplies the status of the
// target column, the creation time and the id generator.
func New(d Draft, status Status, now time.Time, newID func(prefix string) string) *Task {
	t := &Task{
		ID:          newID(PrefixTask),
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Status:      status,
		Due:         d.Due,
		CreatedAt:   now,
		Assignee:    strings.TrimSpace(d.Assignee),
		Priority:    d.Priority,
		Package:     strings.TrimSpace(d.Package),
	}
	for _, s := range d.Subtasks {
		if strings.TrimSpace(s.Title) == "" {
			continue
		}
		if s.ID == "" {
			s.ID = newID(PrefixSubtask)
		}
		t.Subtasks = append(t.Subtasks, s)
	}
	for _, f := range d.CustomFields {
		// Routed through SetField so promoted names land in typed fields.
		_ = t.setField(f.Name, f.Value, func() string {
			if f.ID != "" {
				return f.ID
			}
			return newID(PrefixField)
		})
	}
	return t
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.Due != nil {
		d := *t.Due
		c.Due = &d
	}
	if t.Subtasks != nil {
		c.Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	if t.CustomFields != nil {
		c.CustomFields = append([]CustomField(nil), t.CustomFields...)
	}
	return &c
}

// HasOpenSubtasks reports whether any subtask is not completed.
func (t *Task) HasOpenSubtasks() bool {
	for _, s := range t.Subtasks {
		if !s.Completed {
			return true
		}
	}
	return false
}

// SubtaskProgress returns the number of completed subtasks and the total.
func (t *Task) SubtaskProgress() (done, total int) {
	for _, s := range t.Subtasks {
		if s.Completed {
			done++
		}
	}
	return done, len(t.Subtasks)
}
