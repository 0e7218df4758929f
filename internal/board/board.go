// Package board implements the board model: columns of tasks, the package
// catalog, mutations and the projections the CLI, TUI and API render.
package board

import (
	"time"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/task"
)

// DefaultCompletedTitle is the title of the terminal column unless the
// board is configured otherwise.
const DefaultCompletedTitle = string(task.StatusCompleted)

// Column is a workflow stage. Its title doubles as the status of every
// task it holds.
type Column struct {
	ID    string       `yaml:"id" json:"id"`
	Title string       `yaml:"title" json:"title"`
	Tasks []*task.Task `yaml:"tasks" json:"tasks"`
}

// Board owns the columns and everything derived from them.
type Board struct {
	Columns  []*Column `yaml:"columns" json:"columns"`
	Packages []Package `yaml:"packages,omitempty" json:"packages"`
	// PackageOrder holds the display order of each package as task ids.
	PackageOrder map[string][]string `yaml:"package_order,omitempty" json:"packageOrder,omitempty"`

	completedTitle string
	now            func() time.Time
	newID          func(prefix string) string
	listeners      []Listener
}

// Option configures a Board.
type Option func(*Board)

// WithClock sets the time source used for CreatedAt and overdue checks.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// WithIDGenerator sets the id generator for tasks, subtasks and fields.
func WithIDGenerator(newID func(prefix string) string) Option {
	return func(b *Board) { b.newID = newID }
}

// WithCompletedTitle names the terminal column.
func WithCompletedTitle(title string) Option {
	return func(b *Board) { b.completedTitle = title }
}

// WithListener registers a mutation listener.
func WithListener(l Listener) Option {
	return func(b *Board) { b.listeners = append(b.listeners, l) }
}

// New returns a board over the given columns.
func New(columns []*Column, opts ...Option) *Board {
	b := &Board{Columns: columns}
	b.Configure(opts...)
	return b
}

// Configure applies options to a board that was decoded from a file.
func (b *Board) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(b)
	}
}

// CompletedTitle returns the title of the terminal column.
func (b *Board) CompletedTitle() string {
	if b.completedTitle == "" {
		return DefaultCompletedTitle
	}
	return b.completedTitle
}

// Now returns the board clock's current time.
func (b *Board) Now() time.Time {
	if b.now == nil {
		return time.Now()
	}
	return b.now()
}

func (b *Board) id(prefix string) string {
	if b.newID == nil {
		return task.NewID(prefix)
	}
	return b.newID(prefix)
}

// Column returns the column with the given id.
func (b *Board) Column(id string) (*Column, error) {
	for _, c := range b.Columns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, columnNotFound(id)
}

// ColumnByTitle returns the column with the given title.
func (b *Board) ColumnByTitle(title string) (*Column, error) {
	for _, c := range b.Columns {
		if c.Title == title {
			return c, nil
		}
	}
	return nil, clierr.Newf(clierr.ColumnNotFound, "column not found: %s", title).
		WithDetails(map[string]any{"title": title})
}

// ColumnTitles returns the column titles in board order.
func (b *Board) ColumnTitles() []string {
	titles := make([]string, len(b.Columns))
	for i, c := range b.Columns {
		titles[i] = c.Title
	}
	return titles
}

// AllTasks returns every task in column order.
func (b *Board) AllTasks() []*task.Task {
	var all []*task.Task
	for _, c := range b.Columns {
		all = append(all, c.Tasks...)
	}
	return all
}

// TaskCount returns the number of tasks across all columns.
func (b *Board) TaskCount() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Tasks)
	}
	return n
}

// FindTask returns a task and the column that holds it.
func (b *Board) FindTask(id string) (*task.Task, *Column, error) {
	for _, c := range b.Columns {
		if i := indexOf(c.Tasks, id); i >= 0 {
			return c.Tasks[i], c, nil
		}
	}
	return nil, nil, task.NotFound(id)
}

func indexOf(tasks []*task.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func columnNotFound(id string) *clierr.Error {
	return clierr.Newf(clierr.ColumnNotFound, "column not found: %s", id).
		WithDetails(map[string]any{"id": id})
}
