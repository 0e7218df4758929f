package board

import "github.com/antopolskiy/taskboard/internal/task"

// Listener receives the outcome of every successful mutation. The board
// only forwards state; rendering and persistence belong to listeners.
type Listener interface {
	TaskAdded(columnID string, t *task.Task)
	TaskUpdated(t *task.Task)
	TaskMoved(t *task.Task, fromColumnID, toColumnID string)
	TaskDeleted(t *task.Task)
}

// ListenerFuncs adapts optional functions to a Listener. Nil hooks are
// skipped.
type ListenerFuncs struct {
	OnAdd    func(columnID string, t *task.Task)
	OnUpdate func(t *task.Task)
	OnMove   func(t *task.Task, fromColumnID, toColumnID string)
	OnDelete func(t *task.Task)
}

// TaskAdded implements Listener.
func (f ListenerFuncs) TaskAdded(columnID string, t *task.Task) {
	if f.OnAdd != nil {
		f.OnAdd(columnID, t)
	}
}

// TaskUpdated implements Listener.
func (f ListenerFuncs) TaskUpdated(t *task.Task) {
	if f.OnUpdate != nil {
		f.OnUpdate(t)
	}
}

// TaskMoved implements Listener.
func (f ListenerFuncs) TaskMoved(t *task.Task, from, to string) {
	if f.OnMove != nil {
		f.OnMove(t, from, to)
	}
}

// TaskDeleted implements Listener.
func (f ListenerFuncs) TaskDeleted(t *task.Task) {
	if f.OnDelete != nil {
		f.OnDelete(t)
	}
}

// Committer is implemented by listeners that hold what they receive until
// the board is saved.
type Committer interface {
	Commit()
	Discard()
}

// Commit tells committing listeners that the board was saved.
func (b *Board) Commit() {
	for _, l := range b.listeners {
		if c, ok := l.(Committer); ok {
			c.Commit()
		}
	}
}

// Discard tells committing listeners that the board was not saved.
func (b *Board) Discard() {
	for _, l := range b.listeners {
		if c, ok := l.(Committer); ok {
			c.Discard()
		}
	}
}

func (b *Board) notifyAdded(columnID string, t *task.Task) {
	for _, l := range b.listeners {
		l.TaskAdded(columnID, t)
	}
}

func (b *Board) notifyUpdated(t *task.Task) {
	for _, l := range b.listeners {
		l.TaskUpdated(t)
	}
}

func (b *Board) notifyMoved(t *task.Task, from, to string) {
	for _, l := range b.listeners {
		l.TaskMoved(t, from, to)
	}
}

func (b *Board) notifyDeleted(t *task.Task) {
	for _, l := range b.listeners {
		l.TaskDeleted(t)
	}
}
