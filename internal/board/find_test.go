package board

import (
	"testing"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/task"
)

func TestShortID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"task-01890a5d-ac96-774b-bcce-b302099a8057", "099a8057"},
		{"t1", "t1"},
		{"12345678", "12345678"},
	}
	for _, tt := range tests {
		if got := ShortID(tt.in); got != tt.want {
			t.Errorf("ShortID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveTask(t *testing.T) {
	b := newTestBoard()
	b.Columns[0].Tasks = append(b.Columns[0].Tasks,
		mkTask("task-aaaa-1234", task.StatusToDo, 0),
		mkTask("task-bbbb-5678", task.StatusToDo, 0),
		mkTask("task-cccc-x678", task.StatusToDo, 0),
	)

	got, col, err := b.ResolveTask("task-aaaa-1234")
	if err != nil || got.ID != "task-aaaa-1234" || col.ID != "todo" {
		t.Errorf("ResolveTask(full) = %v, %v, %v", got, col, err)
	}

	got, _, err = b.ResolveTask("1234")
	if err != nil || got.ID != "task-aaaa-1234" {
		t.Errorf("ResolveTask(suffix) = %v, %v", got, err)
	}

	_, _, err = b.ResolveTask("678")
	if errCode(err) != clierr.InvalidTaskID {
		t.Errorf("ResolveTask(ambiguous) error = %v, want INVALID_TASK_ID", err)
	}

	if _, _, err := b.ResolveTask("zzzz"); errCode(err) != clierr.TaskNotFound {
		t.Errorf("ResolveTask(missing) error = %v, want not found", err)
	}
	if _, _, err := b.ResolveTask("  "); errCode(err) != clierr.InvalidTaskID {
		t.Errorf("ResolveTask(blank) error = %v, want validation", err)
	}
}
