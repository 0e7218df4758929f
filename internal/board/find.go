package board

import (
	"strings"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/task"
)

// ShortIDLen is the number of trailing id characters tables display.
const ShortIDLen = 8

// ShortID returns the trailing part of a task id used in compact listings.
func ShortID(id string) string {
	if len(id) <= ShortIDLen {
		return id
	}
	return id[len(id)-ShortIDLen:]
}

// ResolveTask finds a task by its full id or by a unique id suffix, so
// users can type the short id a table shows.
func (b *Board) ResolveTask(ref string) (*task.Task, *Column, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil, clierr.New(clierr.InvalidTaskID, "task id is required")
	}
	if t, c, err := b.FindTask(ref); err == nil {
		return t, c, nil
	}

	var (
		found    *task.Task
		foundCol *Column
		matches  []string
	)
	for _, c := range b.Columns {
		for _, t := range c.Tasks {
			if strings.HasSuffix(t.ID, ref) {
				found, foundCol = t, c
				matches = append(matches, t.ID)
			}
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil, task.NotFound(ref)
	case 1:
		return found, foundCol, nil
	default:
		return nil, nil, clierr.Newf(clierr.InvalidTaskID, "task id %q is ambiguous", ref).
			WithDetails(map[string]any{"id": ref, "matches": matches})
	}
}
