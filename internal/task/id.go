package task

import "github.com/google/uuid"

// Id prefixes, one per kind of generated identifier.
const (
	PrefixTask    = "task"
	PrefixSubtask = "subtask"
	PrefixField   = "field"
)

// NewID returns a time-ordered unique identifier such as
// "task-01890a5d-ac96-774b-bcce-b302099a8057".
func NewID(prefix string) string {
	return prefix + "-" + uuid.Must(uuid.NewV7()).String()
}
