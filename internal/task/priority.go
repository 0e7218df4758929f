package task

import "strings"

// Priority is the urgency of a task. The zero value means "not set".
type Priority string

// Priority levels, lowest first.
const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// DefaultPriority is assigned to new tasks that do not name one.
const DefaultPriority = PriorityMedium

// Priorities lists every level, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ParsePriority matches s case-insensitively against the known levels.
// An empty string yields the unset priority.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, p := range Priorities {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", ValidatePriority(s)
}

// Rank orders priorities for sorting; unset ranks below Low.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2 //nolint:mnd // rank order
	case PriorityHigh:
		return 3 //nolint:mnd // rank order
	case PriorityCritical:
		return 4 //nolint:mnd // rank order
	default:
		return 0
	}
}

// Badge is the visual weight a presentation layer gives a priority.
type Badge int

// Badge variants.
const (
	BadgeSecondary Badge = iota
	BadgeDestructive
	BadgeWarning
	BadgeSuccess
)

func (b Badge) String() string {
	switch b {
	case BadgeDestructive:
		return "destructive"
	case BadgeWarning:
		return "warning"
	case BadgeSuccess:
		return "success"
	default:
		return "secondary"
	}
}

// Badge maps the priority to its badge variant.
func (p Priority) Badge() Badge {
	switch p {
	case PriorityCritical:
		return BadgeDestructive
	case PriorityHigh, PriorityMedium:
		return BadgeWarning
	case PriorityLow:
		return BadgeSuccess
	default:
		return BadgeSecondary
	}
}
