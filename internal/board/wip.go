package board

import (
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/task"
)

// CheckWIPLimit verifies that moving a task into targetStatus would not
// exceed its WIP limit. currentStatus is the task's status (empty for new
// tasks).
func CheckWIPLimit(cfg *config.Config, statusCounts map[string]int, targetStatus, currentStatus string) error {
	limit := cfg.WIPLimit(targetStatus)
	if limit == 0 || currentStatus == targetStatus {
		return nil
	}
	if count := statusCounts[targetStatus]; count >= limit {
		return task.ValidateWIPLimit(targetStatus, limit, count)
	}
	return nil
}
