package task

import (
	"strings"

	"github.com/antopolskiy/taskboard/internal/clierr"
)

// ValidateTitle rejects blank task titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return clierr.New(clierr.InvalidTitle, "task title is required")
	}
	return nil
}

// ValidateStatus checks that a status names one of the board's columns.
func ValidateStatus(status string, allowed []string) error {
	for _, s := range allowed {
		if s == status {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", status).
		WithDetails(map[string]any{
			"status":  status,
			"allowed": allowed,
		})
}

// ValidatePriority returns a CLIError for an unknown priority.
func ValidatePriority(priority string) *clierr.Error {
	allowed := make([]string, len(Priorities))
	for i, p := range Priorities {
		allowed[i] = string(p)
	}
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", priority).
		WithDetails(map[string]any{
			"priority": priority,
			"allowed":  allowed,
		})
}

// ValidateFieldName returns a CLIError for a blank custom field name.
func ValidateFieldName(name string) *clierr.Error {
	return clierr.Newf(clierr.InvalidField, "invalid field name %q", name).
		WithDetails(map[string]any{"name": name})
}

// ValidateDate returns a CLIError for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// FormatDueDate returns a CLIError for invalid due date input.
func FormatDueDate(input string, err error) *clierr.Error {
	return ValidateDate("due", input, err)
}

// NotFound returns a CLIError for a missing task.
func NotFound(id string) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
		WithDetails(map[string]any{"id": id})
}

// SubtaskNotFound returns a CLIError for a missing subtask.
func SubtaskNotFound(taskID, subtaskID string) *clierr.Error {
	return clierr.Newf(clierr.SubtaskNotFound, "subtask %s not found on task %s", subtaskID, taskID).
		WithDetails(map[string]any{"task": taskID, "subtask": subtaskID})
}

// ValidateOpenSubtasks returns a CLIError when a task with unfinished
// subtasks is deleted without force.
func ValidateOpenSubtasks(id string, open int) *clierr.Error {
	return clierr.Newf(clierr.TaskHasOpenSubtasks,
		"task %s has %d open subtask(s); complete them or use --force", id, open).
		WithDetails(map[string]any{"id": id, "open": open})
}

// ValidateWIPLimit returns a CLIError when a column is at its WIP limit.
func ValidateWIPLimit(status string, limit, current int) *clierr.Error {
	return clierr.Newf(clierr.WIPLimitExceeded,
		"WIP limit reached for %q (%d/%d); use --force to override", status, current, limit).
		WithDetails(map[string]any{
			"status":  status,
			"limit":   limit,
			"current": current,
		})
}
