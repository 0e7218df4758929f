package task

import (
	"errors"
	"testing"

	"github.com/antopolskiy/taskboard/internal/clierr"
)

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("Write spec"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	for _, title := range []string{"", "   ", "\t\n"} {
		err := ValidateTitle(title)
		if !errors.Is(err, clierr.ErrValidation) {
			t.Errorf("ValidateTitle(%q) = %v, want validation error", title, err)
		}
	}
}

func TestValidateStatus_Invalid(t *testing.T) {
	err := ValidateStatus("Archived", []string{"To Do", "Completed"})
	if err == nil {
		t.Fatal("expected error for invalid status")
	}
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected clierr.Error, got %T", err)
	}
	if cliErr.Code != clierr.InvalidStatus {
		t.Errorf("code = %q, want %q", cliErr.Code, clierr.InvalidStatus)
	}
	if cliErr.Details["status"] != "Archived" {
		t.Errorf("details[status] = %v, want %q", cliErr.Details["status"], "Archived")
	}
	if err := ValidateStatus("To Do", []string{"To Do", "Completed"}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateDate(t *testing.T) {
	err := ValidateDate("due", "not-a-date", errors.New("parse error"))
	if err.Code != clierr.InvalidDate {
		t.Errorf("code = %q, want %q", err.Code, clierr.InvalidDate)
	}
	if err.Details["input"] != "not-a-date" {
		t.Errorf("details[input] = %v", err.Details["input"])
	}
}

func TestNotFoundErrors(t *testing.T) {
	if err := NotFound("task-9"); !errors.Is(err, clierr.ErrNotFound) {
		t.Errorf("NotFound kind = %v", err.Kind())
	}
	if err := SubtaskNotFound("task-9", "subtask-1"); err.Code != clierr.SubtaskNotFound {
		t.Errorf("code = %q", err.Code)
	}
}

func TestValidateOpenSubtasks(t *testing.T) {
	err := ValidateOpenSubtasks("task-1", 2)
	if !errors.Is(err, clierr.ErrConstraint) {
		t.Errorf("kind = %v, want constraint", err.Kind())
	}
	if err.Details["open"] != 2 {
		t.Errorf("details[open] = %v, want 2", err.Details["open"])
	}
}

func TestValidateWIPLimit(t *testing.T) {
	err := ValidateWIPLimit("In Progress", 3, 3)
	if err.Code != clierr.WIPLimitExceeded {
		t.Errorf("Code = %q, want %q", err.Code, clierr.WIPLimitExceeded)
	}
	if !errors.Is(err, clierr.ErrConstraint) {
		t.Error("expected constraint error")
	}
	if err.Details["limit"] != 3 {
		t.Errorf("Details[limit] = %v, want 3", err.Details["limit"])
	}
}
