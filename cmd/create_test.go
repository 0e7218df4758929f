package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/task"
)

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("column", "c", "", "")
	cmd.Flags().StringP("description", "d", "", "")
	cmd.Flags().String("due", "", "")
	cmd.Flags().StringP("assignee", "a", "", "")
	cmd.Flags().StringP("priority", "p", "", "")
	cmd.Flags().String("package", "", "")
	cmd.Flags().StringArray("subtask", nil, "")
	cmd.Flags().StringArray("field", nil, "")
	cmd.Flags().Bool("force", false, "")
	return cmd
}

func TestRunCreate_Defaults(t *testing.T) {
	cfg := setupBoard(t)
	setFlags(t, false, true, false)
	r, w := captureStdout(t)

	err := runCreate(newCreateCmd(), []string{"Write docs"})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatalf("runCreate error: %v", err)
	}
	if !strings.Contains(got, "Write docs") || !strings.Contains(got, "Status: To Do | Priority: Medium") {
		t.Errorf("output = %q", got)
	}

	b := loadTestBoard(t, cfg)
	col, _ := b.Column("todo")
	if len(col.Tasks) != 1 {
		t.Fatalf("todo has %d tasks, want 1", len(col.Tasks))
	}
	if col.Tasks[0].Priority != task.PriorityMedium {
		t.Errorf("Priority = %q, want Medium", col.Tasks[0].Priority)
	}
}

func TestRunCreate_AllFlags(t *testing.T) {
	cfg := setupBoard(t)
	setFlags(t, true, false, false)

	cmd := newCreateCmd()
	_ = cmd.Flags().Set("column", "in progress")
	_ = cmd.Flags().Set("description", "Longer text")
	_ = cmd.Flags().Set("due", "2025-07-01")
	_ = cmd.Flags().Set("assignee", "sam")
	_ = cmd.Flags().Set("priority", "high")
	_ = cmd.Flags().Set("package", "Web")
	_ = cmd.Flags().Set("subtask", "First, with comma")
	_ = cmd.Flags().Set("subtask", "Second")
	_ = cmd.Flags().Set("field", "Estimate=3d")

	r, w := captureStdout(t)
	err := runCreate(cmd, []string{"Ship"})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatalf("runCreate error: %v", err)
	}
	if !strings.Contains(got, `"status": "In Progress"`) {
		t.Errorf("JSON output = %s", got)
	}

	b := loadTestBoard(t, cfg)
	created := b.AllTasks()[0]
	if created.Priority != task.PriorityHigh || created.Assignee != "sam" || created.Package != "Web" {
		t.Errorf("task = %+v", created)
	}
	if created.Due == nil || created.Due.String() != "2025-07-01" {
		t.Errorf("Due = %v, want 2025-07-01", created.Due)
	}
	if len(created.Subtasks) != 2 || created.Subtasks[0].Title != "First, with comma" {
		t.Errorf("Subtasks = %+v", created.Subtasks)
	}
	if v, ok := created.Field("Estimate"); !ok || v != "3d" {
		t.Errorf("Field(Estimate) = %q, %v", v, ok)
	}
}

func TestRunCreate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		flag  string
		value string
		title string
		want  string
	}{
		{"blank title", "", "", "  ", clierr.InvalidTitle},
		{"bad priority", "priority", "urgent", "x", clierr.InvalidPriority},
		{"bad due", "due", "tomorrow", "x", clierr.InvalidDate},
		{"bad column", "column", "review", "x", clierr.ColumnNotFound},
		{"bad field", "field", "novalue", "x", clierr.InvalidField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := setupBoard(t)
			cmd := newCreateCmd()
			if tt.flag != "" {
				_ = cmd.Flags().Set(tt.flag, tt.value)
			}
			err := runCreate(cmd, []string{tt.title})
			if errCode(err) != tt.want {
				t.Errorf("runCreate error = %v, want %s", err, tt.want)
			}
			if n := loadTestBoard(t, cfg).TaskCount(); n != 0 {
				t.Errorf("board has %d tasks after failed add", n)
			}
		})
	}
}

func TestRunCreate_WIPLimit(t *testing.T) {
	cfg := setupBoard(t)
	cfg.Columns[1].WIPLimit = 1
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
	addTask(t, cfg, "in-progress", task.Draft{Title: "Busy"})
	setFlags(t, true, false, false)

	cmd := newCreateCmd()
	_ = cmd.Flags().Set("column", "in-progress")
	if err := runCreate(cmd, []string{"More"}); errCode(err) != clierr.WIPLimitExceeded {
		t.Fatalf("runCreate error = %v, want %s", err, clierr.WIPLimitExceeded)
	}

	_ = cmd.Flags().Set("force", "true")
	r, w := captureStdout(t)
	err := runCreate(cmd, []string{"More"})
	drainPipe(t, r, w)
	if err != nil {
		t.Fatalf("runCreate --force error: %v", err)
	}
	if n := loadTestBoard(t, cfg).TaskCount(); n != 2 {
		t.Errorf("TaskCount = %d, want 2", n)
	}
}

func TestParseFieldFlag(t *testing.T) {
	name, value, err := parseFieldFlag(" Team = a=b")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Team" || value != " a=b" {
		t.Errorf("parseFieldFlag = %q, %q", name, value)
	}
}
