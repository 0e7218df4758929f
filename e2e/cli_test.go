package e2e_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNoBoardErrors(t *testing.T) {
	dir := t.TempDir()

	commands := []struct {
		name string
		args []string
	}{
		{"add", []string{"add", "Task"}},
		{"list", []string{"list"}},
		{"show", []string{"show", "abc"}},
		{"move", []string{"move", "abc", "--next"}},
		{"delete", []string{"delete", "abc", "--yes"}},
		{"stats", []string{"stats"}},
	}
	for _, tt := range commands {
		t.Run(tt.name, func(t *testing.T) {
			r := runBoard(t, dir, tt.args...)
			if r.exitCode != 1 {
				t.Errorf("exit code = %d, want 1", r.exitCode)
			}
			if !strings.Contains(r.stderr, "no board found") {
				t.Errorf("stderr = %q, want 'no board found'", r.stderr)
			}
		})
	}
}

func TestInitTwice(t *testing.T) {
	dir := initBoard(t)

	errResp, code := runBoardJSONError(t, dir, "init")
	if errResp.Code != "BOARD_EXISTS" || code != 1 {
		t.Errorf("code = %s (exit %d), want BOARD_EXISTS (exit 1)", errResp.Code, code)
	}
}

func TestLifecycle(t *testing.T) {
	dir := initBoard(t)

	tk := mustAddTask(t, dir, "Write report", "--assignee", "kim", "--subtask", "outline", "--due", "2030-01-31")
	if tk.Status != statusToDo || tk.Priority != "Medium" || tk.Due != "2030-01-31" {
		t.Errorf("created task = %+v", tk)
	}
	if len(tk.Subtasks) != 1 || tk.Subtasks[0].ID == "" {
		t.Fatalf("subtasks = %+v", tk.Subtasks)
	}
	short := tk.ID[len(tk.ID)-8:]

	var moved taskJSON
	if r := runBoardJSON(t, dir, &moved, "move", short, "--next"); r.exitCode != 0 {
		t.Fatalf("move failed: %s", r.stderr)
	}
	if moved.ID != tk.ID || moved.Status != statusInProgress {
		t.Errorf("moved task = %+v, want same id in %s", moved, statusInProgress)
	}

	var edited taskJSON
	if r := runBoardJSON(t, dir, &edited, "edit", short, "--priority", "high", "--package", "Docs"); r.exitCode != 0 {
		t.Fatalf("edit failed: %s", r.stderr)
	}
	if edited.Priority != "High" || edited.Package != "Docs" || edited.Status != statusInProgress {
		t.Errorf("edited task = %+v", edited)
	}

	if r := runBoard(t, dir, "subtask", "toggle", short, "1"); r.exitCode != 0 {
		t.Fatalf("subtask toggle failed: %s", r.stderr)
	}
	var shown taskJSON
	runBoardJSON(t, dir, &shown, "show", short)
	if !shown.Subtasks[0].Completed || shown.Status != statusInProgress {
		t.Errorf("after toggle = %+v", shown)
	}

	if r := runBoard(t, dir, "move", short, "completed"); r.exitCode != 0 {
		t.Fatalf("move to completed failed: %s", r.stderr)
	}
	var active, completed []taskJSON
	runBoardJSON(t, dir, &active, "list")
	runBoardJSON(t, dir, &completed, "list", "--view", "completed")
	if len(active) != 0 || len(completed) != 1 || completed[0].Status != statusCompleted {
		t.Errorf("active = %+v, completed = %+v", active, completed)
	}

	if r := runBoard(t, dir, "delete", short, "--yes"); r.exitCode != 0 {
		t.Fatalf("delete failed: %s", r.stderr)
	}
	errResp, _ := runBoardJSONError(t, dir, "show", short)
	if errResp.Code != codeTaskNotFound {
		t.Errorf("show after delete code = %s, want %s", errResp.Code, codeTaskNotFound)
	}

	r := runBoard(t, dir, "log", "--task", short, "--compact")
	for _, action := range []string{"add", "move", "update", "delete"} {
		if !strings.Contains(r.stdout, " "+action+" ") {
			t.Errorf("log missing %s entry:\n%s", action, r.stdout)
		}
	}
}

func TestCommandAliases(t *testing.T) {
	dir := initBoard(t)

	var tk taskJSON
	if r := runBoardJSON(t, dir, &tk, "create", "Aliased task"); r.exitCode != 0 {
		t.Fatalf("'create' alias failed: %s", r.stderr)
	}

	var tasks []taskJSON
	if r := runBoardJSON(t, dir, &tasks, "ls"); r.exitCode != 0 || len(tasks) != 1 {
		t.Fatalf("'ls' alias: exit %d, %d tasks", r.exitCode, len(tasks))
	}

	if r := runBoard(t, dir, "rm", tk.ID, "--yes"); r.exitCode != 0 {
		t.Fatalf("'rm' alias failed: %s", r.stderr)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	dir := initBoard(t)
	tk := mustAddTask(t, dir, "Keep me")

	errResp, code := runBoardJSONError(t, dir, "delete", tk.ID)
	if errResp.Code != codeConfirmation || code != 1 {
		t.Errorf("code = %s (exit %d), want %s", errResp.Code, code, codeConfirmation)
	}
}

func TestWIPLimit(t *testing.T) {
	dir := initBoard(t, "--wip-limit", "in-progress:1")
	mustAddTask(t, dir, "First", "--column", "in-progress")

	errResp, _ := runBoardJSONError(t, dir, "add", "Second", "--column", "in-progress")
	if errResp.Code != codeWIPLimitExceeded {
		t.Errorf("code = %s, want %s", errResp.Code, codeWIPLimitExceeded)
	}
	if errResp.Details["limit"] != float64(1) {
		t.Errorf("details = %v", errResp.Details)
	}

	mustAddTask(t, dir, "Second", "--column", "in-progress", "--force")
}

func TestBatchMove(t *testing.T) {
	dir := initBoard(t)
	a := mustAddTask(t, dir, "A")
	b := mustAddTask(t, dir, "B")

	r := runBoard(t, dir, "move", a.ID+","+b.ID+",missing", "blocked")
	if r.exitCode != 1 {
		t.Errorf("exit code = %d, want 1", r.exitCode)
	}
	if !strings.Contains(r.stdout, "Completed 2/3 operations") {
		t.Errorf("stdout = %q", r.stdout)
	}
	if !strings.Contains(r.stderr, "task missing") {
		t.Errorf("stderr = %q", r.stderr)
	}

	var blocked []taskJSON
	runBoardJSON(t, dir, &blocked, "list", "--status", "blocked")
	if len(blocked) != 2 {
		t.Errorf("blocked tasks = %d, want 2", len(blocked))
	}
}

func TestJSONErrorEnvelope(t *testing.T) {
	dir := initBoard(t)

	errResp, code := runBoardJSONError(t, dir, "list", "--sort", "mood")
	if errResp.Code != codeInvalidInput || code != 1 {
		t.Errorf("code = %s (exit %d), want %s (exit 1)", errResp.Code, code, codeInvalidInput)
	}
	if errResp.Error == "" || errResp.Details["sort"] != "mood" {
		t.Errorf("envelope = %+v", errResp)
	}

	r := runBoardEnv(t, dir, []string{"TASKBOARD_OUTPUT=json"}, "show", "nope")
	if !strings.Contains(r.stdout, `"code": "`+codeTaskNotFound+`"`) {
		t.Errorf("env json mode stdout = %q", r.stdout)
	}
}

func TestBoardDirFromEnv(t *testing.T) {
	dir := initBoard(t)
	mustAddTask(t, dir, "Via env")

	r := runBoardEnv(t, "", []string{"TASKBOARD_DIR=" + dir}, "list", "--compact")
	if r.exitCode != 0 || !strings.Contains(r.stdout, "Via env") {
		t.Errorf("exit %d, stdout %q, stderr %q", r.exitCode, r.stdout, r.stderr)
	}
}

func TestExportAndSummary(t *testing.T) {
	dir := initBoard(t, "--template", "software")
	mustAddTask(t, dir, `Quote "me"`, "--package", "Development", "--priority", "low")

	r := runBoard(t, dir, "export", "--stdout")
	want := "Title,Description,Status,Due Date,Assignee,Priority,Package\n" +
		`"Quote ""me""","","To Do","","","Low","Development"` + "\n"
	if r.stdout != want {
		t.Errorf("export = %q\nwant %q", r.stdout, want)
	}

	readme := filepath.Join(t.TempDir(), "README.md")
	if r := runBoard(t, dir, "board", "--write", readme); r.exitCode != 0 {
		t.Fatalf("board --write failed: %s", r.stderr)
	}
	data, err := os.ReadFile(readme)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "## Board: E2E") || !strings.Contains(string(data), "1 tasks") {
		t.Errorf("summary = %q", data)
	}

	var pkgs []map[string]any
	runBoardJSON(t, dir, &pkgs, "package", "list")
	if len(pkgs) != 3 {
		t.Errorf("packages = %d, want 3", len(pkgs))
	}
}

func TestValidateCommand(t *testing.T) {
	dir := initBoard(t)
	mustAddTask(t, dir, "Fine")

	if r := runBoard(t, dir, "validate"); r.exitCode != 0 || !strings.Contains(r.stdout, "is valid") {
		t.Errorf("validate: exit %d, stdout %q", r.exitCode, r.stdout)
	}

	if err := os.WriteFile(filepath.Join(dir, "board.yml"), []byte("columns: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if r := runBoard(t, dir, "validate"); r.exitCode != 1 {
		t.Errorf("invalid board exit = %d, want 1", r.exitCode)
	}
}
