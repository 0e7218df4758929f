package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/task"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("output", "o", "", "")
	cmd.Flags().Bool("stdout", false, "")
	cmd.Flags().String("view", viewAll, "")
	return cmd
}

func TestRunExport_Stdout(t *testing.T) {
	cfg := setupBoard(t)
	addTask(t, cfg, "todo", task.Draft{Title: `Say "hi"`, Priority: task.PriorityHigh})

	cmd := newExportCmd()
	_ = cmd.Flags().Set("stdout", "true")
	r, w := captureStdout(t)
	err := runExport(cmd, nil)
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatalf("runExport error: %v", err)
	}
	want := strings.Join(board.ExportHeader, ",") + "\n" +
		`"Say ""hi""","","To Do","","","High","Unassigned"` + "\n"
	if got != want {
		t.Errorf("export = %q\nwant %q", got, want)
	}
}

func TestRunExport_File(t *testing.T) {
	cfg := setupBoard(t)
	addTask(t, cfg, "todo", task.Draft{Title: "Open"})
	addTask(t, cfg, "completed", task.Draft{Title: "Done"})
	setFlags(t, false, true, false)
	path := filepath.Join(t.TempDir(), "out.csv")

	cmd := newExportCmd()
	_ = cmd.Flags().Set("output", path)
	_ = cmd.Flags().Set("view", viewActive)
	r, w := captureStdout(t)
	err := runExport(cmd, nil)
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatalf("runExport error: %v", err)
	}
	if !strings.Contains(got, "Exported 1 task(s) to "+path) {
		t.Errorf("output = %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"Open"`) || strings.Contains(string(data), `"Done"`) {
		t.Errorf("file = %q", data)
	}
}

func TestRunExport_DefaultFilename(t *testing.T) {
	setupBoard(t)
	t.Chdir(t.TempDir())
	setFlags(t, true, false, false)

	r, w := captureStdout(t)
	err := runExport(newExportCmd(), nil)
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `"path": "tasks-export-`) || !strings.Contains(got, `"count": 0`) {
		t.Errorf("output = %s", got)
	}
	matches, _ := filepath.Glob("tasks-export-*.csv")
	if len(matches) != 1 {
		t.Errorf("export files = %v, want one", matches)
	}
}

func TestRunExport_PackageViewRejected(t *testing.T) {
	setupBoard(t)
	cmd := newExportCmd()
	_ = cmd.Flags().Set("view", viewPackage)
	if err := runExport(cmd, nil); errCode(err) != clierr.InvalidInput {
		t.Errorf("error = %v, want %s", err, clierr.InvalidInput)
	}
}
