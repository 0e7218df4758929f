package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/task"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// setupBoard creates a board in a temp dir and points --dir at it.
func setupBoard(t *testing.T) *config.Config {
	t.Helper()
	dir := filepath.Join(t.TempDir(), config.DefaultDir)
	setDir(t, dir)
	cfg, err := initBoard(dir, "TestBoard", nil)
	if err != nil {
		t.Fatalf("initBoard: %v", err)
	}
	return cfg
}

func setDir(t *testing.T, dir string) {
	t.Helper()
	old := flagDir
	flagDir = dir
	t.Cleanup(func() { flagDir = old })
}

// addTask adds a task straight through the store.
func addTask(t *testing.T, cfg *config.Config, columnID string, d task.Draft) *task.Task {
	t.Helper()
	var created *task.Task
	if _, err := openStore(cfg).Update(func(b *board.Board) error {
		var err error
		created, err = b.AddTask(columnID, d)
		return err
	}); err != nil {
		t.Fatalf("AddTask(%s, %q): %v", columnID, d.Title, err)
	}
	return created
}

func loadTestBoard(t *testing.T, cfg *config.Config) *board.Board {
	t.Helper()
	b, err := openStore(cfg).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return b
}

// captureStdout replaces os.Stdout with a pipe and returns it.
func captureStdout(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = oldStdout })
	return r, w
}

// captureStderr replaces os.Stderr with a pipe and returns it.
func captureStderr(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = oldStderr })
	return r, w
}

// drainPipe closes the writer and reads all content from the reader.
func drainPipe(t *testing.T, r, w *os.File) string {
	t.Helper()
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

// setFlags overrides the global output flags and restores them on cleanup.
func setFlags(t *testing.T, json, table, compact bool) {
	t.Helper()
	oldJSON, oldTable, oldCompact := flagJSON, flagTable, flagCompact
	flagJSON, flagTable, flagCompact = json, table, compact
	t.Cleanup(func() {
		flagJSON, flagTable, flagCompact = oldJSON, oldTable, oldCompact
	})
}

// setStdin feeds prompts from input and fakes a terminal.
func setStdin(t *testing.T, input string) {
	t.Helper()
	oldIn, oldTerm := stdin, stdinIsTerminal
	stdin = strings.NewReader(input)
	stdinIsTerminal = func() bool { return true }
	t.Cleanup(func() { stdin, stdinIsTerminal = oldIn, oldTerm })
}

func errCode(err error) string {
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ""
}

func TestLoadConfig_WithFlagDir(t *testing.T) {
	setupBoard(t)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Board.Name != "TestBoard" {
		t.Errorf("board name = %q, want %q", cfg.Board.Name, "TestBoard")
	}
}

func TestLoadConfig_EnvDir(t *testing.T) {
	cfg := setupBoard(t)
	setDir(t, "")
	t.Setenv(envDir, cfg.Dir())

	got, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if got.Dir() != cfg.Dir() {
		t.Errorf("Dir() = %q, want %q", got.Dir(), cfg.Dir())
	}
}

func TestLoadConfig_FlagBeatsEnv(t *testing.T) {
	setupBoard(t)
	t.Setenv(envDir, filepath.Join(t.TempDir(), "elsewhere"))

	if _, err := loadConfig(); err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
}

func TestLoadConfig_MissingBoard(t *testing.T) {
	setDir(t, t.TempDir())

	_, err := loadConfig()
	if errCode(err) != clierr.BoardNotFound {
		t.Errorf("loadConfig() error = %v, want %s", err, clierr.BoardNotFound)
	}
}

func TestLoadConfig_InvalidConfig(t *testing.T) {
	cfg := setupBoard(t)
	if err := os.WriteFile(cfg.ConfigPath(), []byte("version: 3\nboard:\n  name: \"\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := loadConfig()
	if errCode(err) != clierr.InvalidConfig {
		t.Errorf("loadConfig() error = %v, want %s", err, clierr.InvalidConfig)
	}
}

func TestLoadConfig_AppliesConfigLogLevel(t *testing.T) {
	cfg := setupBoard(t)
	cfg.Log.Level = "error"
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
	oldLevel, oldPinned := logger.GetLevel(), levelPinned
	levelPinned = false
	t.Cleanup(func() { logger.SetLevel(oldLevel); levelPinned = oldPinned })

	if _, err := loadConfig(); err != nil {
		t.Fatal(err)
	}
	if logger.GetLevel() != log.ErrorLevel {
		t.Errorf("level = %v, want error", logger.GetLevel())
	}
}

func TestSetupLogger_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		flag   string
		env    string
		debug  string
		want   log.Level
		pinned bool
	}{
		{"default", "", "", "", log.WarnLevel, false},
		{"debug env", "", "", "1", log.DebugLevel, true},
		{"level env beats debug", "", "error", "1", log.ErrorLevel, true},
		{"flag beats env", "info", "error", "", log.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldFlag, oldLevel, oldPinned := flagLogLevel, logger.GetLevel(), levelPinned
			t.Cleanup(func() {
				flagLogLevel = oldFlag
				logger.SetLevel(oldLevel)
				levelPinned = oldPinned
				logger.SetOutput(io.Discard)
			})
			flagLogLevel = tt.flag
			levelPinned = false
			t.Setenv(envLogLevel, tt.env)
			t.Setenv(envDebug, tt.debug)

			if err := setupLogger(); err != nil {
				t.Fatal(err)
			}
			if logger.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", logger.GetLevel(), tt.want)
			}
			if levelPinned != tt.pinned {
				t.Errorf("levelPinned = %v, want %v", levelPinned, tt.pinned)
			}
		})
	}
}

func TestSetupLogger_InvalidLevel(t *testing.T) {
	oldFlag := flagLogLevel
	t.Cleanup(func() { flagLogLevel = oldFlag; logger.SetOutput(io.Discard) })
	flagLogLevel = "loud"

	if err := setupLogger(); errCode(err) != clierr.InvalidInput {
		t.Errorf("setupLogger() error = %v, want %s", err, clierr.InvalidInput)
	}
}

func TestParseRefs(t *testing.T) {
	refs, err := parseRefs("abc, def,abc,,ghi")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"abc", "def", "ghi"}
	if strings.Join(refs, ",") != strings.Join(want, ",") {
		t.Errorf("parseRefs = %v, want %v", refs, want)
	}

	if _, err := parseRefs(" , "); errCode(err) != clierr.InvalidTaskID {
		t.Errorf("parseRefs(blank) error = %v, want %s", err, clierr.InvalidTaskID)
	}
}

func TestRunBatch_AllSucceed(t *testing.T) {
	setFlags(t, false, true, false)
	r, w := captureStdout(t)

	batchErr := runBatch([]string{"a", "b", "c"}, func(string) error { return nil })
	got := drainPipe(t, r, w)

	if batchErr != nil {
		t.Errorf("expected nil error when all succeed, got %v", batchErr)
	}
	if !strings.Contains(got, "Completed 3/3 operations") {
		t.Errorf("output = %q, want 3/3 summary", got)
	}
}

func TestRunBatch_PartialFailureJSON(t *testing.T) {
	setFlags(t, true, false, false)
	r, w := captureStdout(t)

	batchErr := runBatch([]string{"ok", "bad"}, func(ref string) error {
		if ref == "bad" {
			return task.NotFound(ref)
		}
		return nil
	})
	got := drainPipe(t, r, w)

	var silent *clierr.SilentError
	if !errors.As(batchErr, &silent) || silent.Code != 1 {
		t.Fatalf("error = %v, want SilentError{1}", batchErr)
	}
	for _, want := range []string{`"id": "ok"`, `"ok": true`, `"code": "TASK_NOT_FOUND"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s:\n%s", want, got)
		}
	}
}

func TestRunBatch_ReportsFailuresOnStderr(t *testing.T) {
	setFlags(t, false, true, false)
	_, w := captureStdout(t)
	er, ew := captureStderr(t)

	_ = runBatch([]string{"x"}, func(string) error { return errors.New("boom") })
	_ = w.Close()
	got := drainPipe(t, er, ew)

	if !strings.Contains(got, "Error: task x: boom") {
		t.Errorf("stderr = %q, want failure line", got)
	}
}
