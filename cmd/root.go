// Package cmd implements the taskboard CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/store"
	"github.com/antopolskiy/taskboard/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Environment variables read by the CLI.
const (
	envDir      = "TASKBOARD_DIR"
	envLogLevel = "TASKBOARD_LOG_LEVEL"
	envDebug    = "DEBUG"
)

// Global flags.
var (
	flagJSON     bool
	flagTable    bool
	flagCompact  bool
	flagDir      string
	flagNoColor  bool
	flagLogLevel string
)

// logger is shared by every command. Its level is pinned by --log-level,
// TASKBOARD_LOG_LEVEL or DEBUG, and otherwise follows the board config.
var (
	logger      = log.New()
	levelPinned bool
)

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "A file-based task board with packages, stats and CSV export",
	Long: `taskboard manages a kanban board stored as a single YAML file.
Tasks live in columns, can be grouped into packages, carry subtasks and
custom fields, and can be listed, summarized, exported to CSV, browsed in
a terminal UI or served over a small JSON API.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to board directory (default: search upward for "+config.DefaultDir+")")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func setup(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		output.DisableColor()
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return setupLogger()
}

// setupLogger configures the shared logger: text on a terminal, JSON
// otherwise, always on stderr.
func setupLogger() error {
	logger.SetOutput(os.Stderr)
	if term.IsTerminal(int(os.Stderr.Fd())) { //nolint:gosec // fd fits in int
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&log.JSONFormatter{})
	}

	level := flagLogLevel
	if level == "" {
		level = os.Getenv(envLogLevel)
	}
	if level == "" && os.Getenv(envDebug) == "1" {
		level = "debug"
	}
	if level == "" {
		logger.SetLevel(log.WarnLevel)
		return nil
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return clierr.Newf(clierr.InvalidInput, "invalid log level %q", level)
	}
	logger.SetLevel(parsed)
	levelPinned = true
	return nil
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv(output.EnvOutput) == "json"
	}

	var cliErr *clierr.Error
	if jsonMode {
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// boardDir returns the board directory named by --dir or TASKBOARD_DIR,
// or searches upward from the working directory.
func boardDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if dir := os.Getenv(envDir); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return config.FindDir(cwd)
}

// loadConfig finds and loads the board config.
func loadConfig() (*config.Config, error) {
	dir, err := boardDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	switch {
	case errors.Is(err, config.ErrNotFound):
		return nil, clierr.New(clierr.BoardNotFound, err.Error())
	case errors.Is(err, config.ErrInvalid):
		return nil, clierr.New(clierr.InvalidConfig, err.Error())
	case err != nil:
		return nil, err
	}

	if !levelPinned {
		if level, perr := log.ParseLevel(cfg.LogLevel()); perr == nil {
			logger.SetLevel(level)
		}
	}
	logger.WithField("dir", cfg.Dir()).Debug("board config loaded")
	return cfg, nil
}

// openStore returns a store whose boards record every mutation in the
// activity log.
func openStore(cfg *config.Config) *store.Store {
	return store.New(cfg, logger, board.WithListener(board.NewActivityListener(cfg.Dir(), logger)))
}

// loadBoard loads the config and the board in one step.
func loadBoard() (*config.Config, *store.Store, *board.Board, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	st := openStore(cfg)
	b, err := st.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, st, b, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// listOptions returns the rendering options for a board.
func listOptions(b *board.Board, view task.View) output.ListOptions {
	return output.ListOptions{View: view, Overdue: b.IsOverdue}
}

// parseRefs splits a comma-separated task reference list, dropping blanks
// and duplicates.
func parseRefs(arg string) ([]string, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[string]bool, len(parts))
	refs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		refs = append(refs, p)
	}
	if len(refs) == 0 {
		return nil, clierr.New(clierr.InvalidTaskID, "no task IDs provided")
	}
	return refs, nil
}

// runBatch executes fn for each reference and reports the results. Returns
// a SilentError with exit code 1 if any operation failed.
func runBatch(refs []string, fn func(string) error) error {
	results := make([]output.BatchResult, 0, len(refs))
	anyFailed := false

	for _, ref := range refs {
		err := fn(ref)
		if err == nil {
			results = append(results, output.BatchResult{ID: ref, OK: true})
			continue
		}
		anyFailed = true
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			results = append(results, output.BatchResult{ID: ref, Error: cliErr.Message, Code: cliErr.Code})
		} else {
			results = append(results, output.BatchResult{ID: ref, Error: err.Error()})
		}
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task %s: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(refs))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
