package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/tui"
	"github.com/antopolskiy/taskboard/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive board UI",
	Long: `Launches the interactive terminal UI for browsing and managing the
board. The board live-reloads when the board file changes on disk.

Navigate with arrow keys or vim-style h/j/k/l, press ? for help.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// RunTUI launches the interactive TUI on the board in dir, or on the
// board found from the working directory when dir is empty.
func RunTUI(dir string) error {
	if dir != "" {
		flagDir = dir
	}
	if err := setup(tuiCmd, nil); err != nil {
		return err
	}
	return runTUI(tuiCmd, nil)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		if !isBoardNotFound(err) {
			return err
		}
		if cfg, err = offerInitTUI(); err != nil {
			return err
		}
	}

	// Log lines would corrupt the alternate screen.
	if !levelPinned {
		logger.SetOutput(io.Discard)
	}

	model := tui.NewBoard(cfg, openStore(cfg))
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func isBoardNotFound(err error) bool {
	var cliErr *clierr.Error
	return errors.As(err, &cliErr) && cliErr.Code == clierr.BoardNotFound
}

// offerInitTUI asks to create a board in the working directory.
func offerInitTUI() (*config.Config, error) {
	dir, err := initDir()
	if err != nil {
		return nil, err
	}
	ok, err := confirm(fmt.Sprintf("No board found. Create one in %s?", dir), true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, clierr.New(clierr.BoardNotFound, "no board found (run 'taskboard init' to create one)")
	}

	cfg, err := initBoard(dir, "", nil)
	if err != nil {
		return nil, fmt.Errorf("initializing board: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Board %q created in %s\n", cfg.Board.Name, filepath.Clean(cfg.Dir()))
	if err := offerGitignore(cfg.Dir()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// startTUIWatcher forwards board file changes and watcher errors to the
// program until ctx is done.
func startTUIWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	w, err := watcher.New(model.WatchPaths(), func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		logger.WithError(err).Warn("live reload disabled")
		return
	}
	defer w.Close()
	w.Run(ctx, func(err error) {
		p.Send(tui.ErrMsg{Err: err})
	})
}
