package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/output"
)

const dirMode = 0o750

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new board",
	Long: `Creates a board directory with a config file and an empty board.
By default the board is created in ./` + config.DefaultDir + ` with the columns
To Do, In Progress and Completed.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "board name (default: current directory name)")
	initCmd.Flags().StringSlice("column", nil, "column as id:Title, repeatable (replaces the defaults)")
	initCmd.Flags().StringSlice("wip-limit", nil, "WIP limit as column-id:N, repeatable")
	initCmd.Flags().String("completed", "", "title of the completed column (default: last column)")
	initCmd.Flags().String("template", "", "seed packages from a template ("+strings.Join(board.TemplateNames(), ", ")+")")
	initCmd.Flags().Bool("gitignore", false, "offer to add the board directory to .gitignore")
	rootCmd.AddCommand(initCmd)
}

type initResult struct {
	Dir      string                `json:"dir"`
	Name     string                `json:"name"`
	Columns  []config.ColumnConfig `json:"columns"`
	Packages []board.Package       `json:"packages,omitempty"`
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := initDir()
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	columns, _ := cmd.Flags().GetStringSlice("column")
	wipFlags, _ := cmd.Flags().GetStringSlice("wip-limit")
	completed, _ := cmd.Flags().GetString("completed")
	template, _ := cmd.Flags().GetString("template")

	limits, err := parseWIPLimits(wipFlags)
	if err != nil {
		return err
	}

	cfg, err := initBoard(dir, name, func(cfg *config.Config) error {
		if len(columns) > 0 {
			parsed, err := parseColumns(columns)
			if err != nil {
				return err
			}
			cfg.Columns = parsed
			cfg.CompletedColumn = parsed[len(parsed)-1].Title
			cfg.Defaults.Column = parsed[0].ID
		}
		if completed != "" {
			cfg.CompletedColumn = completed
		}
		for id, n := range limits {
			col := cfg.ColumnByID(id)
			if col == nil {
				return clierr.Newf(clierr.ColumnNotFound, "unknown column %q in --wip-limit", id)
			}
			col.WIPLimit = n
		}
		return nil
	})
	if err != nil {
		return err
	}

	result := initResult{Dir: cfg.Dir(), Name: cfg.Board.Name, Columns: cfg.Columns}
	if template != "" {
		if _, err := openStore(cfg).Update(func(b *board.Board) error {
			pkgs, err := b.ApplyTemplate(template)
			result.Packages = pkgs
			return err
		}); err != nil {
			return err
		}
	}

	if ok, _ := cmd.Flags().GetBool("gitignore"); ok {
		if err := offerGitignore(cfg.Dir()); err != nil {
			return err
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, result)
	}
	output.Messagef(os.Stdout, "Initialized board %q in %s", result.Name, result.Dir)
	output.Messagef(os.Stdout, "Columns: %s", strings.Join(cfg.ColumnTitles(), ", "))
	if len(result.Packages) > 0 {
		output.Messagef(os.Stdout, "Added %d package(s) from template %q", len(result.Packages), template)
	}
	return nil
}

// initDir returns the directory a new board is created in.
func initDir() (string, error) {
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
	return filepath.Join(cwd, config.DefaultDir), nil
}

// initBoard writes a default config, adjusted by customize, and an empty
// board into dir. An empty name takes the name of dir's parent.
func initBoard(dir, name string, customize func(*config.Config) error) (*config.Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(filepath.Join(abs, config.ConfigFileName)); err == nil {
		return nil, clierr.Newf(clierr.BoardExists, "board already exists in %s", abs).
			WithDetails(map[string]any{"dir": abs})
	}
	if name == "" {
		name = filepath.Base(filepath.Dir(abs))
	}

	cfg := config.NewDefault(name)
	cfg.SetDir(abs)
	if customize != nil {
		if err := customize(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return nil, clierr.New(clierr.InvalidConfig, err.Error())
		}
		return nil, err
	}

	if err := os.MkdirAll(abs, dirMode); err != nil {
		return nil, fmt.Errorf("creating board directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	if _, err := openStore(cfg).Init(); err != nil {
		return nil, err
	}
	logger.WithField("dir", abs).Info("board initialized")
	return cfg, nil
}

// parseColumns parses id:Title column declarations.
func parseColumns(specs []string) ([]config.ColumnConfig, error) {
	columns := make([]config.ColumnConfig, 0, len(specs))
	for _, s := range specs {
		id, title, ok := strings.Cut(s, ":")
		id, title = strings.TrimSpace(id), strings.TrimSpace(title)
		if !ok || id == "" || title == "" {
			return nil, clierr.Newf(clierr.InvalidInput, "invalid column %q (want id:Title)", s)
		}
		columns = append(columns, config.ColumnConfig{ID: id, Title: title})
	}
	return columns, nil
}

// parseWIPLimits parses column-id:N limits.
func parseWIPLimits(specs []string) (map[string]int, error) {
	limits := make(map[string]int, len(specs))
	for _, s := range specs {
		id, n, ok := strings.Cut(s, ":")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, clierr.Newf(clierr.InvalidInput, "invalid WIP limit %q (want column-id:N)", s)
		}
		limit, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || limit < 0 {
			return nil, clierr.Newf(clierr.InvalidInput, "invalid WIP limit %q (want a non-negative number)", s)
		}
		limits[strings.TrimSpace(id)] = limit
	}
	return limits, nil
}
