package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

const maxTitleLines = 3

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify board configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"board.name": {
			get:      func(c *config.Config) any { return c.Board.Name },
			set:      func(c *config.Config, v string) error { c.Board.Name = v; return nil },
			writable: true,
		},
		"board.description": {
			get:      func(c *config.Config) any { return c.Board.Description },
			set:      func(c *config.Config, v string) error { c.Board.Description = v; return nil },
			writable: true,
		},
		"board_file": {
			get: func(c *config.Config) any { return c.BoardFile },
		},
		"columns": {
			get: func(c *config.Config) any { return c.ColumnTitles() },
		},
		"completed_column": {
			get: func(c *config.Config) any { return c.CompletedColumn },
			set: func(c *config.Config, v string) error {
				col, err := c.ResolveColumn(v)
				if err != nil {
					return err
				}
				c.CompletedColumn = col.Title
				return nil
			},
			writable: true,
		},
		"wip_limits": {
			get: func(c *config.Config) any {
				limits := map[string]int{}
				for _, col := range c.Columns {
					if col.WIPLimit > 0 {
						limits[col.Title] = col.WIPLimit
					}
				}
				return limits
			},
		},
		"defaults.column": {
			get: func(c *config.Config) any { return c.Defaults.Column },
			set: func(c *config.Config, v string) error {
				col, err := c.ResolveColumn(v)
				if err != nil {
					return err
				}
				c.Defaults.Column = col.ID
				return nil
			},
			writable: true,
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: func(c *config.Config, v string) error {
				p, err := task.ParsePriority(v)
				if err != nil {
					return err
				}
				c.Defaults.Priority = string(p)
				return nil
			},
			writable: true,
		},
		"server.addr": {
			get:      func(c *config.Config) any { return c.Server.Addr },
			set:      func(c *config.Config, v string) error { c.Server.Addr = v; return nil },
			writable: true,
		},
		"log.level": {
			get: func(c *config.Config) any { return c.LogLevel() },
			set: func(c *config.Config, v string) error {
				if _, err := log.ParseLevel(v); err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid log level %q", v)
				}
				c.Log.Level = v
				return nil
			},
			writable: true,
		},
		"tui.title_lines": {
			get: func(c *config.Config) any { return c.TitleLines() },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil || n < 1 || n > maxTitleLines {
					return clierr.Newf(clierr.InvalidInput, "invalid title_lines %q (want 1-%d)", v, maxTitleLines)
				}
				c.TUI.TitleLines = n
				return nil
			},
			writable: true,
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"board.name",
		"board.description",
		"board_file",
		"columns",
		"completed_column",
		"wip_limits",
		"defaults.column",
		"defaults.priority",
		"server.addr",
		"log.level",
		"tui.title_lines",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	// Table mode: key-value pairs.
	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-20s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	accessors := configAccessors()
	acc, ok := accessors[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
			WithDetails(map[string]any{"key": key, "allowed": allConfigKeys()})
	}

	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	accessors := configAccessors()
	acc, ok := accessors[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
			WithDetails(map[string]any{"key": key, "allowed": allConfigKeys()})
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return clierr.New(clierr.InvalidConfig, err.Error())
		}
		return err
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ", ")
	case map[string]int:
		if len(v) == 0 {
			return "--"
		}
		parts := make([]string, 0, len(v))
		for k, n := range v {
			parts = append(parts, fmt.Sprintf("%s=%d", k, n))
		}
		slices.Sort(parts)
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
