package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.yaml.in/yaml/v3"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/task"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no board found (run 'taskboard init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the board configuration.
type Config struct {
	Version         int            `yaml:"version"`
	Board           BoardConfig    `yaml:"board"`
	BoardFile       string         `yaml:"board_file"`
	Columns         []ColumnConfig `yaml:"columns"`
	CompletedColumn string         `yaml:"completed_column"`
	Defaults        DefaultsConfig `yaml:"defaults"`
	Server          ServerConfig   `yaml:"server"`
	Log             LogConfig      `yaml:"log"`
	TUI             TUIConfig      `yaml:"tui"`

	// dir is the absolute path to the board directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// ColumnConfig declares a column. Its title is the status of the tasks
// it holds.
type ColumnConfig struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	WIPLimit int    `yaml:"wip_limit,omitempty" json:"wip_limit,omitempty"`
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	Column   string `yaml:"column"`
	Priority string `yaml:"priority"`
}

// ServerConfig holds settings of the JSON API server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	TitleLines int `yaml:"title_lines"`
}

// Dir returns the absolute path to the board directory.
func (c *Config) Dir() string {
	return c.dir
}

// BoardPath returns the absolute path to the board file.
func (c *Config) BoardPath() string {
	return filepath.Join(c.dir, c.BoardFile)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:         CurrentVersion,
		Board:           BoardConfig{Name: name},
		BoardFile:       DefaultBoardFile,
		Columns:         append([]ColumnConfig{}, DefaultColumns...),
		CompletedColumn: DefaultCompletedColumn,
		Defaults: DefaultsConfig{
			Column:   DefaultColumn,
			Priority: DefaultPriority,
		},
		Server: ServerConfig{Addr: DefaultServerAddr},
		Log:    LogConfig{Level: DefaultLogLevel},
		TUI:    TUIConfig{TitleLines: DefaultTitleLines},
	}
}

// SetDir sets the board directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	if c.BoardFile == "" {
		return fmt.Errorf("%w: board_file is required", ErrInvalid)
	}
	if err := c.validateColumns(); err != nil {
		return err
	}
	if c.ColumnByTitle(c.CompletedColumn) == nil {
		return fmt.Errorf("%w: completed_column %q not in columns", ErrInvalid, c.CompletedColumn)
	}
	if c.ColumnByID(c.Defaults.Column) == nil {
		return fmt.Errorf("%w: default column %q not in columns", ErrInvalid, c.Defaults.Column)
	}
	if _, err := task.ParsePriority(c.Defaults.Priority); err != nil {
		return fmt.Errorf("%w: default priority: %w", ErrInvalid, err)
	}
	if _, err := log.ParseLevel(c.LogLevel()); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	if c.TUI.TitleLines < 1 || c.TUI.TitleLines > maxTitleLines {
		return fmt.Errorf("%w: tui.title_lines must be between 1 and %d", ErrInvalid, maxTitleLines)
	}
	return nil
}

func (c *Config) validateColumns() error {
	if len(c.Columns) < 2 { //nolint:mnd // minimum 2 columns for a board
		return fmt.Errorf("%w: at least 2 columns are required", ErrInvalid)
	}
	ids := make(map[string]bool, len(c.Columns))
	titles := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		if col.ID == "" || strings.TrimSpace(col.Title) == "" {
			return fmt.Errorf("%w: columns need an id and a title", ErrInvalid)
		}
		if ids[col.ID] {
			return fmt.Errorf("%w: duplicate column id %q", ErrInvalid, col.ID)
		}
		if titles[col.Title] {
			return fmt.Errorf("%w: duplicate column title %q", ErrInvalid, col.Title)
		}
		if col.WIPLimit < 0 {
			return fmt.Errorf("%w: wip_limit for %q must be >= 0", ErrInvalid, col.Title)
		}
		ids[col.ID] = true
		titles[col.Title] = true
	}
	return nil
}

// ColumnByID returns the column with the given id, or nil.
func (c *Config) ColumnByID(id string) *ColumnConfig {
	for i := range c.Columns {
		if c.Columns[i].ID == id {
			return &c.Columns[i]
		}
	}
	return nil
}

// ColumnByTitle returns the column with the given title, or nil.
func (c *Config) ColumnByTitle(title string) *ColumnConfig {
	for i := range c.Columns {
		if c.Columns[i].Title == title {
			return &c.Columns[i]
		}
	}
	return nil
}

// ResolveColumn finds a column by id or, case-insensitively, by title.
func (c *Config) ResolveColumn(ref string) (*ColumnConfig, error) {
	if col := c.ColumnByID(ref); col != nil {
		return col, nil
	}
	for i := range c.Columns {
		if strings.EqualFold(c.Columns[i].Title, ref) {
			return &c.Columns[i], nil
		}
	}
	return nil, clierr.Newf(clierr.ColumnNotFound, "unknown column %q", ref).
		WithDetails(map[string]any{"column": ref, "allowed": c.ColumnTitles()})
}

// ColumnTitles returns the configured column titles in order.
func (c *Config) ColumnTitles() []string {
	titles := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		titles[i] = col.Title
	}
	return titles
}

// WIPLimit returns the WIP limit for a column title, or 0 (unlimited).
func (c *Config) WIPLimit(title string) int {
	if col := c.ColumnByTitle(title); col != nil {
		return col.WIPLimit
	}
	return 0
}

// IsCompleted reports whether title names the completed column.
func (c *Config) IsCompleted(title string) bool {
	return title == c.CompletedColumn
}

// LogLevel returns the configured log level, or the default.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return DefaultLogLevel
	}
	return c.Log.Level
}

// TitleLines returns the number of title lines per TUI card.
func (c *Config) TitleLines() int {
	if c.TUI.TitleLines < 1 {
		return DefaultTitleLines
	}
	return c.TUI.TitleLines
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given board directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a board directory
// containing config.yml. Returns the absolute path to the board directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the board directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no board found (run 'taskboard init' to create one)")
		}
		dir = parent
	}
}
