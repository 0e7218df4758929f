// Package config handles taskboard configuration.
package config

// Default values for a new board.
var (
	DefaultDir       = ".taskboard"
	DefaultBoardFile = "board.yml"

	DefaultColumns = []ColumnConfig{
		{ID: "todo", Title: "To Do"},
		{ID: "in-progress", Title: "In Progress"},
		{ID: "blocked", Title: "Blocked"},
		{ID: "completed", Title: "Completed"},
	}

	DefaultCompletedColumn = "Completed"
	DefaultColumn          = "todo"
	DefaultPriority        = "Medium"
	DefaultServerAddr      = "127.0.0.1:8080"
	DefaultLogLevel        = "info"
	DefaultTitleLines      = 1
)

const (
	// ConfigFileName is the name of the config file within the board directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3

	maxTitleLines = 3
)
