package config

import "fmt"

// migrate upgrades a config from its current version to CurrentVersion.
// Each migration function transforms the config one version forward.
// Returns nil if no migration is needed (already at current version).
// Returns an error if the config version is newer than what this binary supports.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade taskboard)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}

	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment cfg.Version after a successful migration.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
	2: migrateV2ToV3,
}

// migrateV1ToV2 adds completed_column and defaults. Version 1 boards
// treated their last column as the completed one.
func migrateV1ToV2(cfg *Config) error {
	if len(cfg.Columns) == 0 {
		return fmt.Errorf("%w: version 1 config has no columns", ErrInvalid)
	}
	if cfg.CompletedColumn == "" {
		cfg.CompletedColumn = cfg.Columns[len(cfg.Columns)-1].Title
	}
	if cfg.Defaults.Column == "" {
		cfg.Defaults.Column = cfg.Columns[0].ID
	}
	if cfg.Defaults.Priority == "" {
		cfg.Defaults.Priority = DefaultPriority
	}
	cfg.Version = 2
	return nil
}

// migrateV2ToV3 adds the server, log and tui sections.
func migrateV2ToV3(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.TUI.TitleLines == 0 {
		cfg.TUI.TitleLines = DefaultTitleLines
	}
	cfg.Version = 3
	return nil
}
