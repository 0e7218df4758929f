// Package store reads and writes the board file. Writes hold an exclusive
// file lock and replace the file atomically.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"go.yaml.in/yaml/v3"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/filelock"
)

const fileMode = 0o600

// Store binds a board file to its config.
type Store struct {
	cfg    *config.Config
	logger *log.Logger
	opts   []board.Option
}

// New returns a store for the board file named by cfg. opts are applied
// to every board the store loads or creates.
func New(cfg *config.Config, logger *log.Logger, opts ...board.Option) *Store {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Store{cfg: cfg, logger: logger, opts: opts}
}

// Config returns the board config the store was opened with.
func (s *Store) Config() *config.Config {
	return s.cfg
}

// Path returns the absolute path of the board file.
func (s *Store) Path() string {
	return s.cfg.BoardPath()
}

func (s *Store) lockPath() string {
	return s.Path() + ".lock"
}

func (s *Store) boardOptions() []board.Option {
	opts := []board.Option{board.WithCompletedTitle(s.cfg.CompletedColumn)}
	return append(opts, s.opts...)
}

// Init writes an empty board with the configured columns. It refuses to
// overwrite an existing board file.
func (s *Store) Init() (*board.Board, error) {
	if _, err := os.Stat(s.Path()); err == nil {
		return nil, clierr.Newf(clierr.BoardExists, "board file already exists: %s", s.Path())
	}
	columns := make([]*board.Column, len(s.cfg.Columns))
	for i, c := range s.cfg.Columns {
		columns[i] = &board.Column{ID: c.ID, Title: c.Title}
	}
	b := board.New(columns, s.boardOptions()...)
	if err := s.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Load reads, validates and repairs the board file.
func (s *Store) Load() (*board.Board, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, clierr.Newf(clierr.BoardNotFound, "board file not found: %s", s.Path())
		}
		return nil, fmt.Errorf("reading board: %w", err)
	}
	return s.decode(data)
}

func (s *Store) decode(data []byte) (*board.Board, error) {
	if err := Validate(filepath.Base(s.Path()), data); err != nil {
		return nil, err
	}

	var b board.Board
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, clierr.Newf(clierr.InvalidInput, "parsing board: %v", err)
	}
	b.Configure(s.boardOptions()...)

	report := board.EnsureConsistency(&b)
	for _, w := range report.Warnings {
		s.logger.WithField("file", s.Path()).Warn(w)
	}
	for _, r := range report.Repairs {
		s.logger.WithField("file", s.Path()).Info(r)
	}
	s.addMissingColumns(&b)
	return &b, nil
}

// addMissingColumns appends configured columns the file does not have,
// so a column added to config.yml shows up on the next load.
func (s *Store) addMissingColumns(b *board.Board) {
	for _, c := range s.cfg.Columns {
		if _, err := b.Column(c.ID); err == nil {
			continue
		}
		b.Columns = append(b.Columns, &board.Column{ID: c.ID, Title: c.Title})
		s.logger.WithField("column", c.ID).Debug("added configured column missing from board file")
	}
}

// Save writes the board under the file lock.
func (s *Store) Save(b *board.Board) error {
	unlock, err := filelock.Lock(s.lockPath())
	if err != nil {
		return err
	}
	defer func() { _ = unlock() }()
	return s.write(b)
}

// Update loads the board, applies fn and saves the result, all under the
// file lock. Nothing is written when fn fails.
func (s *Store) Update(fn func(*board.Board) error) (*board.Board, error) {
	unlock, err := filelock.Lock(s.lockPath())
	if err != nil {
		return nil, err
	}
	defer func() { _ = unlock() }()

	b, err := s.Load()
	if err != nil {
		return nil, err
	}
	if err := fn(b); err != nil {
		b.Discard()
		return nil, err
	}
	if err := s.write(b); err != nil {
		b.Discard()
		return nil, err
	}
	b.Commit()
	return b, nil
}

func (s *Store) write(b *board.Board) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshaling board: %w", err)
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return fmt.Errorf("writing board: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing board: %w", err)
	}
	s.logger.WithFields(log.Fields{"file": s.Path(), "tasks": b.TaskCount()}).Debug("board saved")
	return nil
}

// CheckResult is the outcome of Check.
type CheckResult struct {
	SchemaProblems []string `json:"schema_problems"`
	Warnings       []string `json:"warnings"`
	Repairs        []string `json:"repairs"`
}

// Valid reports whether the file matched the schema.
func (r CheckResult) Valid() bool {
	return len(r.SchemaProblems) == 0
}

// Check validates the board file without modifying it. Schema problems
// and consistency findings are reported, not returned as errors.
func (s *Store) Check() (CheckResult, error) {
	var res CheckResult
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return res, clierr.Newf(clierr.BoardNotFound, "board file not found: %s", s.Path())
		}
		return res, fmt.Errorf("reading board: %w", err)
	}

	res.SchemaProblems, err = schemaProblems(filepath.Base(s.Path()), data)
	if err != nil || !res.Valid() {
		return res, err
	}

	var b board.Board
	if err := yaml.Unmarshal(data, &b); err != nil {
		return res, clierr.Newf(clierr.InvalidInput, "parsing board: %v", err)
	}
	b.Configure(s.boardOptions()...)
	report := board.EnsureConsistency(&b)
	res.Warnings = report.Warnings
	res.Repairs = report.Repairs
	return res, nil
}
