package board

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/antopolskiy/taskboard/internal/task"
)

// LogFileName is the activity log inside the board directory.
const LogFileName = "activity.jsonl"

const (
	maxLogEntries = 1000
	logFileMode   = 0o600
)

// Activity log actions.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionMove   = "move"
	ActionDelete = "delete"
)

// LogEntry is one line of the activity log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    string    `json:"task_id"`
	Detail    string    `json:"detail"`
}

// LogFilterOptions selects log entries.
type LogFilterOptions struct {
	Since  time.Time
	Action string
	TaskID string // full id or id suffix
	Limit  int // keep the newest Limit entries
}

// AppendLog appends an entry to the activity log in dir. The log keeps
// the newest maxLogEntries entries.
func AppendLog(dir string, entry LogEntry) error {
	line, err := sonic.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding log entry: %w", err)
	}
	path := filepath.Join(dir, LogFileName)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // board dir path
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing activity log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing activity log: %w", err)
	}
	return truncateLog(path)
}

func truncateLog(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // board dir path
	if err != nil {
		return fmt.Errorf("reading activity log: %w", err)
	}
	lines := bytes.Split(bytes.TrimRight(data, "\n"), []byte("\n"))
	if len(lines) <= maxLogEntries {
		return nil
	}
	kept := bytes.Join(lines[len(lines)-maxLogEntries:], []byte("\n"))
	return os.WriteFile(path, append(kept, '\n'), logFileMode)
}

// ReadLog returns the entries of the activity log in dir that match
// opts, oldest first. A missing log yields no entries.
func ReadLog(dir string, opts LogFilterOptions) ([]LogEntry, error) {
	f, err := os.Open(filepath.Join(dir, LogFileName)) //nolint:gosec // board dir path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	var entries []LogEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var e LogEntry
		if err := sonic.Unmarshal(line, &e); err != nil {
			continue // skip malformed lines
		}
		if matchesLogFilter(e, opts) {
			entries = append(entries, e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[len(entries)-opts.Limit:]
	}
	return entries, nil
}

func matchesLogFilter(e LogEntry, opts LogFilterOptions) bool {
	if !opts.Since.IsZero() && e.Timestamp.Before(opts.Since) {
		return false
	}
	if opts.Action != "" && e.Action != opts.Action {
		return false
	}
	if opts.TaskID != "" && !strings.HasSuffix(e.TaskID, opts.TaskID) {
		return false
	}
	return true
}

// ActivityListener records every mutation in the activity log and logs
// it at debug level. Entries are held until Commit, so a mutation whose
// board save fails never reaches the log. Log write failures are logged,
// never returned.
type ActivityListener struct {
	Dir    string
	Logger *log.Logger
	Now    func() time.Time

	mu      sync.Mutex
	pending []LogEntry
}

// NewActivityListener returns a listener writing to the log in dir.
func NewActivityListener(dir string, logger *log.Logger) *ActivityListener {
	return &ActivityListener{Dir: dir, Logger: logger, Now: time.Now}
}

// TaskAdded implements Listener.
func (l *ActivityListener) TaskAdded(columnID string, t *task.Task) {
	l.record(ActionAdd, t, t.Title, log.Fields{"column": columnID})
}

// TaskUpdated implements Listener.
func (l *ActivityListener) TaskUpdated(t *task.Task) {
	l.record(ActionUpdate, t, t.Title, nil)
}

// TaskMoved implements Listener.
func (l *ActivityListener) TaskMoved(t *task.Task, from, to string) {
	l.record(ActionMove, t, from+" -> "+to, log.Fields{"from": from, "to": to})
}

// TaskDeleted implements Listener.
func (l *ActivityListener) TaskDeleted(t *task.Task) {
	l.record(ActionDelete, t, t.Title, nil)
}

// Commit appends the pending entries to the activity log.
func (l *ActivityListener) Commit() {
	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, e := range pending {
		if err := AppendLog(l.Dir, e); err != nil {
			l.logger().WithError(err).WithFields(log.Fields{"action": e.Action, "task_id": e.TaskID}).
				Warn("activity log write failed")
		}
	}
}

// Discard drops the pending entries.
func (l *ActivityListener) Discard() {
	l.mu.Lock()
	l.pending = nil
	l.mu.Unlock()
}

func (l *ActivityListener) record(action string, t *task.Task, detail string, fields log.Fields) {
	entry := log.NewEntry(l.logger()).WithFields(log.Fields{"action": action, "task_id": t.ID})
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Debug("board mutation")

	if l.Dir == "" {
		return
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	l.mu.Lock()
	l.pending = append(l.pending, LogEntry{Timestamp: now().UTC(), Action: action, TaskID: t.ID, Detail: detail})
	l.mu.Unlock()
}

func (l *ActivityListener) logger() *log.Logger {
	if l.Logger == nil {
		return log.StandardLogger()
	}
	return l.Logger
}
