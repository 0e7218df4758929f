// Package output handles formatting CLI output as table, compact text or JSON.
package output

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Format represents an output format.
type Format int

const (
	// FormatAuto defers to the environment.
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one line per record.
	FormatCompact
)

// EnvOutput overrides the default format when no flag is given.
const EnvOutput = "TASKBOARD_OUTPUT"

// isTerminalFn checks whether stdout is a terminal. Replaceable in tests.
var isTerminalFn = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int
}

// Detect returns the format selected by flags, then TASKBOARD_OUTPUT,
// defaulting to a table. JSON wins over the other flags.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case tableFlag:
		return FormatTable
	case compactFlag:
		return FormatCompact
	}

	switch os.Getenv(EnvOutput) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	case "compact", "oneline":
		return FormatCompact
	}
	return FormatTable
}

// ColorEnabled reports whether styled output should be produced: stdout is
// a terminal and NO_COLOR is unset.
func ColorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isTerminalFn()
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
