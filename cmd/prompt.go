package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// stdin is read by interactive prompts. Replaceable in tests.
var stdin io.Reader = os.Stdin

// stdinIsTerminal reports whether prompts can be answered. Replaceable in
// tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
}

// confirm asks a yes/no question on stderr. An empty answer takes def.
func confirm(question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	fmt.Fprintf(os.Stderr, "%s %s ", question, hint)

	answer, err := readLine(stdin)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading input: %w", err)
	}
	switch strings.TrimSpace(strings.ToLower(answer)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLine reads up to the next newline one byte at a time, so later
// prompts still see the rest of the input.
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return sb.String(), nil
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			return sb.String(), err
		}
	}
}
