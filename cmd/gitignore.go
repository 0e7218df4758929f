package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const gitignoreFileMode = 0o600

// offerGitignore asks whether the board directory should be ignored by
// git and appends it to the sibling .gitignore when accepted.
func offerGitignore(dir string) error {
	path, entry, err := gitignoreTarget(dir)
	if err != nil {
		return err
	}
	ok, err := confirm(fmt.Sprintf("Add %q to .gitignore?", entry), true)
	if err != nil || !ok {
		return err
	}
	return addGitignoreEntry(path, entry)
}

// gitignoreTarget returns the .gitignore next to dir and the entry naming
// dir in it.
func gitignoreTarget(dir string) (path, entry string, err error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", "", fmt.Errorf("resolving path: %w", err)
	}
	base := filepath.Base(abs)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", "", fmt.Errorf("invalid board directory %q", dir)
	}
	return filepath.Join(filepath.Dir(abs), ".gitignore"), base + "/", nil
}

// addGitignoreEntry appends entry unless the file already lists it.
func addGitignoreEntry(path, entry string) error {
	entry = strings.TrimSuffix(strings.TrimSpace(filepath.ToSlash(entry)), "/") + "/"

	contents, err := os.ReadFile(path) //nolint:gosec // path derived from the board directory
	switch {
	case os.IsNotExist(err):
		return os.WriteFile(path, []byte(entry+"\n"), gitignoreFileMode)
	case err != nil:
		return fmt.Errorf("reading .gitignore: %w", err)
	}
	for _, line := range strings.Split(string(contents), "\n") {
		if strings.TrimSpace(line) == entry {
			return nil
		}
	}

	var b strings.Builder
	if len(contents) > 0 && contents[len(contents)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(entry + "\n")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, gitignoreFileMode) //nolint:gosec // path derived from the board directory
	if err != nil {
		return fmt.Errorf("opening .gitignore: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	return nil
}
