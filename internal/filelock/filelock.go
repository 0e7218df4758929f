// Package filelock serializes writers of the board file across processes
// with an advisory lock on a sidecar file.
package filelock

import (
	"fmt"
	"os"
)

const lockFileMode = 0o600

// Lock acquires an exclusive lock on path, creating the file if needed.
// It blocks until the lock is held. The returned func releases the lock
// and closes the file.
func Lock(path string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock path built by the store
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	return func() error {
		uerr := unlockFile(f)
		cerr := f.Close()
		if uerr != nil {
			return fmt.Errorf("releasing lock: %w", uerr)
		}
		return cerr
	}, nil
}
