//go:build windows

package filelock

import (
	"os"

	"golang.org/x/sys/windows"
)

// LockFileEx flag for an exclusive lock.
const exclusiveLock = 0x00000002

func lockFile(f *os.File) error {
	return windows.LockFileEx(windows.Handle(f.Fd()), exclusiveLock, 0, 1, 0, new(windows.Overlapped))
}

func unlockFile(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, new(windows.Overlapped))
}
