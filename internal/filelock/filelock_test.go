package filelock_test

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/antopolskiy/taskboard/internal/filelock"
)

func TestLockCreatesFileAndReleases(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "board.yml.lock")

	unlock, err := filelock.Lock(lockPath)
	if err != nil {
		t.Fatalf("Lock() error: %v", err)
	}
	if _, err := os.Stat(lockPath); err != nil {
		t.Errorf("lock file not created: %v", err)
	}
	if err := unlock(); err != nil {
		t.Fatalf("unlock() error: %v", err)
	}

	// Reacquire after release.
	unlock, err = filelock.Lock(lockPath)
	if err != nil {
		t.Fatalf("second Lock() error: %v", err)
	}
	_ = unlock()
}

func TestLockMissingDir(t *testing.T) {
	_, err := filelock.Lock(filepath.Join(t.TempDir(), "missing", ".lock"))
	if err == nil {
		t.Error("Lock() in a missing directory: expected error")
	}
}

func TestLockSerializesHolders(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), ".lock")

	const goroutines = 10
	var inside, maxInside int64
	var wg sync.WaitGroup

	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()

			unlock, err := filelock.Lock(lockPath)
			if err != nil {
				t.Errorf("Lock() error: %v", err)
				return
			}

			cur := atomic.AddInt64(&inside, 1)
			for {
				old := atomic.LoadInt64(&maxInside)
				if cur <= old || atomic.CompareAndSwapInt64(&maxInside, old, cur) {
					break
				}
			}
			atomic.AddInt64(&inside, -1)

			if err := unlock(); err != nil {
				t.Errorf("unlock() error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&maxInside); got != 1 {
		t.Errorf("max concurrent holders = %d, want 1", got)
	}
}
