package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/antopolskiy/taskboard/internal/watcher"
)

func TestWatcherCallsBackOnWrite(t *testing.T) {
	dir := t.TempDir()

	called := make(chan struct{}, 1)
	w, err := watcher.New([]string{dir}, func() {
		select {
		case called <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "board.yml"), []byte("columns: []\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("callback not called after write")
	}
}

func TestWatcherCancelWithPendingDebounce(t *testing.T) {
	dir := t.TempDir()

	var called atomic.Int32
	w, err := watcher.New([]string{dir}, func() { called.Add(1) })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, nil)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "board.yml"), []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel with pending debounce")
	}
}

func TestWatcherNewWithInvalidPath(t *testing.T) {
	_, err := watcher.New([]string{t.TempDir(), "/nonexistent/path"}, func() {})
	if err == nil {
		t.Fatal("expected error when one path is invalid")
	}
}

func TestWatcherCloseStopsRun(t *testing.T) {
	w, err := watcher.New([]string{t.TempDir()}, func() {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Run(context.Background(), nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}
