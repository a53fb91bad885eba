package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type changeRecorder struct {
	mu    sync.Mutex
	paths []string
	ch    chan string
}

func newChangeRecorder() *changeRecorder {
	return &changeRecorder{ch: make(chan string, 16)}
}

func (r *changeRecorder) handle(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.ch <- path
}

func (r *changeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

func (r *changeRecorder) wait(t *testing.T) string {
	t.Helper()
	select {
	case p := <-r.ch:
		return p
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change")
		return ""
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.toml")
	writeFile(t, path, `name = "A"`)

	rec := newChangeRecorder()
	w, err := NewWatcher(rec.handle, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	writeFile(t, path, `name = "B"`)

	got := rec.wait(t)
	abs, _ := filepath.Abs(path)
	if got != abs {
		t.Errorf("changed path = %q, want %q", got, abs)
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.toml")
	writeFile(t, path, `name = "A"`)

	rec := newChangeRecorder()
	w, err := NewWatcher(rec.handle, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	writeFile(t, filepath.Join(dir, "other.toml"), `x = 1`)
	time.Sleep(200 * time.Millisecond)

	if rec.count() != 0 {
		t.Errorf("sibling change reported %d times", rec.count())
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	writeFile(t, path, "name: A\n")

	rec := newChangeRecorder()
	w, err := NewWatcher(rec.handle, WithDebounce(150*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		writeFile(t, path, "name: B\n")
	}

	rec.wait(t)
	time.Sleep(300 * time.Millisecond)
	if rec.count() != 1 {
		t.Errorf("burst reported %d times, want 1", rec.count())
	}
}

func TestWatcherCreateAfterWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "later.lua")

	rec := newChangeRecorder()
	w, err := NewWatcher(rec.handle, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() of a missing file failed: %v", err)
	}
	writeFile(t, path, "return {}")
	rec.wait(t)
}

func TestWatcherUnwatchAndClose(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")

	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	for _, p := range []string{a, b, a} {
		if err := w.Watch(p); err != nil {
			t.Fatalf("Watch(%s) failed: %v", p, err)
		}
	}
	if len(w.Files()) != 2 {
		t.Errorf("Files() = %v, want 2 entries", w.Files())
	}
	if err := w.Unwatch(a); err != nil {
		t.Fatalf("Unwatch() failed: %v", err)
	}
	if len(w.Files()) != 1 {
		t.Errorf("Files() = %v after Unwatch, want 1 entry", w.Files())
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := w.Close(); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("second Close() = %v, want ErrWatcherClosed", err)
	}
	if err := w.Watch(a); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch() after Close = %v, want ErrWatcherClosed", err)
	}
}
