package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcherDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "seq.json")
	if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	w := startWatcher(t, file)

	if err := os.WriteFile(file, []byte(`{"id":"x"}`), 0o644); err != nil {
		t.Fatalf("failed to update file: %v", err)
	}

	select {
	case change := <-w.Changes:
		if change.Kind != ChangeModified {
			t.Errorf("expected modified, got %s", change.Kind)
		}
		if change.File != w.File {
			t.Errorf("expected %s, got %s", w.File, change.File)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatcherDetectsRenameReplace(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "seq.json")
	if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	w := startWatcher(t, file)

	tmp := filepath.Join(dir, ".seq-tmp.json")
	if err := os.WriteFile(tmp, []byte(`{"id":"y"}`), 0o644); err != nil {
		t.Fatalf("failed to write temp: %v", err)
	}
	if err := os.Rename(tmp, file); err != nil {
		t.Fatalf("rename: %v", err)
	}

	select {
	case change := <-w.Changes:
		if change.Kind != ChangeModified {
			t.Errorf("expected modified, got %s", change.Kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatcherDetectsRemove(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "seq.json")
	if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	w := startWatcher(t, file)

	if err := os.Remove(file); err != nil {
		t.Fatalf("remove: %v", err)
	}
	select {
	case change := <-w.Changes:
		if change.Kind != ChangeRemoved {
			t.Errorf("expected removed, got %s", change.Kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "seq.json")
	if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	w := startWatcher(t, file)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("failed to create sibling: %v", err)
	}
	select {
	case change := <-w.Changes:
		t.Errorf("unexpected change: %+v", change)
	case <-time.After(300 * time.Millisecond):
	}
}
