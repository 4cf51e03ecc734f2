package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/AaronLay10/nina-sequence-editor/internal/catalog"
	"github.com/AaronLay10/nina-sequence-editor/internal/editor"
	"github.com/AaronLay10/nina-sequence-editor/internal/events"
	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
	"github.com/AaronLay10/nina-sequence-editor/internal/storage/sqlite"
)

func newTestSession(t *testing.T, withRepo bool) *Session {
	t.Helper()
	store := editor.NewStore(catalog.Builtin(), 0)
	if !withRepo {
		return New(store, nil)
	}
	repo, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "seq.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return New(store, repo)
}

func addExposure(s *Session) string {
	var id string
	s.Do(func(st *editor.Store) {
		id = st.AddItemOfType(sequence.AreaTarget, catalog.TypeTakeExposure, "", editor.End)
	})
	return id
}

func TestSaveWithoutTarget(t *testing.T) {
	s := newTestSession(t, false)
	if err := s.Save(context.Background()); !errors.Is(err, ErrNoTarget) {
		t.Errorf("expected ErrNoTarget, got %v", err)
	}
}

func TestSaveClearsDirtyAndLoadRestores(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, true)
	addExposure(s)
	if !s.Dirty() {
		t.Fatal("expected dirty after mutation")
	}
	saved := s.Sequence()

	if err := s.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.Dirty() {
		t.Error("expected clean after save")
	}

	s.Do(func(st *editor.Store) { st.NewSequence("scratch") })
	if err := s.Load(ctx, saved.ID); err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(saved, s.Sequence()); diff != "" {
		t.Errorf("loaded sequence differs:\n%s", diff)
	}

	list, err := s.List(ctx)
	if err != nil || len(list) != 1 || list[0].Items != 1 {
		t.Errorf("expected one stored sequence with one item, got %+v (%v)", list, err)
	}
}

func TestRestoreLatest(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, true)
	if ok, err := s.Restore(ctx, nil); ok || err != nil {
		t.Errorf("expected nothing to restore from empty store, got %v / %v", ok, err)
	}

	addExposure(s)
	want := s.Sequence()
	if err := s.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Do(func(st *editor.Store) { st.NewSequence("other") })

	ok, err := s.Restore(ctx, &RestoredState{SequenceID: "gone"})
	if err != nil || !ok {
		t.Fatalf("expected fallback restore, got %v / %v", ok, err)
	}
	if got := s.Sequence().ID; got != want.ID {
		t.Errorf("expected restored id %s, got %s", want.ID, got)
	}
}

func TestRestoreFromEventsNilClient(t *testing.T) {
	state, count, err := RestoreFromEvents(context.Background(), nil, 100)
	if err != nil || state != nil || count != 0 {
		t.Errorf("expected nil state with nil client, got %+v %d %v", state, count, err)
	}
}

func TestFileOpenSaveReload(t *testing.T) {
	s := newTestSession(t, false)
	path := filepath.Join(t.TempDir(), "seq.json")
	orig := sequence.New("From file")
	if err := sequence.SaveFile(path, orig); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := s.OpenFile(path); err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Path() != path || s.Sequence().Title != "From file" {
		t.Fatalf("expected file opened, got %q / %q", s.Path(), s.Sequence().Title)
	}

	addExposure(s)
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	onDisk, err := sequence.LoadFile(path)
	if err != nil || len(onDisk.TargetItems) != 1 {
		t.Fatalf("expected saved file with one item, got %v", err)
	}

	// Reloading our own write is a no-op and keeps history.
	if err := s.ReloadFile(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	var canUndo bool
	s.Do(func(st *editor.Store) { canUndo = st.History().CanUndo() })
	if !canUndo {
		t.Error("expected history kept when file content is unchanged")
	}

	onDisk.Title = "Edited elsewhere"
	if err := sequence.SaveFile(path, onDisk); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := s.ReloadFile(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	s.Do(func(st *editor.Store) { canUndo = st.History().CanUndo() })
	if s.Sequence().Title != "Edited elsewhere" || canUndo {
		t.Errorf("expected external edit loaded with history cleared")
	}
}

func openTempFile(t *testing.T, s *Session) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seq.json")
	if err := sequence.SaveFile(path, sequence.New("From file")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := s.OpenFile(path); err != nil {
		t.Fatalf("open: %v", err)
	}
	return path
}

func TestReloadOfOwnWriteKeepsLaterEdits(t *testing.T) {
	s := newTestSession(t, false)
	openTempFile(t, s)

	addExposure(s)
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := addExposure(s)

	// The watcher reports our own save after the next edit.
	if err := s.ReloadFile(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	seq := s.Sequence()
	if len(seq.TargetItems) != 2 || seq.TargetItems[1].ID != second {
		t.Fatalf("expected unsaved second item kept, got %d items", len(seq.TargetItems))
	}
	if !s.Dirty() {
		t.Error("expected session still dirty")
	}
}

func TestReloadConflictKeepsUnsavedEdits(t *testing.T) {
	s := newTestSession(t, false)
	path := openTempFile(t, s)
	addExposure(s)

	external := sequence.New("Edited elsewhere")
	if err := sequence.SaveFile(path, external); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	mark := events.TotalCount()
	if err := s.ReloadFile(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	seq := s.Sequence()
	if seq.Title != "From file" || len(seq.TargetItems) != 1 {
		t.Errorf("expected unsaved edits kept, got %q with %d items", seq.Title, len(seq.TargetItems))
	}

	evs, _ := events.Since(mark)
	var warned bool
	for _, e := range evs {
		if e.Name == "editor.warning" && e.Fields["op"] == "reloadFile" {
			warned = true
		}
	}
	if !warned {
		t.Error("expected editor.warning for the reload conflict")
	}

	// Saving resolves the conflict in favour of the editor.
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	onDisk, err := sequence.LoadFile(path)
	if err != nil || onDisk.Title != "From file" {
		t.Errorf("expected editor content on disk after save, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	s := newTestSession(t, false)
	if err := s.OpenFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if err := s.ReloadFile(); err == nil {
		t.Error("expected error when no file is open")
	}
}

func TestAutosave(t *testing.T) {
	s := newTestSession(t, false)
	path := filepath.Join(t.TempDir(), "auto.json")
	if err := sequence.SaveFile(path, sequence.New("auto")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := s.OpenFile(path); err != nil {
		t.Fatalf("open: %v", err)
	}

	if s.autosave(context.Background()) {
		t.Error("expected clean session to skip autosave")
	}
	addExposure(s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.RunAutosave(ctx, 10*time.Millisecond) }()

	deadline := time.Now().Add(2 * time.Second)
	for s.Dirty() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if s.Dirty() {
		t.Fatal("expected autosave to clear the dirty flag")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected autosaved file: %v", err)
	}
}
