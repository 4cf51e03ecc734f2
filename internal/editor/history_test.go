package editor

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

func TestHistoryCap(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 60; i++ {
		s.SetTitle(fmt.Sprintf("title %d", i))
	}
	if got := s.History().Len(); got != DefaultHistoryLimit {
		t.Fatalf("expected %d history entries, got %d", DefaultHistoryLimit, got)
	}

	undos := 0
	for s.Undo() {
		undos++
		if undos > 100 {
			t.Fatal("undo never reached the boundary")
		}
	}
	if undos != DefaultHistoryLimit-1 {
		t.Errorf("expected %d effective undos, got %d", DefaultHistoryLimit-1, undos)
	}
	if got := s.History().Len(); got != DefaultHistoryLimit {
		t.Errorf("expected history to stay at %d entries, got %d", DefaultHistoryLimit, got)
	}
	if got := s.Sequence().Title; got != "title 10" {
		t.Errorf("expected oldest reachable title 'title 10', got %q", got)
	}
}

func TestUndoRedoBoundaries(t *testing.T) {
	s := newTestStore()
	if s.Undo() || s.Redo() {
		t.Error("expected undo and redo to be no-ops on a fresh store")
	}

	s.SetTitle("one")
	if !s.History().CanUndo() || s.History().CanRedo() {
		t.Error("expected only undo available after one mutation")
	}
	if !s.Undo() {
		t.Fatal("expected undo to apply")
	}
	if s.Sequence().Title != sequence.DefaultTitle {
		t.Errorf("expected default title after undo, got %q", s.Sequence().Title)
	}
	if s.Undo() {
		t.Error("expected second undo to be a no-op")
	}
	if !s.Redo() || s.Sequence().Title != "one" {
		t.Errorf("expected redo to restore 'one', got %q", s.Sequence().Title)
	}
	if s.Redo() {
		t.Error("expected redo at the end to be a no-op")
	}
}

func TestMutationAfterUndoDropsRedo(t *testing.T) {
	s := newTestStore()
	s.SetTitle("a")
	s.SetTitle("b")
	s.Undo()
	s.SetTitle("c")

	if s.History().CanRedo() || s.Redo() {
		t.Error("expected redo branch to be discarded")
	}
	s.Undo()
	if got := s.Sequence().Title; got != "a" {
		t.Errorf("expected 'a' before the branch, got %q", got)
	}
}

func TestHistoryLimitOption(t *testing.T) {
	s := NewStore(nil, 5)
	for i := 0; i < 8; i++ {
		s.SetTitle(fmt.Sprintf("t%d", i))
	}
	if s.History().Len() != 5 || s.History().Limit() != 5 {
		t.Errorf("expected 5 entries with limit 5, got %d/%d", s.History().Len(), s.History().Limit())
	}
}

// applyRandomOp performs one history-recorded mutation chosen by rapid.
func applyRandomOp(t *rapid.T, s *Store) {
	var ids []string
	var containers []string
	for _, area := range sequence.Areas {
		sequence.Walk(s.seq.Items(area), func(it *sequence.Item) bool {
			ids = append(ids, it.ID)
			if it.IsContainer() {
				containers = append(containers, it.ID)
			}
			return true
		})
	}
	area := rapid.SampledFrom(sequence.Areas).Draw(t, "area")

	op := rapid.IntRange(0, 7).Draw(t, "op")
	if len(ids) == 0 && op > 1 {
		op = op % 2
	}
	switch op {
	case 0:
		s.AddItem(area, newContainer("C"), "", rapid.IntRange(-1, 3).Draw(t, "index"))
	case 1:
		s.AddItem(area, newLeaf("L"), "", End)
	case 2:
		if len(containers) == 0 {
			s.AddItem(area, newContainer("C"), "", End)
			return
		}
		parent := rapid.SampledFrom(containers).Draw(t, "parent")
		s.AddItem(s.AreaOf(parent), newLeaf("child"), parent, rapid.IntRange(-1, 2).Draw(t, "index"))
	case 3:
		s.DeleteItem(rapid.SampledFrom(ids).Draw(t, "delete"))
	case 4:
		s.MoveItem(rapid.SampledFrom(ids).Draw(t, "move"), area, "", rapid.IntRange(-1, 3).Draw(t, "index"))
	case 5:
		s.DuplicateItem(rapid.SampledFrom(ids).Draw(t, "duplicate"))
	case 6:
		name := rapid.StringN(1, 8, 8).Draw(t, "name")
		s.UpdateItem(rapid.SampledFrom(ids).Draw(t, "update"), ItemPatch{Name: &name})
	case 7:
		if len(containers) == 0 {
			s.AddGlobalTrigger(&sequence.Trigger{Type: "MeridianFlip"})
			return
		}
		s.AddCondition(rapid.SampledFrom(containers).Draw(t, "container"), &sequence.Condition{Type: "Loop"})
	}
}

func TestUndoRedoSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := newTestStore()
		seed := rapid.IntRange(0, 3).Draw(t, "seed")
		for i := 0; i < seed; i++ {
			s.AddItem(sequence.AreaTarget, newContainer("seed"), "", End)
		}
		s.history.reset()

		initial := s.Sequence()
		n := rapid.IntRange(1, DefaultHistoryLimit-1).Draw(t, "ops")
		for i := 0; i < n; i++ {
			applyRandomOp(t, s)
		}
		final := s.Sequence()

		for i := 0; i < n; i++ {
			if !s.Undo() {
				t.Fatalf("undo %d of %d was a no-op", i+1, n)
			}
		}
		if diff := cmp.Diff(initial, s.Sequence()); diff != "" {
			t.Fatalf("undo did not restore the initial state:\n%s", diff)
		}
		if s.Undo() {
			t.Fatalf("expected undo past the first snapshot to be a no-op")
		}

		for i := 0; i < n; i++ {
			if !s.Redo() {
				t.Fatalf("redo %d of %d was a no-op", i+1, n)
			}
		}
		if diff := cmp.Diff(final, s.Sequence()); diff != "" {
			t.Fatalf("redo did not restore the final state:\n%s", diff)
		}
	})
}

func TestDuplicateFreshIDsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := newTestStore()
		for i := rapid.IntRange(1, 15).Draw(t, "ops"); i > 0; i-- {
			applyRandomOp(t, s)
		}
		ids := sequence.ItemIDs(s.seq.Items(sequence.AreaStart))
		ids = append(ids, sequence.ItemIDs(s.seq.Items(sequence.AreaTarget))...)
		ids = append(ids, sequence.ItemIDs(s.seq.Items(sequence.AreaEnd))...)
		if len(ids) == 0 {
			return
		}
		src := s.GetItemByID(rapid.SampledFrom(ids).Draw(t, "item"))

		dup := s.GetItemByID(s.DuplicateItem(src.ID))
		if dup.Name != src.Name+" (Copy)" {
			t.Fatalf("expected %q, got %q", src.Name+" (Copy)", dup.Name)
		}
		dup.Name = src.Name
		if diff := cmp.Diff(src, dup, ignoreIDs); diff != "" {
			t.Fatalf("duplicate differs beyond ids and name:\n%s", diff)
		}
		orig := sequence.CollectSubtree(src)
		copied := sequence.CollectSubtree(dup)
		for _, set := range []map[string]struct{}{copied.Items, copied.Conditions, copied.Triggers} {
			for id := range set {
				if orig.Has(id) {
					t.Fatalf("duplicate reused id %s", id)
				}
			}
		}
		if res := sequence.Validate(s.Sequence()); !res.Valid {
			t.Fatalf("sequence invalid after duplicate: %v", res.Errors)
		}
	})
}

func TestDeleteCascadeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := newTestStore()
		for i := rapid.IntRange(1, 20).Draw(t, "ops"); i > 0; i-- {
			applyRandomOp(t, s)
		}
		var ids []string
		for _, area := range sequence.Areas {
			ids = append(ids, sequence.ItemIDs(s.seq.Items(area))...)
		}
		if len(ids) == 0 {
			return
		}
		victim := rapid.SampledFrom(ids).Draw(t, "victim")
		removed := sequence.CollectSubtree(s.GetItemByID(victim))
		s.SelectItem(victim)

		if !s.DeleteItem(victim) {
			t.Fatalf("delete of existing item %s failed", victim)
		}
		for id := range removed.Items {
			if s.GetItemByID(id) != nil {
				t.Fatalf("descendant %s survived delete", id)
			}
		}
		for id := range removed.Conditions {
			if s.seq.FindContainerOf(id) != nil {
				t.Fatalf("condition %s survived delete", id)
			}
		}
		if sel := s.Selection(); sel.ItemID != "" || len(sel.ItemIDs) != 0 {
			t.Fatalf("selection not cleared: %+v", sel)
		}
	})
}
