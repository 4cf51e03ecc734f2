package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

var ignoreIDs = cmp.FilterPath(func(p cmp.Path) bool {
	return p.Last().String() == ".ID"
}, cmp.Ignore())

func TestPasteTwiceProducesFreshIDs(t *testing.T) {
	s := newTestStore()
	c := newContainer("C")
	c.Items = append(c.Items, newLeaf("E"))
	c.Conditions = append(c.Conditions, &sequence.Condition{ID: sequence.NewID(), Type: "Loop"})
	s.AddItem(sequence.AreaTarget, c, "", End)
	original := s.GetItemByID(c.ID)

	s.SelectItem(c.ID)
	if n := s.CopySelectedItems(); n != 1 {
		t.Fatalf("expected 1 copied item, got %d", n)
	}

	first := s.PasteItems("")
	second := s.PasteItems("")
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one pasted root per paste, got %v and %v", first, second)
	}

	a := s.GetItemByID(first[0])
	b := s.GetItemByID(second[0])
	if diff := cmp.Diff(a, b, ignoreIDs); diff != "" {
		t.Errorf("pasted trees differ beyond ids:\n%s", diff)
	}
	if diff := cmp.Diff(original, a, ignoreIDs); diff != "" {
		t.Errorf("paste differs from source beyond ids:\n%s", diff)
	}

	seen := make(map[string]bool)
	for _, root := range []*sequence.Item{original, a, b} {
		st := sequence.CollectSubtree(root)
		for _, ids := range []map[string]struct{}{st.Items, st.Conditions, st.Triggers} {
			for id := range ids {
				if seen[id] {
					t.Errorf("id %s appears in more than one tree", id)
				}
				seen[id] = true
			}
		}
	}

	if diff := cmp.Diff(original, s.GetItemByID(c.ID)); diff != "" {
		t.Errorf("source item was modified:\n%s", diff)
	}
	if diff := cmp.Diff(second, s.Selection().ItemIDs); diff != "" {
		t.Errorf("expected pasted ids selected (-want +got):\n%s", diff)
	}
}

func TestPasteIntoActiveAreaAndParent(t *testing.T) {
	s := newTestStore()
	e := newLeaf("E")
	target := newContainer("Target")
	s.AddItem(sequence.AreaTarget, e, "", End)
	s.AddItem(sequence.AreaTarget, target, "", End)
	s.SelectItem(e.ID)
	s.CopySelectedItems()

	s.SetActiveArea(sequence.AreaEnd)
	ids := s.PasteItems("")
	if s.AreaOf(ids[0]) != sequence.AreaEnd {
		t.Errorf("expected paste into active area end, got %s", s.AreaOf(ids[0]))
	}

	ids = s.PasteItems(target.ID)
	if got := s.GetItemByID(target.ID).Items; len(got) != 1 || got[0].ID != ids[0] {
		t.Errorf("expected paste into container, got %v", sequence.ItemIDs(got))
	}

	if s.PasteItems(e.ID) != nil {
		t.Error("expected paste into leaf to fail")
	}
}

func TestPasteWithEmptyClipboard(t *testing.T) {
	s := newTestStore()
	n := s.History().Len()
	if ids := s.PasteItems(""); ids != nil {
		t.Errorf("expected nothing pasted, got %v", ids)
	}
	if s.History().Len() != n {
		t.Error("expected no history entry for empty paste")
	}
}

func TestCutDeletesUnderOneSnapshot(t *testing.T) {
	s := newTestStore()
	a := newLeaf("A")
	b := newLeaf("B")
	s.AddItem(sequence.AreaTarget, a, "", End)
	s.AddItem(sequence.AreaTarget, b, "", End)
	before := s.Sequence()

	s.SelectAllItems()
	if n := s.CutSelectedItems(); n != 2 {
		t.Fatalf("expected 2 cut items, got %d", n)
	}
	if s.Stats().TotalItems != 0 {
		t.Errorf("expected items removed, got %d", s.Stats().TotalItems)
	}
	if clip := s.Clipboard(); clip == nil || clip.Mode != ClipboardCut || len(clip.Items) != 2 {
		t.Errorf("expected cut clipboard with 2 items, got %+v", clip)
	}

	s.Undo()
	if diff := cmp.Diff(before, s.Sequence()); diff != "" {
		t.Errorf("single undo should restore both items:\n%s", diff)
	}
}

func TestDeleteSelectedSkipsDescendants(t *testing.T) {
	s := newTestStore()
	c := newContainer("C")
	e := newLeaf("E")
	s.AddItem(sequence.AreaTarget, c, "", End)
	s.AddItem(sequence.AreaTarget, e, c.ID, End)

	s.SelectAllItems()
	if n := s.DeleteSelectedItems(); n != 1 {
		t.Errorf("expected 1 delete (child removed with parent), got %d", n)
	}
	if len(s.Selection().ItemIDs) != 0 {
		t.Error("expected selection cleared")
	}
}

func TestCopyWithoutSelection(t *testing.T) {
	s := newTestStore()
	if n := s.CopySelectedItems(); n != 0 {
		t.Errorf("expected nothing copied, got %d", n)
	}
	if s.Clipboard() != nil {
		t.Error("expected clipboard to stay empty")
	}
}

func TestClipboardExportImport(t *testing.T) {
	s := newTestStore()
	e := newLeaf("E")
	s.AddItem(sequence.AreaTarget, e, "", End)
	s.SelectItem(e.ID)
	s.CopySelectedItems()

	data := s.ExportClipboard()
	if data == nil {
		t.Fatal("expected exported clipboard data")
	}

	other := newTestStore()
	if other.ImportClipboard([]byte("{broken")) {
		t.Error("expected malformed import to fail")
	}
	if other.Clipboard() != nil {
		t.Error("expected clipboard untouched after failed import")
	}
	if !other.ImportClipboard(data) {
		t.Fatal("expected import to succeed")
	}
	ids := other.PasteItems("")
	if len(ids) != 1 || ids[0] == e.ID {
		t.Errorf("expected one fresh-id paste, got %v", ids)
	}
	if other.GetItemByID(ids[0]).Name != "E" {
		t.Error("expected pasted item to keep its name")
	}
}
