package editor

import (
	"testing"

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

func TestMatchItem(t *testing.T) {
	it := &sequence.Item{
		ID:      "x",
		Type:    "NINA.Sequencer.SequenceItem.Imaging.TakeExposure, NINA.Sequencer",
		Name:    "Luminance 300s",
		Status:  sequence.StatusDisabled,
		Enabled: false,
	}

	cases := []struct {
		expr string
		want bool
	}{
		{"", true},
		{"type == 'TakeExposure'", true},
		{"type == 'NINA.Sequencer.SequenceItem.Imaging.TakeExposure, NINA.Sequencer'", true},
		{"type == 'CoolCamera'", false},
		{"status == 'DISABLED'", true},
		{"enabled == 'false'", true},
		{"enabled == 'yes'", false},
		{"name ~ 'lumin'", true},
		{"name ~ 'Ha'", false},
		{"area == 'end'", true},
		{"container", false},
		{"status == 'DISABLED' && name ~ '300'", true},
		{"status == 'DISABLED' && container", false},
		{"frobnicate", false},
	}
	for _, tc := range cases {
		if got := MatchItem(tc.expr, it, sequence.AreaEnd); got != tc.want {
			t.Errorf("MatchItem(%q) = %v, expected %v", tc.expr, got, tc.want)
		}
	}
}

func TestFindItems(t *testing.T) {
	s := newTestStore()
	c := newContainer("Flats")
	s.AddItem(sequence.AreaEnd, c, "", End)
	s.AddItem(sequence.AreaEnd, newLeaf("Flat R"), c.ID, End)
	s.AddItem(sequence.AreaTarget, newLeaf("Light R"), "", End)

	got := s.FindItems("type == 'TakeExposure' && area == 'end'")
	if len(got) != 1 || got[0].Name != "Flat R" {
		t.Errorf("expected only 'Flat R', got %d items", len(got))
	}

	if n := len(s.FindItems("container")); n != 1 {
		t.Errorf("expected 1 container, got %d", n)
	}
	if n := len(s.FindItems("")); n != 3 {
		t.Errorf("expected 3 items, got %d", n)
	}
}

func TestViewState(t *testing.T) {
	s := newTestStore()
	v := s.View()
	if v.ActiveArea != sequence.AreaTarget || v.Mode != ViewTree {
		t.Errorf("expected target/tree defaults, got %s/%s", v.ActiveArea, v.Mode)
	}

	v.Mode = "spreadsheet"
	if err := s.SetView(v); err == nil {
		t.Error("expected error for unknown view mode")
	}
	v.Mode = ViewGraph
	v.LeftPanelWidth = -1
	if err := s.SetView(v); err == nil {
		t.Error("expected error for negative panel width")
	}
	v.LeftPanelWidth = 300
	if err := s.SetView(v); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if s.View().Mode != ViewGraph {
		t.Errorf("expected graph mode, got %s", s.View().Mode)
	}

	if s.SetActiveArea("middle") {
		t.Error("expected unknown area to be rejected")
	}
}

func TestSelectionRules(t *testing.T) {
	s := newTestStore()
	a := newLeaf("A")
	b := newLeaf("B")
	s.AddItem(sequence.AreaTarget, a, "", End)
	s.AddItem(sequence.AreaTarget, b, "", End)
	s.AddItem(sequence.AreaStart, newLeaf("S"), "", End)

	s.SelectCondition("k1")
	s.SelectTrigger("t1")
	if sel := s.Selection(); sel.ConditionID != "" || sel.TriggerID != "t1" {
		t.Errorf("expected trigger selection to clear condition, got %+v", sel)
	}
	s.SelectItem(a.ID)
	if sel := s.Selection(); sel.TriggerID != "" || len(sel.ItemIDs) != 1 {
		t.Errorf("expected item selection to reset secondary selection, got %+v", sel)
	}

	s.ToggleItemSelection(b.ID)
	if sel := s.Selection(); len(sel.ItemIDs) != 2 || sel.ItemID != a.ID {
		t.Errorf("expected two selected with primary unchanged, got %+v", sel)
	}
	s.ToggleItemSelection(a.ID)
	if sel := s.Selection(); sel.ItemID != b.ID {
		t.Errorf("expected primary to follow the sole remaining id, got %+v", sel)
	}
	s.ToggleItemSelection(b.ID)
	if sel := s.Selection(); sel.ItemID != "" || len(sel.ItemIDs) != 0 {
		t.Errorf("expected empty selection, got %+v", sel)
	}

	s.SelectAllItems()
	if n := len(s.Selection().ItemIDs); n != 2 {
		t.Errorf("expected select-all limited to the active area, got %d", n)
	}

	s.ClearSelection()
	if n := len(s.Selection().ItemIDs); n != 0 {
		t.Errorf("expected cleared selection, got %d", n)
	}
}

func TestPrimaryFollowsShrunkSelection(t *testing.T) {
	s := newTestStore()
	a := newLeaf("A")
	b := newLeaf("B")
	c := newLeaf("C")
	s.AddItem(sequence.AreaTarget, a, "", End)
	s.AddItem(sequence.AreaTarget, b, "", End)
	s.AddItem(sequence.AreaTarget, c, "", End)

	s.SelectItem(a.ID)
	s.ToggleItemSelection(b.ID)
	s.DeleteItem(a.ID)
	if sel := s.Selection(); sel.ItemID != b.ID || len(sel.ItemIDs) != 1 {
		t.Errorf("expected primary to follow the remaining id after delete, got %+v", sel)
	}

	s.Undo()
	s.SelectItem(c.ID)
	s.ToggleItemSelection(b.ID)
	s.Undo()
	if sel := s.Selection(); sel.ItemID != b.ID || len(sel.ItemIDs) != 1 {
		t.Errorf("expected primary to follow the remaining id after undo, got %+v", sel)
	}
}
