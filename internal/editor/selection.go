package editor

import (
	"slices"

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// Selection is the editor's current selection. Empty strings mean nothing
// is selected.
type Selection struct {
	ItemID      string   `json:"selectedItemId"`
	ConditionID string   `json:"selectedConditionId"`
	TriggerID   string   `json:"selectedTriggerId"`
	ItemIDs     []string `json:"selectedItemIds"`
}

func emptySelection() Selection {
	return Selection{ItemIDs: []string{}}
}

// Selection returns a copy of the current selection.
func (s *Store) Selection() Selection {
	sel := s.selection
	sel.ItemIDs = slices.Clone(s.selection.ItemIDs)
	if sel.ItemIDs == nil {
		sel.ItemIDs = []string{}
	}
	return sel
}

// SelectItem makes id the single selection and clears condition and
// trigger selection. An empty id clears the item selection.
func (s *Store) SelectItem(id string) {
	s.selection.ItemID = id
	s.selection.ConditionID = ""
	s.selection.TriggerID = ""
	if id == "" {
		s.selection.ItemIDs = []string{}
	} else {
		s.selection.ItemIDs = []string{id}
	}
	s.selectionChanged()
}

// SelectCondition selects a condition and clears trigger selection.
func (s *Store) SelectCondition(id string) {
	s.selection.ConditionID = id
	s.selection.TriggerID = ""
	s.selectionChanged()
}

// SelectTrigger selects a trigger and clears condition selection.
func (s *Store) SelectTrigger(id string) {
	s.selection.TriggerID = id
	s.selection.ConditionID = ""
	s.selectionChanged()
}

// ToggleItemSelection adds or removes id from the multi-selection. The
// primary selection follows the set when it holds exactly one id and is
// cleared when the set becomes empty.
func (s *Store) ToggleItemSelection(id string) {
	if i := slices.Index(s.selection.ItemIDs, id); i >= 0 {
		s.selection.ItemIDs = slices.Delete(slices.Clone(s.selection.ItemIDs), i, i+1)
	} else {
		s.selection.ItemIDs = append(slices.Clone(s.selection.ItemIDs), id)
	}
	s.syncPrimary()
	s.selectionChanged()
}

// SelectAllItems selects every item, nested ones included, of the active
// area.
func (s *Store) SelectAllItems() {
	ids := sequence.ItemIDs(s.seq.Items(s.view.ActiveArea))
	if ids == nil {
		ids = []string{}
	}
	s.selection.ItemIDs = ids
	s.syncPrimary()
	s.selectionChanged()
}

// ClearSelection drops every selection.
func (s *Store) ClearSelection() {
	s.selection = emptySelection()
	s.selectionChanged()
}

func (s *Store) syncPrimary() {
	switch len(s.selection.ItemIDs) {
	case 0:
		s.selection.ItemID = ""
	case 1:
		s.selection.ItemID = s.selection.ItemIDs[0]
	}
}

// clearSelectionIn drops every selection that points into a removed subtree.
func (s *Store) clearSelectionIn(removed sequence.Subtree) {
	changed := false
	if s.selection.ItemID != "" && removed.Has(s.selection.ItemID) {
		s.selection.ItemID = ""
		changed = true
	}
	if s.selection.ConditionID != "" && removed.Has(s.selection.ConditionID) {
		s.selection.ConditionID = ""
		changed = true
	}
	if s.selection.TriggerID != "" && removed.Has(s.selection.TriggerID) {
		s.selection.TriggerID = ""
		changed = true
	}
	kept := make([]string, 0, len(s.selection.ItemIDs))
	for _, id := range s.selection.ItemIDs {
		if !removed.Has(id) {
			kept = append(kept, id)
		}
	}
	if len(kept) != len(s.selection.ItemIDs) {
		s.selection.ItemIDs = kept
		s.syncPrimary()
		changed = true
	}
	if changed {
		s.selectionChanged()
	}
}

// pruneSelection drops selected ids that no longer exist, e.g. after undo.
func (s *Store) pruneSelection() {
	if s.selection.ItemID != "" {
		if it, _ := s.seq.FindItem(s.selection.ItemID); it == nil {
			s.selection.ItemID = ""
		}
	}
	if s.selection.ConditionID != "" && s.seq.FindContainerOf(s.selection.ConditionID) == nil {
		s.selection.ConditionID = ""
	}
	if s.selection.TriggerID != "" && s.seq.FindContainerOf(s.selection.TriggerID) == nil && !s.hasGlobalTrigger(s.selection.TriggerID) {
		s.selection.TriggerID = ""
	}
	kept := make([]string, 0, len(s.selection.ItemIDs))
	for _, id := range s.selection.ItemIDs {
		if it, _ := s.seq.FindItem(id); it != nil {
			kept = append(kept, id)
		}
	}
	if len(kept) != len(s.selection.ItemIDs) {
		s.selection.ItemIDs = kept
		s.syncPrimary()
	}
}

func (s *Store) hasGlobalTrigger(id string) bool {
	for _, t := range s.seq.GlobalTriggers {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) selectionChanged() {
	s.emit("selection.changed", map[string]interface{}{
		"item_id":      s.selection.ItemID,
		"condition_id": s.selection.ConditionID,
		"trigger_id":   s.selection.TriggerID,
		"count":        len(s.selection.ItemIDs),
	})
}
