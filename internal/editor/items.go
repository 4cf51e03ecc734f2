package editor

import (
	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// ItemPatch is a partial update for an item. Nil fields are left unchanged.
// Data replaces the whole data bag when non-nil.
type ItemPatch struct {
	Type        *string          `json:"type,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *sequence.Status `json:"status,omitempty"`
	Enabled     *bool            `json:"enabled,omitempty"`
	IsExpanded  *bool            `json:"isExpanded,omitempty"`
	Data        map[string]any   `json:"data,omitempty"`
}

func (p ItemPatch) apply(it *sequence.Item) {
	if p.Type != nil {
		it.Type = *p.Type
	}
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Status != nil {
		it.Status = *p.Status
	}
	if p.Enabled != nil {
		it.Enabled = *p.Enabled
	}
	if p.IsExpanded != nil {
		it.IsExpanded = *p.IsExpanded
	}
	if p.Data != nil {
		it.Data = sequence.CloneData(p.Data)
	}
}

// AddItem inserts a copy of item into area. With an empty parentID the item
// goes into the area's root list, otherwise into the children of the
// container parentID, searched within area only. Index End (or any index
// out of range) appends.
func (s *Store) AddItem(area sequence.Area, item *sequence.Item, parentID string, index int) bool {
	s.record()

	if !area.Valid() {
		s.warn("addItem", parentID, "unknown area "+string(area))
		return false
	}
	if item == nil {
		s.warn("addItem", parentID, "item is nil")
		return false
	}
	it := item.Clone()
	if it.ID == "" {
		it.ID = sequence.NewID()
	}

	root := s.seq.Root(area)
	if parentID == "" {
		*root = sequence.InsertItem(*root, index, it)
	} else {
		parent := sequence.FindItem(*root, parentID)
		if parent == nil {
			s.warn("addItem", parentID, "parent not found")
			return false
		}
		if !parent.IsContainer() {
			s.warn("addItem", parentID, "parent is not a container")
			return false
		}
		parent.Items = sequence.InsertItem(parent.Items, index, it)
	}

	s.emit("item.added", map[string]interface{}{
		"item_id":   it.ID,
		"type":      it.Type,
		"area":      string(area),
		"parent_id": parentID,
	})
	return true
}

// AddItemOfType creates an item from the catalog and adds it. Returns the
// new item's id, or "" when nothing was added.
func (s *Store) AddItemOfType(area sequence.Area, typ, parentID string, index int) string {
	it := s.catalog.NewItem(typ)
	if !s.AddItem(area, it, parentID, index) {
		return ""
	}
	return it.ID
}

// UpdateItem merges patch into the item with id, searching start, target
// and end in that order.
func (s *Store) UpdateItem(id string, patch ItemPatch) bool {
	s.record()

	it, _ := s.seq.FindItem(id)
	if it == nil {
		s.warn("updateItem", id, "item not found")
		return false
	}
	patch.apply(it)

	s.emit("item.updated", map[string]interface{}{"item_id": id})
	return true
}

// DeleteItem removes the item with id and its whole subtree. Selection that
// points into the removed subtree is cleared.
func (s *Store) DeleteItem(id string) bool {
	s.record()
	return s.deleteItem(id)
}

func (s *Store) deleteItem(id string) bool {
	it, area := s.seq.FindItem(id)
	if it == nil {
		s.warn("deleteItem", id, "item not found")
		return false
	}
	removed := sequence.CollectSubtree(it)

	root := s.seq.Root(area)
	*root, _ = sequence.RemoveItem(*root, id)
	s.clearSelectionIn(removed)

	s.emit("item.deleted", map[string]interface{}{
		"item_id":     id,
		"area":        string(area),
		"descendants": len(removed.Items) - 1,
	})
	return true
}

// MoveItem detaches the item with id from wherever it lives and inserts a
// deep copy into targetArea, at the root when targetParentID is empty or
// into that container's children otherwise. targetIndex is applied to the
// list as it is after removal; it is not adjusted for the item's old
// position.
func (s *Store) MoveItem(id string, targetArea sequence.Area, targetParentID string, targetIndex int) bool {
	s.record()

	it, fromArea := s.seq.FindItem(id)
	if it == nil {
		s.warn("moveItem", id, "item not found")
		return false
	}
	if !targetArea.Valid() {
		s.warn("moveItem", id, "unknown area "+string(targetArea))
		return false
	}

	var dest *sequence.Item
	if targetParentID != "" {
		dest = sequence.FindItem(s.seq.Items(targetArea), targetParentID)
		if dest == nil {
			s.warn("moveItem", targetParentID, "target parent not found")
			return false
		}
		if !dest.IsContainer() {
			s.warn("moveItem", targetParentID, "target parent is not a container")
			return false
		}
		if sequence.Contains(it, targetParentID) {
			s.warn("moveItem", id, "cannot move an item into its own subtree")
			return false
		}
	}

	from := s.seq.Root(fromArea)
	var removed *sequence.Item
	*from, removed = sequence.RemoveItem(*from, id)
	moved := removed.Clone()

	if dest != nil {
		dest.Items = sequence.InsertItem(dest.Items, targetIndex, moved)
	} else {
		to := s.seq.Root(targetArea)
		*to = sequence.InsertItem(*to, targetIndex, moved)
	}

	s.emit("item.moved", map[string]interface{}{
		"item_id":   id,
		"from_area": string(fromArea),
		"area":      string(targetArea),
		"parent_id": targetParentID,
		"index":     targetIndex,
	})
	return true
}

// DuplicateItem appends a fresh-id deep copy of the item, named with a
// " (Copy)" suffix, to the root list of the item's area. Returns the new id.
func (s *Store) DuplicateItem(id string) string {
	s.record()

	it, area := s.seq.FindItem(id)
	if it == nil {
		s.warn("duplicateItem", id, "item not found")
		return ""
	}
	if area == "" {
		area = sequence.AreaTarget
	}

	dup := sequence.CloneWithFreshIDs(it)
	dup.Name += " (Copy)"
	root := s.seq.Root(area)
	*root = append(*root, dup)

	s.emit("item.duplicated", map[string]interface{}{
		"item_id": id,
		"copy_id": dup.ID,
		"area":    string(area),
		"subtree": len(sequence.ItemIDs([]*sequence.Item{dup})),
	})
	return dup.ID
}

// SetItemExpanded changes the UI collapse state of a container. It is not
// recorded in history.
func (s *Store) SetItemExpanded(id string, expanded bool) bool {
	it, _ := s.seq.FindItem(id)
	if it == nil {
		s.warn("setItemExpanded", id, "item not found")
		return false
	}
	it.IsExpanded = expanded
	return true
}

// GetItemByID returns a copy of the item with id, or nil.
func (s *Store) GetItemByID(id string) *sequence.Item {
	it, _ := s.seq.FindItem(id)
	return it.Clone()
}

// AreaOf returns the area holding the item, or "" if it does not exist.
func (s *Store) AreaOf(id string) sequence.Area {
	_, area := s.seq.FindItem(id)
	return area
}

// Stats counts items, conditions and triggers across the sequence.
func (s *Store) Stats() sequence.Stats {
	return sequence.ComputeStats(s.seq)
}
