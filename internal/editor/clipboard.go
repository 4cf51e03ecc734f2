package editor

import (
	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// ClipboardMode records how the clipboard was filled.
type ClipboardMode string

const (
	ClipboardCopy ClipboardMode = "copy"
	ClipboardCut  ClipboardMode = "cut"
)

// Clipboard holds one snapshot set of items.
type Clipboard struct {
	Items []*sequence.Item `json:"items"`
	Mode  ClipboardMode    `json:"mode"`
}

// Clipboard returns a copy of the clipboard, or nil when empty.
func (s *Store) Clipboard() *Clipboard {
	if s.clipboard == nil {
		return nil
	}
	return &Clipboard{Items: cloneItemList(s.clipboard.Items), Mode: s.clipboard.Mode}
}

// CopySelectedItems snapshots the multi-selected items into the clipboard,
// replacing what it held. Returns the number of items copied.
func (s *Store) CopySelectedItems() int {
	return s.fillClipboard("copySelectedItems", ClipboardCopy, "clipboard.copied")
}

// CutSelectedItems copies the selection and then deletes it.
func (s *Store) CutSelectedItems() int {
	n := s.fillClipboard("cutSelectedItems", ClipboardCut, "clipboard.cut")
	if n > 0 {
		s.DeleteSelectedItems()
	}
	return n
}

func (s *Store) fillClipboard(op string, mode ClipboardMode, event string) int {
	var items []*sequence.Item
	for _, id := range s.selection.ItemIDs {
		if it, _ := s.seq.FindItem(id); it != nil {
			items = append(items, it.Clone())
		}
	}
	if len(items) == 0 {
		s.warn(op, "", "nothing selected")
		return 0
	}
	s.clipboard = &Clipboard{Items: items, Mode: mode}
	s.emit(event, map[string]interface{}{"count": len(items)})
	return len(items)
}

// DeleteSelectedItems deletes every multi-selected item under a single
// history snapshot. Returns the number of items deleted; ids already
// removed with an ancestor are skipped.
func (s *Store) DeleteSelectedItems() int {
	ids := append([]string(nil), s.selection.ItemIDs...)
	if len(ids) == 0 {
		return 0
	}
	s.record()

	n := 0
	for _, id := range ids {
		if it, _ := s.seq.FindItem(id); it == nil {
			continue
		}
		if s.deleteItem(id) {
			n++
		}
	}
	s.selection.ItemIDs = []string{}
	s.selection.ItemID = ""
	s.selectionChanged()
	return n
}

// PasteItems inserts fresh-id copies of the clipboard items at the end of
// the active area's root list, or into the container targetParentID when
// given. The pasted items become the selection. The clipboard is kept so
// paste can repeat. Returns the new root ids.
func (s *Store) PasteItems(targetParentID string) []string {
	if s.clipboard == nil || len(s.clipboard.Items) == 0 {
		s.warn("pasteItems", targetParentID, "clipboard is empty")
		return nil
	}
	s.record()

	var parent *sequence.Item
	if targetParentID != "" {
		parent = s.container("pasteItems", targetParentID)
		if parent == nil {
			return nil
		}
	}

	ids := make([]string, 0, len(s.clipboard.Items))
	for _, src := range s.clipboard.Items {
		it := sequence.CloneWithFreshIDs(src)
		if parent != nil {
			parent.Items = append(parent.Items, it)
		} else {
			root := s.seq.Root(s.view.ActiveArea)
			*root = append(*root, it)
		}
		ids = append(ids, it.ID)
	}

	s.selection.ItemIDs = append([]string(nil), ids...)
	s.selection.ItemID = ids[0]
	s.selection.ConditionID = ""
	s.selection.TriggerID = ""

	s.emit("clipboard.pasted", map[string]interface{}{
		"count":     len(ids),
		"area":      string(s.view.ActiveArea),
		"parent_id": targetParentID,
	})
	s.selectionChanged()
	return ids
}

// ExportClipboard encodes the clipboard items as JSON. Returns nil when the
// clipboard is empty.
func (s *Store) ExportClipboard() []byte {
	if s.clipboard == nil {
		return nil
	}
	b, err := sequence.MarshalItems(s.clipboard.Items)
	if err != nil {
		s.warn("exportClipboard", "", err.Error())
		return nil
	}
	return b
}

// ImportClipboard replaces the clipboard with items decoded from JSON.
// Malformed or empty input leaves the clipboard untouched.
func (s *Store) ImportClipboard(data []byte) bool {
	items := sequence.UnmarshalItems(data)
	if len(items) == 0 {
		s.warn("importClipboard", "", "no items in clipboard data")
		return false
	}
	s.clipboard = &Clipboard{Items: items, Mode: ClipboardCopy}
	s.emit("clipboard.imported", map[string]interface{}{"count": len(items)})
	return true
}

func cloneItemList(items []*sequence.Item) []*sequence.Item {
	out := make([]*sequence.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
