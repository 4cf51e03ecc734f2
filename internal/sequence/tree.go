package sequence

// FindItem searches items depth-first and returns the first node with the id.
func FindItem(items []*Item, id string) *Item {
	for _, it := range items {
		if it.ID == id {
			return it
		}
		if found := FindItem(it.Items, id); found != nil {
			return found
		}
	}
	return nil
}

// FindItem searches the start, target and end areas in that order and
// returns the first match together with the area holding it.
func (s *Sequence) FindItem(id string) (*Item, Area) {
	for _, area := range Areas {
		if found := FindItem(s.Items(area), id); found != nil {
			return found, area
		}
	}
	return nil, ""
}

// FindContainerOf returns the container holding the condition or trigger
// with the given id, searching all areas.
func (s *Sequence) FindContainerOf(id string) *Item {
	var owner *Item
	for _, area := range Areas {
		Walk(s.Items(area), func(it *Item) bool {
			for _, c := range it.Conditions {
				if c.ID == id {
					owner = it
					return false
				}
			}
			for _, t := range it.Triggers {
				if t.ID == id {
					owner = it
					return false
				}
			}
			return true
		})
		if owner != nil {
			return owner
		}
	}
	return nil
}

// Walk visits items in pre-order. Returning false from fn stops the walk.
func Walk(items []*Item, fn func(*Item) bool) bool {
	for _, it := range items {
		if !fn(it) {
			return false
		}
		if !Walk(it.Items, fn) {
			return false
		}
	}
	return true
}

// ItemIDs returns the ids of every item in items, recursively, in pre-order.
func ItemIDs(items []*Item) []string {
	var ids []string
	Walk(items, func(it *Item) bool {
		ids = append(ids, it.ID)
		return true
	})
	return ids
}

// Subtree holds every id owned by an item subtree.
type Subtree struct {
	Items      map[string]struct{}
	Conditions map[string]struct{}
	Triggers   map[string]struct{}
}

// Has returns true if id belongs to any entity of the subtree.
func (st Subtree) Has(id string) bool {
	if _, ok := st.Items[id]; ok {
		return true
	}
	if _, ok := st.Conditions[id]; ok {
		return true
	}
	_, ok := st.Triggers[id]
	return ok
}

// CollectSubtree gathers the ids of root, its descendants and all
// conditions and triggers attached anywhere in the subtree.
func CollectSubtree(root *Item) Subtree {
	st := Subtree{
		Items:      make(map[string]struct{}),
		Conditions: make(map[string]struct{}),
		Triggers:   make(map[string]struct{}),
	}
	if root == nil {
		return st
	}
	Walk([]*Item{root}, func(it *Item) bool {
		st.Items[it.ID] = struct{}{}
		for _, c := range it.Conditions {
			st.Conditions[c.ID] = struct{}{}
		}
		for _, t := range it.Triggers {
			st.Triggers[t.ID] = struct{}{}
		}
		return true
	})
	return st
}

// RemoveItem detaches the node with the id from anywhere in items.
// It returns the resulting list and the detached node (nil if not found).
func RemoveItem(items []*Item, id string) ([]*Item, *Item) {
	for i, it := range items {
		if it.ID == id {
			out := make([]*Item, 0, len(items)-1)
			out = append(out, items[:i]...)
			out = append(out, items[i+1:]...)
			return out, it
		}
	}
	for _, it := range items {
		if it.Items == nil {
			continue
		}
		rest, removed := RemoveItem(it.Items, id)
		if removed != nil {
			it.Items = rest
			return items, removed
		}
	}
	return items, nil
}

// InsertItem splices item into items at index. An index below zero or past
// the end appends.
func InsertItem(items []*Item, index int, item *Item) []*Item {
	if index < 0 || index >= len(items) {
		return append(items, item)
	}
	items = append(items, nil)
	copy(items[index+1:], items[index:])
	items[index] = item
	return items
}

// Contains returns true if id names root or one of its descendants.
func Contains(root *Item, id string) bool {
	if root == nil {
		return false
	}
	return root.ID == id || FindItem(root.Items, id) != nil
}
