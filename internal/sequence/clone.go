package sequence

// Clone returns a deep copy of the item subtree with identical ids.
// Nil child lists stay nil so leaf/container classification survives.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	cpy := *it
	cpy.Data = CloneData(it.Data)
	cpy.Items = cloneItems(it.Items)
	if it.Conditions != nil {
		cpy.Conditions = make([]*Condition, len(it.Conditions))
		for i, c := range it.Conditions {
			cpy.Conditions[i] = c.Clone()
		}
	}
	if it.Triggers != nil {
		cpy.Triggers = make([]*Trigger, len(it.Triggers))
		for i, t := range it.Triggers {
			cpy.Triggers[i] = t.Clone()
		}
	}
	return &cpy
}

// Clone returns a deep copy of the condition.
func (c *Condition) Clone() *Condition {
	if c == nil {
		return nil
	}
	cpy := *c
	cpy.Data = CloneData(c.Data)
	return &cpy
}

// Clone returns a deep copy of the trigger.
func (t *Trigger) Clone() *Trigger {
	if t == nil {
		return nil
	}
	cpy := *t
	cpy.Data = CloneData(t.Data)
	return &cpy
}

// Clone returns a deep copy of the whole sequence.
func (s *Sequence) Clone() *Sequence {
	if s == nil {
		return nil
	}
	cpy := &Sequence{
		ID:          s.ID,
		Title:       s.Title,
		StartItems:  cloneItems(s.StartItems),
		TargetItems: cloneItems(s.TargetItems),
		EndItems:    cloneItems(s.EndItems),
	}
	if s.GlobalTriggers != nil {
		cpy.GlobalTriggers = make([]*Trigger, len(s.GlobalTriggers))
		for i, t := range s.GlobalTriggers {
			cpy.GlobalTriggers[i] = t.Clone()
		}
	}
	cpy.normalize()
	return cpy
}

func cloneItems(items []*Item) []*Item {
	if items == nil {
		return nil
	}
	out := make([]*Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// CloneWithFreshIDs deep-copies the item subtree and assigns a new id to
// every node, condition and trigger in the copy.
func CloneWithFreshIDs(it *Item) *Item {
	cpy := it.Clone()
	if cpy == nil {
		return nil
	}
	reassignIDs(cpy)
	return cpy
}

func reassignIDs(it *Item) {
	it.ID = NewID()
	for _, c := range it.Conditions {
		c.ID = NewID()
	}
	for _, t := range it.Triggers {
		t.ID = NewID()
	}
	for _, child := range it.Items {
		reassignIDs(child)
	}
}

// CloneData deep-copies an opaque data bag.
func CloneData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneData(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return val
	}
}
