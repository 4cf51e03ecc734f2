package editor

import (
	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// EntityPatch is a partial update for a condition or trigger.
type EntityPatch struct {
	Type     *string        `json:"type,omitempty"`
	Name     *string        `json:"name,omitempty"`
	Category *string        `json:"category,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

func (p EntityPatch) applyCondition(c *sequence.Condition) {
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Data != nil {
		c.Data = sequence.CloneData(p.Data)
	}
}

func (p EntityPatch) applyTrigger(t *sequence.Trigger) {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Data != nil {
		t.Data = sequence.CloneData(p.Data)
	}
}

// container looks up a container by id across all areas and warns when it
// is missing or is a leaf.
func (s *Store) container(op, id string) *sequence.Item {
	it, _ := s.seq.FindItem(id)
	if it == nil {
		s.warn(op, id, "container not found")
		return nil
	}
	if !it.IsContainer() {
		s.warn(op, id, "item is not a container")
		return nil
	}
	return it
}

// AddCondition appends a copy of cond to the container.
func (s *Store) AddCondition(containerID string, cond *sequence.Condition) bool {
	s.record()

	if cond == nil {
		s.warn("addCondition", containerID, "condition is nil")
		return false
	}
	c := s.container("addCondition", containerID)
	if c == nil {
		return false
	}
	cpy := cond.Clone()
	if cpy.ID == "" {
		cpy.ID = sequence.NewID()
	}
	if c.Conditions == nil {
		c.Conditions = []*sequence.Condition{}
	}
	c.Conditions = append(c.Conditions, cpy)

	s.emit("condition.added", map[string]interface{}{
		"container_id": containerID,
		"condition_id": cpy.ID,
		"type":         cpy.Type,
	})
	return true
}

// AddConditionOfType creates a condition from the catalog and adds it.
// Returns the new id, or "".
func (s *Store) AddConditionOfType(containerID, typ string) string {
	cond := s.catalog.NewCondition(typ)
	if !s.AddCondition(containerID, cond) {
		return ""
	}
	return cond.ID
}

// UpdateCondition merges patch into a condition of the container.
func (s *Store) UpdateCondition(containerID, conditionID string, patch EntityPatch) bool {
	s.record()

	c := s.container("updateCondition", containerID)
	if c == nil {
		return false
	}
	for _, cond := range c.Conditions {
		if cond.ID == conditionID {
			patch.applyCondition(cond)
			s.emit("condition.updated", map[string]interface{}{
				"container_id": containerID,
				"condition_id": conditionID,
			})
			return true
		}
	}
	s.warn("updateCondition", conditionID, "condition not found")
	return false
}

// DeleteCondition removes a condition from the container.
func (s *Store) DeleteCondition(containerID, conditionID string) bool {
	s.record()

	c := s.container("deleteCondition", containerID)
	if c == nil {
		return false
	}
	for i, cond := range c.Conditions {
		if cond.ID == conditionID {
			c.Conditions = append(c.Conditions[:i:i], c.Conditions[i+1:]...)
			if s.selection.ConditionID == conditionID {
				s.selection.ConditionID = ""
			}
			s.emit("condition.deleted", map[string]interface{}{
				"container_id": containerID,
				"condition_id": conditionID,
			})
			return true
		}
	}
	s.warn("deleteCondition", conditionID, "condition not found")
	return false
}
