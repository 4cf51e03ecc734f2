package editor

import (
	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// AddTrigger appends a copy of trig to the container.
func (s *Store) AddTrigger(containerID string, trig *sequence.Trigger) bool {
	s.record()

	if trig == nil {
		s.warn("addTrigger", containerID, "trigger is nil")
		return false
	}
	c := s.container("addTrigger", containerID)
	if c == nil {
		return false
	}
	cpy := trig.Clone()
	if cpy.ID == "" {
		cpy.ID = sequence.NewID()
	}
	if c.Triggers == nil {
		c.Triggers = []*sequence.Trigger{}
	}
	c.Triggers = append(c.Triggers, cpy)

	s.emit("trigger.added", map[string]interface{}{
		"container_id": containerID,
		"trigger_id":   cpy.ID,
		"type":         cpy.Type,
	})
	return true
}

// AddTriggerOfType creates a trigger from the catalog and adds it to the
// container. Returns the new id, or "".
func (s *Store) AddTriggerOfType(containerID, typ string) string {
	trig := s.catalog.NewTrigger(typ)
	if !s.AddTrigger(containerID, trig) {
		return ""
	}
	return trig.ID
}

// UpdateTrigger merges patch into a trigger of the container.
func (s *Store) UpdateTrigger(containerID, triggerID string, patch EntityPatch) bool {
	s.record()

	c := s.container("updateTrigger", containerID)
	if c == nil {
		return false
	}
	for _, t := range c.Triggers {
		if t.ID == triggerID {
			patch.applyTrigger(t)
			s.emit("trigger.updated", map[string]interface{}{
				"container_id": containerID,
				"trigger_id":   triggerID,
			})
			return true
		}
	}
	s.warn("updateTrigger", triggerID, "trigger not found")
	return false
}

// DeleteTrigger removes a trigger from the container.
func (s *Store) DeleteTrigger(containerID, triggerID string) bool {
	s.record()

	c := s.container("deleteTrigger", containerID)
	if c == nil {
		return false
	}
	for i, t := range c.Triggers {
		if t.ID == triggerID {
			c.Triggers = append(c.Triggers[:i:i], c.Triggers[i+1:]...)
			if s.selection.TriggerID == triggerID {
				s.selection.TriggerID = ""
			}
			s.emit("trigger.deleted", map[string]interface{}{
				"container_id": containerID,
				"trigger_id":   triggerID,
			})
			return true
		}
	}
	s.warn("deleteTrigger", triggerID, "trigger not found")
	return false
}

// AddGlobalTrigger appends a copy of trig to the sequence's global triggers.
func (s *Store) AddGlobalTrigger(trig *sequence.Trigger) bool {
	s.record()

	if trig == nil {
		s.warn("addGlobalTrigger", "", "trigger is nil")
		return false
	}
	cpy := trig.Clone()
	if cpy.ID == "" {
		cpy.ID = sequence.NewID()
	}
	s.seq.GlobalTriggers = append(s.seq.GlobalTriggers, cpy)

	s.emit("trigger.global_added", map[string]interface{}{
		"trigger_id": cpy.ID,
		"type":       cpy.Type,
	})
	return true
}

// DeleteGlobalTrigger removes a global trigger by id.
func (s *Store) DeleteGlobalTrigger(triggerID string) bool {
	s.record()

	for i, t := range s.seq.GlobalTriggers {
		if t.ID == triggerID {
			s.seq.GlobalTriggers = append(s.seq.GlobalTriggers[:i:i], s.seq.GlobalTriggers[i+1:]...)
			if s.selection.TriggerID == triggerID {
				s.selection.TriggerID = ""
			}
			s.emit("trigger.global_deleted", map[string]interface{}{"trigger_id": triggerID})
			return true
		}
	}
	s.warn("deleteGlobalTrigger", triggerID, "trigger not found")
	return false
}
