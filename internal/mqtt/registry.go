package mqtt

import (
	"fmt"
	"sort"
	"sync"
)

// RegisteredObservatory holds runtime information about a registered rig.
type RegisteredObservatory struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Software     string `json:"software"`
	StatusTopic  string `json:"status_topic"`
	CommandTopic string `json:"command_topic"`
}

// Registry maps observatory ids to their topics and metadata.
type Registry struct {
	mu            sync.RWMutex
	observatories map[string]*RegisteredObservatory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		observatories: make(map[string]*RegisteredObservatory),
	}
}

// Register adds or updates an observatory.
func (r *Registry) Register(obs *RegisteredObservatory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cpy := *obs
	r.observatories[obs.ID] = &cpy
}

// RegisterFromPayload registers the observatory described by payload.
func (r *Registry) RegisterFromPayload(payload *RegistrationPayload) *RegisteredObservatory {
	obs := &RegisteredObservatory{
		ID:           payload.Observatory.ID,
		Name:         payload.Observatory.Name,
		Software:     payload.Observatory.Software,
		StatusTopic:  payload.Topics.Status,
		CommandTopic: payload.Topics.Commands,
	}
	r.Register(obs)
	return obs
}

// Unregister removes an observatory.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.observatories, id)
}

// Get returns a copy of the observatory, or nil if not found.
func (r *Registry) Get(id string) *RegisteredObservatory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if obs, ok := r.observatories[id]; ok {
		cpy := *obs
		return &cpy
	}
	return nil
}

// Exists returns true if the observatory is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.observatories[id]
	return ok
}

// CommandTopic returns the command topic for an observatory.
func (r *Registry) CommandTopic(id string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obs, ok := r.observatories[id]
	if !ok {
		return "", fmt.Errorf("observatory not registered: %s", id)
	}
	if obs.CommandTopic == "" {
		return "", fmt.Errorf("observatory %s has no command topic", id)
	}
	return obs.CommandTopic, nil
}

// All returns copies of every registered observatory, sorted by id.
func (r *Registry) All() []*RegisteredObservatory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*RegisteredObservatory, 0, len(r.observatories))
	for _, obs := range r.observatories {
		cpy := *obs
		result = append(result, &cpy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Clear removes all observatories.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observatories = make(map[string]*RegisteredObservatory)
}
