package mqtt

import (
	"sort"
	"sync"
	"time"

	"github.com/AaronLay10/nina-sequence-editor/internal/events"
)

// ObservatoryState tracks a registered observatory's health.
type ObservatoryState struct {
	ID           string    `json:"id"`
	LastSeen     time.Time `json:"last_seen"`
	HeartbeatSec int       `json:"heartbeat_sec"`
	Connected    bool      `json:"connected"`
}

// Monitor tracks observatory registration and health.
type Monitor struct {
	mu            sync.RWMutex
	observatories map[string]*ObservatoryState
	specs         map[string]ObservatorySpec
	registry      *Registry
	tolerance     float64 // multiplier for heartbeat interval (e.g., 2.0 = 2x heartbeat)
	now           func() time.Time
	stopCh        chan struct{}
	wg            sync.WaitGroup
}

// NewMonitor creates a new observatory monitor.
// tolerance is the multiplier for heartbeat interval before considering disconnected.
func NewMonitor(specs map[string]ObservatorySpec, tolerance float64) *Monitor {
	if tolerance <= 1.0 {
		tolerance = 2.0 // miss one heartbeat
	}
	return &Monitor{
		observatories: make(map[string]*ObservatoryState),
		specs:         specs,
		registry:      NewRegistry(),
		tolerance:     tolerance,
		now:           time.Now,
		stopCh:        make(chan struct{}),
	}
}

// Registry returns the registry populated by valid registrations.
func (m *Monitor) Registry() *Registry {
	return m.registry
}

// HandleRegistration validates a registration payload, records it and emits
// observatory.connected or observatory.error.
func (m *Monitor) HandleRegistration(payload *RegistrationPayload) *ValidationResult {
	result := ValidateRegistration(payload, m.specs)
	id := payload.Observatory.ID

	if !result.Valid {
		events.Emit("error", "observatory.error", "registration validation failed", map[string]interface{}{
			"observatory_id": id,
			"errors":         result.Errors,
		})
		return result
	}

	m.registry.RegisterFromPayload(payload)

	m.mu.Lock()
	existing, seen := m.observatories[id]
	isReconnect := seen && !existing.Connected
	m.observatories[id] = &ObservatoryState{
		ID:           id,
		LastSeen:     m.now(),
		HeartbeatSec: payload.Observatory.HeartbeatSec,
		Connected:    true,
	}
	m.mu.Unlock()

	events.Emit("info", "observatory.connected", "", map[string]interface{}{
		"observatory_id": id,
		"name":           payload.Observatory.Name,
		"software":       payload.Observatory.Software,
		"reconnect":      isReconnect,
	})
	return result
}

// Touch records a sign of life, e.g. a status message. A disconnected
// observatory becomes connected again.
func (m *Monitor) Touch(id string) {
	m.mu.Lock()
	state, ok := m.observatories[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	state.LastSeen = m.now()
	revived := !state.Connected
	state.Connected = true
	m.mu.Unlock()

	if revived {
		events.Emit("info", "observatory.connected", "", map[string]interface{}{
			"observatory_id": id,
			"reconnect":      true,
		})
	}
}

// Start begins the background health check loop.
func (m *Monitor) Start(checkInterval time.Duration) {
	m.wg.Add(1)
	go m.healthCheckLoop(checkInterval)
}

// Stop stops the background health check loop.
func (m *Monitor) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *Monitor) healthCheckLoop(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.checkHealth()
		}
	}
}

func (m *Monitor) checkHealth() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, state := range m.observatories {
		if !state.Connected {
			continue
		}

		timeout := time.Duration(float64(state.HeartbeatSec)*m.tolerance) * time.Second
		if now.Sub(state.LastSeen) > timeout {
			state.Connected = false
			events.Emit("warning", "observatory.disconnected", "heartbeat timeout", map[string]interface{}{
				"observatory_id": id,
				"last_seen":      state.LastSeen.Format(time.RFC3339),
				"timeout_sec":    timeout.Seconds(),
			})
		}
	}
}

// State returns a copy of an observatory's state, or nil.
func (m *Monitor) State(id string) *ObservatoryState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if state, ok := m.observatories[id]; ok {
		cpy := *state
		return &cpy
	}
	return nil
}

// States returns copies of every tracked observatory, sorted by id.
func (m *Monitor) States() []ObservatoryState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ObservatoryState, 0, len(m.observatories))
	for _, state := range m.observatories {
		out = append(out, *state)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Connected returns the sorted ids of connected observatories.
func (m *Monitor) Connected() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, state := range m.observatories {
		if state.Connected {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// MissingRequired returns required observatories that are not connected.
func (m *Monitor) MissingRequired() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var missing []string
	for _, id := range RequiredObservatories(m.specs) {
		if state, ok := m.observatories[id]; !ok || !state.Connected {
			missing = append(missing, id)
		}
	}
	return missing
}
