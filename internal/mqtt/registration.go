package mqtt

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// DefaultHeartbeatSec applies when a registration omits heartbeat_sec.
const DefaultHeartbeatSec = 30

// RegistrationPayload represents a v1 observatory registration message.
type RegistrationPayload struct {
	Version     int               `json:"version"`
	Observatory ObservatoryInfo   `json:"observatory"`
	Topics      ObservatoryTopics `json:"topics"`
}

// ObservatoryInfo describes the NINA rig announcing itself.
type ObservatoryInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Software     string `json:"software"`
	HeartbeatSec int    `json:"heartbeat_sec"`
}

// ObservatoryTopics are the topics the rig publishes status on and
// listens for commands on.
type ObservatoryTopics struct {
	Status   string `json:"status"`
	Commands string `json:"commands"`
}

// ParseRegistration parses a registration payload from JSON bytes.
func ParseRegistration(data []byte) (*RegistrationPayload, error) {
	var payload RegistrationPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid registration JSON: %w", err)
	}

	if payload.Version != 1 {
		return nil, fmt.Errorf("unsupported registration version: %d", payload.Version)
	}

	if payload.Observatory.ID == "" {
		return nil, fmt.Errorf("observatory.id is required")
	}

	if payload.Observatory.HeartbeatSec <= 0 {
		payload.Observatory.HeartbeatSec = DefaultHeartbeatSec
	}

	return &payload, nil
}

// ObservatorySpec is an observatory expected by the editor config.
type ObservatorySpec struct {
	Name     string
	Required bool
}

// ValidationResult contains validation outcome.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// ValidateRegistration checks a registration against the configured
// observatories. With no configuration every observatory is accepted.
func ValidateRegistration(payload *RegistrationPayload, specs map[string]ObservatorySpec) *ValidationResult {
	result := &ValidationResult{Valid: true}
	id := payload.Observatory.ID

	if len(specs) > 0 {
		if _, ok := specs[id]; !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("unknown observatory: %s", id))
			result.Valid = false
		}
	}

	if payload.Topics.Commands == "" {
		result.Errors = append(result.Errors, fmt.Sprintf("observatory %s: topics.commands is required", id))
		result.Valid = false
	}
	if payload.Topics.Status == "" {
		result.Warnings = append(result.Warnings, fmt.Sprintf("observatory %s: no status topic, health is registration-only", id))
	}

	return result
}

// RequiredObservatories returns the sorted ids of required specs.
func RequiredObservatories(specs map[string]ObservatorySpec) []string {
	var ids []string
	for id, spec := range specs {
		if spec.Required {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
