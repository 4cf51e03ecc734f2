package api

import (
	"net/http"
	"strings"
	"sync"
)

// readinessState tracks the dependencies reported by /ready.
type readinessState struct {
	mu               sync.RWMutex
	editorReady      bool
	mqttConnected    bool
	mqttOptional     bool
	storageConnected bool
	storageOptional  bool
}

var readiness = &readinessState{}

// ReadinessCheck is the status of one dependency.
type ReadinessCheck struct {
	Status   string `json:"status"`
	Optional bool   `json:"optional,omitempty"`
}

type ReadinessResponse struct {
	Ready       bool                      `json:"ready"`
	Checks      map[string]ReadinessCheck `json:"checks"`
	NotReadyMsg string                    `json:"message,omitempty"`
}

// SetEditorReady marks the editing session as restored and serving.
func SetEditorReady(ready bool) {
	readiness.mu.Lock()
	defer readiness.mu.Unlock()
	readiness.editorReady = ready
}

// SetMQTTState records broker connectivity. An optional broker never blocks
// readiness.
func SetMQTTState(connected, optional bool) {
	readiness.mu.Lock()
	defer readiness.mu.Unlock()
	readiness.mqttConnected = connected
	readiness.mqttOptional = optional
}

// SetStorageState records sequence storage connectivity.
func SetStorageState(connected, optional bool) {
	readiness.mu.Lock()
	defer readiness.mu.Unlock()
	readiness.storageConnected = connected
	readiness.storageOptional = optional
}

func dependencyCheck(connected, optional bool) (ReadinessCheck, bool) {
	switch {
	case connected:
		return ReadinessCheck{Status: "ok", Optional: optional}, true
	case optional:
		return ReadinessCheck{Status: "unavailable", Optional: true}, true
	default:
		return ReadinessCheck{Status: "not_ready"}, false
	}
}

func readyHandler(w http.ResponseWriter, r *http.Request) {
	readiness.mu.RLock()
	editorReady := readiness.editorReady
	mqttCheck, mqttOK := dependencyCheck(readiness.mqttConnected, readiness.mqttOptional)
	storageCheck, storageOK := dependencyCheck(readiness.storageConnected, readiness.storageOptional)
	readiness.mu.RUnlock()

	resp := ReadinessResponse{
		Ready:  true,
		Checks: map[string]ReadinessCheck{"mqtt": mqttCheck, "storage": storageCheck},
	}

	var reasons []string
	if editorReady {
		resp.Checks["editor"] = ReadinessCheck{Status: "ok"}
	} else {
		resp.Checks["editor"] = ReadinessCheck{Status: "not_ready"}
		reasons = append(reasons, "editor session not ready")
	}
	if !mqttOK {
		reasons = append(reasons, "mqtt not connected")
	}
	if !storageOK {
		reasons = append(reasons, "storage not connected")
	}

	status := http.StatusOK
	if len(reasons) > 0 {
		resp.Ready = false
		resp.NotReadyMsg = strings.Join(reasons, "; ")
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
