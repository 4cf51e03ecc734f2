package api

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/AaronLay10/nina-sequence-editor/internal/editor"
	"github.com/AaronLay10/nina-sequence-editor/internal/events"
	"github.com/AaronLay10/nina-sequence-editor/internal/version"
)

var metricsState = &MetricsState{}

// MetricsState holds runtime metrics for the /metrics endpoint.
type MetricsState struct {
	mu                sync.RWMutex
	startTime         time.Time
	editorName        string
	lastDeployTimeSec int64 // Unix timestamp, -1 if never deployed
}

// InitMetrics initializes the metrics system. Must be called at startup.
func InitMetrics() {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.startTime = time.Now()
	metricsState.lastDeployTimeSec = -1
}

// SetEditorName sets the editor name used in metric labels and alerts.
func SetEditorName(name string) {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.editorName = name
}

// GetEditorName returns the current editor name.
func GetEditorName() string {
	metricsState.mu.RLock()
	defer metricsState.mu.RUnlock()
	return metricsState.editorName
}

// SetLastDeploy records the time of the last successful deploy.
func SetLastDeploy(ts time.Time) {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.lastDeployTimeSec = ts.Unix()
}

func boolGauge(b bool) int {
	if b {
		return 1
	}
	return 0
}

// metricsHandler returns Prometheus-compatible metrics in text format.
func metricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	metricsState.mu.RLock()
	startTime := metricsState.startTime
	editorName := metricsState.editorName
	lastDeploy := metricsState.lastDeployTimeSec
	metricsState.mu.RUnlock()

	readiness.mu.RLock()
	editorReady := readiness.editorReady
	mqttConnected := readiness.mqttConnected
	storageConnected := readiness.storageConnected
	readiness.mu.RUnlock()

	var (
		totalItems, historyLen int
		dirty                  bool
		lastSave               int64 = -1
	)
	if sess != nil {
		sess.Do(func(st *editor.Store) {
			totalItems = st.Stats().TotalItems
			historyLen = st.History().Len()
			dirty = st.Dirty()
		})
		if ts := sess.LastSaved(); !ts.IsZero() {
			lastSave = ts.Unix()
		}
	}

	connectedObs := 0
	if observatories != nil {
		for _, s := range observatories.States() {
			if s.Connected {
				connectedObs++
			}
		}
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	writeMetric := func(name, mtype, help string, value interface{}, labels string) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		fmt.Fprintf(w, "%s{%s} %v\n", name, labels, value)
	}

	labels := fmt.Sprintf(`editor="%s",instance="%s",version="%s"`, editorName, hostname, version.Version)

	writeMetric("ninaseq_uptime_seconds", "gauge",
		"Number of seconds since the editor started", time.Since(startTime).Seconds(), labels)
	writeMetric("ninaseq_editor_ready", "gauge",
		"Whether the editing session is ready (1) or not (0)", boolGauge(editorReady), labels)
	writeMetric("ninaseq_events_total", "counter",
		"Total number of events emitted since startup", events.TotalCount(), labels)
	writeMetric("ninaseq_sequence_items", "gauge",
		"Number of items in the open sequence", totalItems, labels)
	writeMetric("ninaseq_sequence_dirty", "gauge",
		"Whether the open sequence has unsaved changes (1) or not (0)", boolGauge(dirty), labels)
	writeMetric("ninaseq_history_entries", "gauge",
		"Number of undo history snapshots", historyLen, labels)
	writeMetric("ninaseq_mqtt_connected", "gauge",
		"Whether MQTT broker is connected (1) or not (0)", boolGauge(mqttConnected), labels)
	writeMetric("ninaseq_storage_connected", "gauge",
		"Whether sequence storage is connected (1) or not (0)", boolGauge(storageConnected), labels)
	writeMetric("ninaseq_observatories_connected", "gauge",
		"Number of observatories with a live heartbeat", connectedObs, labels)
	writeMetric("ninaseq_ws_clients", "gauge",
		"Number of active WebSocket client connections", events.SubscriberCount(), labels)
	writeMetric("ninaseq_ws_dropped_events_total", "counter",
		"Events not delivered to slow WebSocket clients", events.DroppedCount(), labels)
	writeMetric("ninaseq_last_save_timestamp", "gauge",
		"Unix timestamp of last successful save (-1 if never)", lastSave, labels)
	writeMetric("ninaseq_last_deploy_timestamp", "gauge",
		"Unix timestamp of last successful deploy (-1 if never)", lastDeploy, labels)
}
