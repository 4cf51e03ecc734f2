package api

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// Alert severity levels
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Alert event types
const (
	AlertMQTTDisconnected   = "mqtt_disconnected"
	AlertStorageUnavailable = "storage_unavailable"
	AlertObservatoryMissing = "observatory_missing"
)

// AlertPayload is the JSON structure sent to the webhook.
type AlertPayload struct {
	Editor    string                 `json:"editor"`
	Event     string                 `json:"event"`
	Timestamp string                 `json:"timestamp"`
	Severity  string                 `json:"severity"`
	Message   string                 `json:"message,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// outage tracks one dependency and decides when to alert about it.
type outage struct {
	event    string
	severity string
	downMsg  string
	upMsg    string
	delay    time.Duration

	up    bool
	since time.Time
	sent  bool
}

// observe records the current state and returns an alert to send, if any.
// An alert fires once after the dependency has been down for delay, and a
// recovery alert fires when it comes back.
func (o *outage) observe(ok bool, now time.Time, details map[string]interface{}) *AlertPayload {
	if ok {
		wasAlerted := !o.up && o.sent
		o.up, o.since, o.sent = true, time.Time{}, false
		if wasAlerted {
			return &AlertPayload{Event: o.event, Severity: SeverityInfo, Message: o.upMsg,
				Details: map[string]interface{}{"recovered_at": now.UTC().Format(time.RFC3339)}}
		}
		return nil
	}

	if o.up || o.since.IsZero() {
		o.since = now
	}
	o.up = false

	down := now.Sub(o.since)
	if o.sent || down < o.delay {
		return nil
	}
	o.sent = true
	if details == nil {
		details = map[string]interface{}{}
	}
	details["disconnected_since"] = o.since.UTC().Format(time.RFC3339)
	details["disconnected_seconds"] = int(down.Seconds())
	return &AlertPayload{Event: o.event, Severity: o.severity, Message: o.downMsg, Details: details}
}

type alertState struct {
	mu          sync.Mutex
	webhookURL  string
	initialized bool
	mqtt        outage
	storage     outage
	required    outage
}

var alerts = newAlertState()

func newOutage(event, severity, downMsg, upMsg string, delay time.Duration) outage {
	return outage{event: event, severity: severity, downMsg: downMsg, upMsg: upMsg, delay: delay, up: true}
}

func newAlertState() *alertState {
	return &alertState{
		mqtt: newOutage(AlertMQTTDisconnected, SeverityWarning,
			"MQTT broker disconnected", "MQTT connection restored", 30*time.Second),
		storage: newOutage(AlertStorageUnavailable, SeverityCritical,
			"sequence storage unavailable", "sequence storage restored", 5*time.Second),
		required: newOutage(AlertObservatoryMissing, SeverityWarning,
			"required observatories not connected", "required observatories connected", 2*time.Minute),
	}
}

// InitAlerts reads NINASEQ_ALERT_WEBHOOK_URL and the optional
// NINASEQ_MQTT_ALERT_DELAY / NINASEQ_STORAGE_ALERT_DELAY durations.
func InitAlerts() {
	a := newAlertState()
	a.webhookURL = os.Getenv("NINASEQ_ALERT_WEBHOOK_URL")
	if d, err := time.ParseDuration(os.Getenv("NINASEQ_MQTT_ALERT_DELAY")); err == nil {
		a.mqtt.delay = d
	}
	if d, err := time.ParseDuration(os.Getenv("NINASEQ_STORAGE_ALERT_DELAY")); err == nil {
		a.storage.delay = d
	}
	a.initialized = true

	if a.webhookURL != "" {
		log.Printf("Alerts enabled: webhook URL configured (mqtt_delay=%s, storage_delay=%s)",
			a.mqtt.delay, a.storage.delay)
	}
	alerts = a
}

// GetAlertWebhookURL returns the configured webhook URL.
func GetAlertWebhookURL() string {
	alerts.mu.Lock()
	defer alerts.mu.Unlock()
	return alerts.webhookURL
}

// SendAlert posts an alert to the webhook in the background, or logs it
// when no webhook is configured.
func SendAlert(event, severity, message string, details map[string]interface{}) {
	send(&AlertPayload{Event: event, Severity: severity, Message: message, Details: details})
}

func send(p *AlertPayload) {
	url := GetAlertWebhookURL()
	if url == "" {
		log.Printf("[ALERT] %s severity=%s msg=%q details=%v", p.Event, p.Severity, p.Message, p.Details)
		return
	}

	p.Editor = GetEditorName()
	if p.Editor == "" {
		p.Editor = "unknown"
	}
	p.Timestamp = time.Now().UTC().Format(time.RFC3339)
	go sendWebhook(url, *p)
}

func sendWebhook(url string, payload AlertPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("alert: failed to marshal payload: %v", err)
		return
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("alert: webhook POST failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("alert: webhook returned status %d", resp.StatusCode)
	}
}

func (a *alertState) check(o *outage, ok bool, now time.Time, details map[string]interface{}) {
	a.mu.Lock()
	if !a.initialized {
		a.mu.Unlock()
		return
	}
	p := o.observe(ok, now, details)
	a.mu.Unlock()
	if p != nil {
		send(p)
	}
}

// CheckAndAlertMQTT feeds the broker connection state into the alert tracker.
func CheckAndAlertMQTT(connected bool) {
	alerts.check(&alerts.mqtt, connected, time.Now(), nil)
}

// CheckAndAlertStorage feeds the storage connection state into the alert tracker.
func CheckAndAlertStorage(connected bool) {
	alerts.check(&alerts.storage, connected, time.Now(), nil)
}

// CheckAndAlertObservatories alerts when required observatories stay missing.
func CheckAndAlertObservatories(missing []string) {
	var details map[string]interface{}
	if len(missing) > 0 {
		details = map[string]interface{}{"missing": strings.Join(missing, ",")}
	}
	alerts.check(&alerts.required, len(missing) == 0, time.Now(), details)
}

// RunAlertMonitor checks readiness state every interval until ctx is done.
func RunAlertMonitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			readiness.mu.RLock()
			mqttConnected := readiness.mqttConnected || readiness.mqttOptional
			storageConnected := readiness.storageConnected || readiness.storageOptional
			readiness.mu.RUnlock()

			CheckAndAlertMQTT(mqttConnected)
			CheckAndAlertStorage(storageConnected)
			if observatories != nil {
				CheckAndAlertObservatories(observatories.MissingRequired())
			}
		}
	}
}
