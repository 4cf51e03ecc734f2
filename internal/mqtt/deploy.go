package mqtt

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/AaronLay10/nina-sequence-editor/internal/events"
	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// DeployCommand is the payload published to an observatory's command topic.
type DeployCommand struct {
	Action   string             `json:"action"`
	Sequence *sequence.Sequence `json:"sequence"`
}

// Deployer sends sequences to registered observatories.
type Deployer struct {
	broker   Broker
	registry *Registry
}

// NewDeployer creates a deployer. broker may be nil when MQTT is disabled.
func NewDeployer(broker Broker, registry *Registry) *Deployer {
	return &Deployer{broker: broker, registry: registry}
}

// Deploy validates seq and publishes it to the observatory's command topic.
func (d *Deployer) Deploy(observatoryID string, seq *sequence.Sequence) error {
	if seq == nil {
		return d.fail(observatoryID, "", "", "no sequence")
	}
	if res := sequence.Validate(seq); !res.Valid {
		return d.fail(observatoryID, seq.ID, "", "sequence invalid: "+strings.Join(res.Errors, "; "))
	}
	if d.registry == nil {
		return d.fail(observatoryID, seq.ID, "", "observatory registry not available")
	}

	topic, err := d.registry.CommandTopic(observatoryID)
	if err != nil {
		return d.fail(observatoryID, seq.ID, "", err.Error())
	}

	payload, err := json.Marshal(DeployCommand{Action: "load_sequence", Sequence: seq})
	if err != nil {
		return d.fail(observatoryID, seq.ID, topic, fmt.Sprintf("failed to marshal payload: %v", err))
	}

	if d.broker == nil || !d.broker.IsConnected() {
		return d.fail(observatoryID, seq.ID, topic, "MQTT client not connected")
	}
	if err := d.broker.Publish(topic, payload); err != nil {
		return d.fail(observatoryID, seq.ID, topic, fmt.Sprintf("MQTT publish failed: %v", err))
	}

	events.Emit("info", "sequence.deployed", "", map[string]interface{}{
		"observatory_id": observatoryID,
		"sequence_id":    seq.ID,
		"topic":          topic,
		"bytes":          len(payload),
	})
	return nil
}

// fail emits observatory.error with full context and returns an error.
func (d *Deployer) fail(observatoryID, sequenceID, topic, msg string) error {
	fields := map[string]interface{}{
		"observatory_id": observatoryID,
		"error":          msg,
	}
	if sequenceID != "" {
		fields["sequence_id"] = sequenceID
	}
	if topic != "" {
		fields["topic"] = topic
	}
	events.Emit("error", "observatory.error", msg, fields)
	return errors.New(msg)
}
