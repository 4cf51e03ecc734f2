package mqtt

import (
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	json "github.com/goccy/go-json"

	"github.com/AaronLay10/nina-sequence-editor/internal/events"
)

// StatusSubscriber subscribes to observatory status topics and re-emits
// messages as observatory.status. Subscriptions are idempotent across
// re-registrations.
type StatusSubscriber struct {
	mu         sync.RWMutex
	broker     Broker
	monitor    *Monitor
	subscribed map[string]bool // topic -> subscribed
}

// NewStatusSubscriber creates a subscriber. monitor may be nil.
func NewStatusSubscriber(broker Broker, monitor *Monitor) *StatusSubscriber {
	return &StatusSubscriber{
		broker:     broker,
		monitor:    monitor,
		subscribed: make(map[string]bool),
	}
}

// Subscribe subscribes to an observatory's status topic if not already
// subscribed.
func (s *StatusSubscriber) Subscribe(obs *RegisteredObservatory) error {
	if obs.StatusTopic == "" {
		return nil
	}

	s.mu.Lock()
	if s.subscribed[obs.StatusTopic] {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.broker.Subscribe(obs.StatusTopic, s.handler(obs.ID, obs.StatusTopic)); err != nil {
		return err
	}

	s.mu.Lock()
	s.subscribed[obs.StatusTopic] = true
	s.mu.Unlock()
	return nil
}

// SubscribeAll subscribes to every observatory in the registry.
func (s *StatusSubscriber) SubscribeAll(registry *Registry) {
	for _, obs := range registry.All() {
		if err := s.Subscribe(obs); err != nil {
			events.Emit("error", "observatory.error", "failed to subscribe to status", map[string]interface{}{
				"observatory_id": obs.ID,
				"topic":          obs.StatusTopic,
				"error":          err.Error(),
			})
		}
	}
}

func (s *StatusSubscriber) handler(observatoryID, topic string) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		if s.monitor != nil {
			s.monitor.Touch(observatoryID)
		}
		events.Emit("info", "observatory.status", "", map[string]interface{}{
			"observatory_id": observatoryID,
			"topic":          topic,
			"payload":        decodePayload(msg.Payload()),
		})
	}
}

// decodePayload returns parsed JSON, or the raw string when it is not JSON.
func decodePayload(b []byte) interface{} {
	var payload interface{}
	if err := json.Unmarshal(b, &payload); err != nil {
		return string(b)
	}
	return payload
}

// IsSubscribed returns true if the topic is already subscribed.
func (s *StatusSubscriber) IsSubscribed(topic string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subscribed[topic]
}

// SubscribedTopics returns a list of all subscribed topics.
func (s *StatusSubscriber) SubscribedTopics() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topics := make([]string, 0, len(s.subscribed))
	for topic := range s.subscribed {
		topics = append(topics, topic)
	}
	return topics
}

// ClearSubscriptions clears the subscription tracking.
// Call this on disconnect to allow re-subscription on reconnect.
func (s *StatusSubscriber) ClearSubscriptions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribed = make(map[string]bool)
}

// RegistrationHandler parses registrations, records them in the monitor and
// subscribes to the new observatory's status topic.
func RegistrationHandler(monitor *Monitor, sub *StatusSubscriber) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		payload, err := ParseRegistration(msg.Payload())
		if err != nil {
			events.Emit("error", "observatory.error", "invalid registration", map[string]interface{}{
				"topic": msg.Topic(),
				"error": err.Error(),
			})
			return
		}
		if !monitor.HandleRegistration(payload).Valid || sub == nil {
			return
		}
		if obs := monitor.Registry().Get(payload.Observatory.ID); obs != nil {
			if err := sub.Subscribe(obs); err != nil {
				events.Emit("error", "observatory.error", "failed to subscribe to status", map[string]interface{}{
					"observatory_id": obs.ID,
					"topic":          obs.StatusTopic,
					"error":          err.Error(),
				})
			}
		}
	}
}
