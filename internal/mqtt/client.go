package mqtt

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/AaronLay10/nina-sequence-editor/internal/config"
)

// DefaultTopicPrefix roots the observatory topics.
const DefaultTopicPrefix = "ninaseq"

const (
	opTimeout       = 10 * time.Second
	presenceOnline  = "online"
	presenceOffline = "offline"
)

// Broker is the subset of the MQTT client used by the subscriber and deployer.
type Broker interface {
	Subscribe(topic string, handler paho.MessageHandler) error
	Publish(topic string, payload []byte) error
	IsConnected() bool
}

// ClientOptions configures the editor's broker connection. Username and
// password come from MQTT_USER and MQTT_PASS (or their *_FILE variants)
// when left empty.
type ClientOptions struct {
	ClientID string
	Prefix   string
	Username string
	Password string
}

// Client is the editor's connection to the observatory broker. It keeps a
// retained presence message on <prefix>/editor/<client id> and restores
// every subscription after a reconnect.
type Client struct {
	client   paho.Client
	presence string

	mu   sync.Mutex
	subs map[string]paho.MessageHandler
}

var _ Broker = (*Client)(nil)

// BrokerURL returns MQTT_URL, defaulting to a local broker.
func BrokerURL() string {
	if url := os.Getenv("MQTT_URL"); url != "" {
		return url
	}
	return "tcp://localhost:1883"
}

// NewClient builds a client. It does not connect.
func NewClient(o ClientOptions) (*Client, error) {
	if o.Prefix == "" {
		o.Prefix = DefaultTopicPrefix
	}
	if o.Username == "" {
		user, err := config.ResolveSecret("MQTT_USER")
		if err != nil {
			return nil, err
		}
		pass, err := config.ResolveSecret("MQTT_PASS")
		if err != nil {
			return nil, err
		}
		o.Username, o.Password = user, pass
	}

	c := &Client{
		presence: PresenceTopic(o.Prefix, o.ClientID),
		subs:     make(map[string]paho.MessageHandler),
	}

	opts := paho.NewClientOptions().
		AddBroker(BrokerURL()).
		SetClientID(o.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second).
		SetBinaryWill(c.presence, []byte(presenceOffline), 1, true).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})
	if o.Username != "" {
		opts.SetUsername(o.Username).SetPassword(o.Password)
	}
	c.client = paho.NewClient(opts)
	return c, nil
}

// onConnect runs on every (re)connect: announce presence, then resubscribe.
func (c *Client) onConnect(pc paho.Client) {
	pc.Publish(c.presence, 1, true, []byte(presenceOnline))

	c.mu.Lock()
	subs := make(map[string]paho.MessageHandler, len(c.subs))
	for topic, h := range c.subs {
		subs[topic] = h
	}
	c.mu.Unlock()

	for topic, h := range subs {
		if err := wait(pc.Subscribe(topic, 1, h), "resubscribe", topic); err != nil {
			log.Printf("mqtt: %v", err)
		}
	}
}

// TimeoutError reports a broker operation that did not complete in time.
type TimeoutError struct {
	Op    string
	Topic string
}

func (e *TimeoutError) Error() string {
	if e.Topic == "" {
		return "mqtt " + e.Op + " timeout"
	}
	return "mqtt " + e.Op + " timeout: " + e.Topic
}

func wait(t paho.Token, op, topic string) error {
	if !t.WaitTimeout(opTimeout) {
		return &TimeoutError{Op: op, Topic: topic}
	}
	if err := t.Error(); err != nil {
		return fmt.Errorf("mqtt %s %s: %w", op, topic, err)
	}
	return nil
}

// Connect dials the broker, waiting at most ten seconds.
func (c *Client) Connect() error {
	return wait(c.client.Connect(), "connect", "")
}

// Subscribe subscribes with QoS 1 and remembers the handler for reconnects.
func (c *Client) Subscribe(topic string, handler paho.MessageHandler) error {
	if err := wait(c.client.Subscribe(topic, 1, handler), "subscribe", topic); err != nil {
		return err
	}
	c.mu.Lock()
	c.subs[topic] = handler
	c.mu.Unlock()
	return nil
}

// Publish sends payload to topic with QoS 1.
func (c *Client) Publish(topic string, payload []byte) error {
	return wait(c.client.Publish(topic, 1, false, payload), "publish", topic)
}

// Disconnect marks the editor offline and closes the connection.
func (c *Client) Disconnect() {
	if c.client.IsConnected() {
		c.client.Publish(c.presence, 1, true, []byte(presenceOffline)).WaitTimeout(time.Second)
	}
	c.client.Disconnect(1000)
}

func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}

// StartWithRetry connects and subscribes to topic, logging instead of
// failing. It reports whether both steps succeeded.
func (c *Client) StartWithRetry(topic string, handler paho.MessageHandler) bool {
	if err := c.Connect(); err != nil {
		log.Printf("mqtt: failed to connect to %s: %v", BrokerURL(), err)
		return false
	}
	if err := c.Subscribe(topic, handler); err != nil {
		log.Printf("mqtt: %v", err)
		return false
	}
	log.Printf("mqtt: connected and subscribed to %s", topic)
	return true
}

// RegisterTopic returns the topic observatories announce themselves on.
func RegisterTopic(prefix string) string {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return prefix + "/register"
}

// PresenceTopic returns the retained online/offline topic of an editor.
func PresenceTopic(prefix, clientID string) string {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return prefix + "/editor/" + clientID
}
