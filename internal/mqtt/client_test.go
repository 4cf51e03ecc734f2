package mqtt

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTopics(t *testing.T) {
	if got := RegisterTopic(""); got != "ninaseq/register" {
		t.Errorf("expected default register topic, got %s", got)
	}
	if got := RegisterTopic("obs"); got != "obs/register" {
		t.Errorf("expected obs/register, got %s", got)
	}
	if got := PresenceTopic("", "ninaseq-desk"); got != "ninaseq/editor/ninaseq-desk" {
		t.Errorf("unexpected presence topic %s", got)
	}
}

func TestBrokerURLFromEnv(t *testing.T) {
	t.Setenv("MQTT_URL", "")
	if got := BrokerURL(); got != "tcp://localhost:1883" {
		t.Errorf("expected local default, got %s", got)
	}
	t.Setenv("MQTT_URL", "tcp://broker:1883")
	if got := BrokerURL(); got != "tcp://broker:1883" {
		t.Errorf("expected env broker, got %s", got)
	}
}

func TestNewClientDoesNotConnect(t *testing.T) {
	t.Setenv("MQTT_USER", "")
	t.Setenv("MQTT_PASS", "")

	c, err := NewClient(ClientOptions{ClientID: "test-editor", Prefix: "obs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IsConnected() {
		t.Error("expected new client to be disconnected")
	}
	if c.presence != "obs/editor/test-editor" {
		t.Errorf("expected presence topic under prefix, got %s", c.presence)
	}
}

func TestNewClientSecretFileErrors(t *testing.T) {
	t.Setenv("MQTT_USER_FILE", filepath.Join(t.TempDir(), "missing"))

	if _, err := NewClient(ClientOptions{ClientID: "x"}); err == nil {
		t.Error("expected error for unreadable MQTT_USER_FILE")
	}

	path := filepath.Join(t.TempDir(), "user")
	if err := os.WriteFile(path, []byte("observer\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MQTT_USER_FILE", path)
	t.Setenv("MQTT_PASS", "secret")
	if _, err := NewClient(ClientOptions{ClientID: "x"}); err != nil {
		t.Errorf("unexpected error with readable secret file: %v", err)
	}
}

func TestTimeoutError(t *testing.T) {
	var err error = &TimeoutError{Op: "publish", Topic: "obs/cmd"}
	var te *TimeoutError
	if !errors.As(err, &te) || te.Op != "publish" {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if err.Error() != "mqtt publish timeout: obs/cmd" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if msg := (&TimeoutError{Op: "connect"}).Error(); msg != "mqtt connect timeout" {
		t.Errorf("unexpected message %q", msg)
	}
}
