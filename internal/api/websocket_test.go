package api

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/AaronLay10/nina-sequence-editor/internal/events"
)

// clearTLSEnv prevents TLS initialization from trying to load nonexistent certs.
func clearTLSEnv(t *testing.T) {
	t.Setenv("NINASEQ_TLS_CERT", "")
	t.Setenv("NINASEQ_TLS_KEY", "")
	SetTLSConfigForTest(nil)
}

// waitFor polls a condition until it returns true or timeout expires.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("timeout waiting for: %s", msg)
}

func dialEvents(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) events.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var e events.Event
	if err := json.Unmarshal(msg, &e); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}
	return e
}

func TestWebSocketReceivesRecentEvents(t *testing.T) {
	clearTLSEnv(t)
	events.Clear()

	for i := 0; i < 5; i++ {
		events.Emit("info", "item.added", "", map[string]interface{}{"i": i})
	}

	server := httptest.NewServer(http.HandlerFunc(wsEventsHandler))
	defer server.Close()

	conn := dialEvents(t, server, "")
	defer conn.Close()

	for received := 0; received < 5; received++ {
		if e := readEvent(t, conn); e.Name != "item.added" {
			t.Errorf("expected 'item.added', got '%s'", e.Name)
		}
	}
}

func TestWebSocketReceivesNewEvents(t *testing.T) {
	clearTLSEnv(t)
	events.Clear()

	server := httptest.NewServer(http.HandlerFunc(wsEventsHandler))
	defer server.Close()

	conn := dialEvents(t, server, "")
	defer conn.Close()

	go func() {
		time.Sleep(50 * time.Millisecond)
		events.Emit("info", "history.undo", "", map[string]interface{}{"sequence_id": "seq-1"})
	}()

	e := readEvent(t, conn)
	if e.Name != "history.undo" {
		t.Errorf("expected 'history.undo', got '%s'", e.Name)
	}
	if e.Fields["sequence_id"] != "seq-1" {
		t.Errorf("expected sequence_id 'seq-1', got '%v'", e.Fields["sequence_id"])
	}
}

func TestWebSocketPrefixFilter(t *testing.T) {
	clearTLSEnv(t)
	events.Clear()

	events.Emit("info", "selection.changed", "", nil)
	events.Emit("info", "clipboard.copied", "", map[string]interface{}{"count": 1})

	server := httptest.NewServer(http.HandlerFunc(wsEventsHandler))
	defer server.Close()

	conn := dialEvents(t, server, "?prefix=clipboard.,history.")
	defer conn.Close()

	if e := readEvent(t, conn); e.Name != "clipboard.copied" {
		t.Errorf("expected replay filtered to 'clipboard.copied', got '%s'", e.Name)
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		events.Emit("info", "item.deleted", "", nil)
		events.Emit("info", "history.redo", "", nil)
	}()

	if e := readEvent(t, conn); e.Name != "history.redo" {
		t.Errorf("expected 'history.redo' after filtered item event, got '%s'", e.Name)
	}
}

func TestWebSocketResumesFromSeq(t *testing.T) {
	clearTLSEnv(t)
	events.Clear()

	events.Emit("info", "item.added", "", nil)
	mark := events.TotalCount()
	events.Emit("info", "item.moved", "", nil)
	events.Emit("info", "item.deleted", "", nil)

	server := httptest.NewServer(http.HandlerFunc(wsEventsHandler))
	defer server.Close()

	conn := dialEvents(t, server, "?since="+strconv.FormatInt(mark, 10))
	defer conn.Close()

	if e := readEvent(t, conn); e.Name != "item.moved" || e.Seq != mark+1 {
		t.Errorf("expected item.moved at seq %d, got %s at %d", mark+1, e.Name, e.Seq)
	}
	if e := readEvent(t, conn); e.Name != "item.deleted" {
		t.Errorf("expected 'item.deleted', got '%s'", e.Name)
	}
}

func TestWebSocketDisconnectCleansUp(t *testing.T) {
	clearTLSEnv(t)
	events.Clear()
	events.CloseAllSubscribers()

	server := httptest.NewServer(http.HandlerFunc(wsEventsHandler))
	defer server.Close()

	conn := dialEvents(t, server, "")

	go func() {
		time.Sleep(20 * time.Millisecond)
		events.Emit("info", "item.added", "", map[string]interface{}{"test": "cleanup"})
	}()
	if e := readEvent(t, conn); e.Name != "item.added" {
		t.Errorf("expected 'item.added', got '%s'", e.Name)
	}

	conn.Close()

	// Emit events so the writer notices the closed connection.
	for i := 0; i < 5; i++ {
		events.Emit("info", "item.added", "", nil)
		time.Sleep(50 * time.Millisecond)
	}

	waitFor(t, 5*time.Second, func() bool {
		return events.SubscriberCount() == 0
	}, "subscriber count to return to 0 after close")
}

func TestWebSocketMultipleClients(t *testing.T) {
	clearTLSEnv(t)
	events.Clear()

	server := httptest.NewServer(http.HandlerFunc(wsEventsHandler))
	defer server.Close()

	conn1 := dialEvents(t, server, "")
	defer conn1.Close()
	conn2 := dialEvents(t, server, "")
	defer conn2.Close()

	go func() {
		time.Sleep(50 * time.Millisecond)
		events.Emit("info", "clipboard.copied", "", map[string]interface{}{"count": 2})
	}()

	if e := readEvent(t, conn1); e.Name != "clipboard.copied" {
		t.Errorf("client1: expected 'clipboard.copied', got '%s'", e.Name)
	}
	if e := readEvent(t, conn2); e.Name != "clipboard.copied" {
		t.Errorf("client2: expected 'clipboard.copied', got '%s'", e.Name)
	}
}
