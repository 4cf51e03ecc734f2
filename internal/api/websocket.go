package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/AaronLay10/nina-sequence-editor/internal/events"
)

const (
	// Number of recent events to send on connection
	recentEventsCount = 50

	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// parsePrefixes reads the comma separated "prefix" query parameter,
// e.g. ?prefix=item.,history.
func parsePrefixes(r *http.Request) []string {
	var prefixes []string
	for _, p := range strings.Split(r.URL.Query().Get("prefix"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

// replayEvents returns the buffered events a new client should see: those
// after ?since=<seq> when given, otherwise the most recent ones.
func replayEvents(r *http.Request) []events.Event {
	if raw := r.URL.Query().Get("since"); raw != "" {
		if seq, err := strconv.ParseInt(raw, 10, 64); err == nil {
			evs, complete := events.Since(seq)
			if !complete {
				log.Printf("ws replay from seq %d is incomplete", seq)
			}
			return evs
		}
	}
	return events.RecentEvents(recentEventsCount)
}

func writeEvent(conn *websocket.Conn, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// wsEventsHandler streams editor events over a WebSocket. Buffered events
// are replayed first so a reconnecting client can catch up.
func wsEventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	sub := events.Subscribe(parsePrefixes(r)...)
	closeConn := func() {
		events.Unsubscribe(sub)
		conn.Close()
	}

	// Subscribe before reading the buffer so nothing falls in between.
	replay := replayEvents(r)
	var last int64
	if len(replay) > 0 {
		last = replay[len(replay)-1].Seq
	}
	for _, e := range replay {
		if !sub.Matches(e.Name) {
			continue
		}
		if err := writeEvent(conn, e); err != nil {
			log.Printf("ws write recent event failed: %v", err)
			closeConn()
			return
		}
	}

	done := make(chan struct{})

	// Reader handles pongs and close frames.
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			closeConn()
			return

		case e, ok := <-sub.C:
			if !ok {
				conn.Close()
				return
			}
			// Already sent during replay.
			if e.Seq <= last {
				continue
			}
			if err := writeEvent(conn, e); err != nil {
				log.Printf("ws write event failed: %v", err)
				closeConn()
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				closeConn()
				return
			}
		}
	}
}
