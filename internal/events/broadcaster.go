package events

import (
	"strings"
	"sync"
	"sync/atomic"
)

const subscriptionBuffer = 64

// Subscription delivers live events whose names start with one of its
// prefixes. No prefixes means every event.
type Subscription struct {
	C <-chan Event

	ch       chan Event
	prefixes []string
	dropped  atomic.Int64
}

// Matches reports whether the subscription wants events named name.
func (s *Subscription) Matches(name string) bool {
	if len(s.prefixes) == 0 {
		return true
	}
	for _, p := range s.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Dropped returns how many events this subscriber missed because its buffer
// was full.
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

var hub = struct {
	mu      sync.RWMutex
	subs    map[*Subscription]struct{}
	dropped atomic.Int64
}{
	subs: make(map[*Subscription]struct{}),
}

// Subscribe registers a subscriber for events matching prefixes.
func Subscribe(prefixes ...string) *Subscription {
	ch := make(chan Event, subscriptionBuffer)
	s := &Subscription{C: ch, ch: ch, prefixes: prefixes}
	hub.mu.Lock()
	hub.subs[s] = struct{}{}
	hub.mu.Unlock()
	return s
}

// Unsubscribe removes s and closes its channel. Safe to call twice.
func Unsubscribe(s *Subscription) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if _, ok := hub.subs[s]; !ok {
		return
	}
	delete(hub.subs, s)
	close(s.ch)
}

// broadcast never blocks: a subscriber with a full buffer loses the event.
func broadcast(e Event) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for s := range hub.subs {
		if !s.Matches(e.Name) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			s.dropped.Add(1)
			hub.dropped.Add(1)
		}
	}
}

func SubscriberCount() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.subs)
}

// DroppedCount returns the events lost to slow subscribers since startup.
func DroppedCount() int64 {
	return hub.dropped.Load()
}

// RecentEvents returns the last n buffered events, or all of them when n is
// not positive or exceeds the buffer.
func RecentEvents(n int) []Event {
	all := buffer.Events()
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

// Since returns buffered events emitted after seq. See Ring.Since.
func Since(seq int64) ([]Event, bool) {
	return buffer.Since(seq)
}

// CloseAllSubscribers closes and removes every subscriber. Called on shutdown.
func CloseAllSubscribers() {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for s := range hub.subs {
		close(s.ch)
		delete(hub.subs, s)
	}
}
