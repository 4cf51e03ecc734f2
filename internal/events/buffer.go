package events

import (
	"sort"
	"sync"
)

// Ring keeps the latest events in emit order. Seq grows by one per event, so
// a reader that remembers the last Seq it saw can resume with Since.
type Ring struct {
	mu    sync.RWMutex
	buf   []Event
	next  int
	count int
	last  int64 // highest Seq ever added; survives Clear
}

func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]Event, capacity)}
}

func (r *Ring) Add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = e
	if e.Seq > r.last {
		r.last = e.Seq
	}
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Events returns the buffered events, oldest first.
func (r *Ring) Events() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.events()
}

func (r *Ring) events() []Event {
	out := make([]Event, 0, r.count)
	start := (r.next - r.count + len(r.buf)) % len(r.buf)
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

// Since returns the buffered events with Seq above seq. complete is false
// when some of those events were already overwritten or cleared.
func (r *Ring) Since(seq int64) (evs []Event, complete bool) {
	r.mu.RLock()
	all, last := r.events(), r.last
	r.mu.RUnlock()

	i := sort.Search(len(all), func(i int) bool { return all[i].Seq > seq })
	evs = all[i:]
	if len(evs) == 0 {
		return evs, seq >= last
	}
	return evs, evs[0].Seq == seq+1
}

func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.buf)
	r.next = 0
	r.count = 0
}
