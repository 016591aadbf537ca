package simulator

import (
	"sync"
	"time"

	"github.com/andres-erbsen/clock"
)

// DefaultFlashDuration is how long a highlight stays after the latest change.
const DefaultFlashDuration = 600 * time.Millisecond

type flashEntry struct {
	dir   Direction
	timer *clock.Timer
	seq   uint64
}

// FlashTracker maps row ids to an active highlight. Each id holds at most one
// pending expiry timer: a new Flash stops the previous timer before
// scheduling its own, and a stale callback that already fired is ignored
// through its sequence number.
type FlashTracker struct {
	mu       sync.Mutex
	clk      clock.Clock
	ttl      time.Duration
	entries  map[string]*flashEntry
	seq      uint64
	stopped  bool
	onExpire func(id string)
}

// NewFlashTracker creates a tracker driven by clk.
func NewFlashTracker(clk clock.Clock, ttl time.Duration) *FlashTracker {
	if ttl <= 0 {
		ttl = DefaultFlashDuration
	}
	return &FlashTracker{
		clk:     clk,
		ttl:     ttl,
		entries: make(map[string]*flashEntry),
	}
}

// OnExpire registers a callback run after an entry is cleared. It is called
// without the tracker lock held.
func (f *FlashTracker) OnExpire(fn func(id string)) {
	f.mu.Lock()
	f.onExpire = fn
	f.mu.Unlock()
}

// Flash sets or overwrites the direction for id and restarts its expiry.
func (f *FlashTracker) Flash(id string, dir Direction) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return
	}

	if prev, ok := f.entries[id]; ok {
		prev.timer.Stop()
	}

	f.seq++
	seq := f.seq
	f.entries[id] = &flashEntry{
		dir:   dir,
		seq:   seq,
		timer: f.clk.AfterFunc(f.ttl, func() { f.expire(id, seq) }),
	}
}

func (f *FlashTracker) expire(id string, seq uint64) {
	f.mu.Lock()
	e, ok := f.entries[id]
	if !ok || e.seq != seq {
		f.mu.Unlock()
		return
	}
	delete(f.entries, id)
	cb := f.onExpire
	f.mu.Unlock()

	if cb != nil {
		cb(id)
	}
}

// Direction returns the active highlight for id.
func (f *FlashTracker) Direction(id string) (Direction, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[id]
	if !ok {
		return "", false
	}
	return e.dir, true
}

// Active reports whether id is highlighted.
func (f *FlashTracker) Active(id string) bool {
	_, ok := f.Direction(id)
	return ok
}

// Snapshot copies the active highlights.
func (f *FlashTracker) Snapshot() map[string]Direction {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]Direction, len(f.entries))
	for id, e := range f.entries {
		out[id] = e.dir
	}
	return out
}

// Pending returns the number of live expiry timers.
func (f *FlashTracker) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// Stop cancels every pending timer and clears the map. Later Flash calls are
// ignored.
func (f *FlashTracker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopped = true
	for id, e := range f.entries {
		e.timer.Stop()
		delete(f.entries, id)
	}
}
