package ui

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pnl-dashboard/internal/dashboard"
)

// UpdateSender provides non-blocking UI update sending with statistics
type UpdateSender struct {
	msgChan        chan tea.Msg
	droppedUpdates uint64
	sentUpdates    uint64
	logger         *zap.Logger
	statsInterval  time.Duration
	stopStats      chan struct{}
	closeOnce      sync.Once
}

// NewUpdateSender creates a new non-blocking update sender
func NewUpdateSender(msgChan chan tea.Msg, logger *zap.Logger) *UpdateSender {
	us := &UpdateSender{
		msgChan:       msgChan,
		logger:        logger,
		statsInterval: 30 * time.Second,
		stopStats:     make(chan struct{}),
	}

	go us.logStats()

	return us
}

// SendUpdate sends a message to UI without blocking
func (us *UpdateSender) SendUpdate(msg tea.Msg) {
	select {
	case us.msgChan <- msg:
		atomic.AddUint64(&us.sentUpdates, 1)
	default:
		// never block the engine
		atomic.AddUint64(&us.droppedUpdates, 1)
	}
}

// GetStats returns current statistics
func (us *UpdateSender) GetStats() (sent, dropped uint64) {
	sent = atomic.LoadUint64(&us.sentUpdates)
	dropped = atomic.LoadUint64(&us.droppedUpdates)
	return sent, dropped
}

// logStats periodically logs statistics
func (us *UpdateSender) logStats() {
	ticker := time.NewTicker(us.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sent, dropped := us.GetStats()
			if dropped > 0 {
				us.logger.Warn("UI update statistics",
					zap.Uint64("sent", sent),
					zap.Uint64("dropped", dropped),
					zap.Float64("drop_rate", float64(dropped)/float64(sent+dropped)*100))
			}
		case <-us.stopStats:
			return
		}
	}
}

// Close stops the update sender
func (us *UpdateSender) Close() {
	us.closeOnce.Do(func() { close(us.stopStats) })
}

// Bus delivers engine snapshots and ad hoc messages to the bubbletea loop.
// Snapshots are coalesced: the listener always receives the newest one and
// a burst of ticks never fills the message channel.
type Bus struct {
	sender *UpdateSender
	msgs   chan tea.Msg
	latest atomic.Pointer[dashboard.Snapshot]
	notify chan struct{}
	done   chan struct{}
	once   sync.Once

	published uint64
}

// NewBus creates a bus with room for size pending non-snapshot messages.
func NewBus(size int, logger *zap.Logger) *Bus {
	msgs := make(chan tea.Msg, size)
	return &Bus{
		sender: NewUpdateSender(msgs, logger),
		msgs:   msgs,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Publish implements dashboard.Publisher.
func (b *Bus) Publish(snap dashboard.Snapshot) {
	b.latest.Store(&snap)
	atomic.AddUint64(&b.published, 1)
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Send sends a message without blocking
func (b *Bus) Send(msg tea.Msg) {
	b.sender.SendUpdate(msg)
}

// Latest returns the newest published snapshot, if any.
func (b *Bus) Latest() (dashboard.Snapshot, bool) {
	if s := b.latest.Load(); s != nil {
		return *s, true
	}
	return dashboard.Snapshot{}, false
}

// Listen waits for the next delivery. The returned command yields nil once
// the bus is closed.
func (b *Bus) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.notify:
			snap, _ := b.Latest()
			return BusMsg{Msg: SnapshotMsg{Snapshot: snap}}
		case msg := <-b.msgs:
			return BusMsg{Msg: msg}
		case <-b.done:
			return nil
		}
	}
}

// GetStats returns bus statistics
func (b *Bus) GetStats() (published, sent, dropped uint64) {
	sent, dropped = b.sender.GetStats()
	return atomic.LoadUint64(&b.published), sent, dropped
}

// Close releases pending listeners
func (b *Bus) Close() {
	b.once.Do(func() {
		close(b.done)
		b.sender.Close()
	})
}
