package ui

import (
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pnl-dashboard/internal/dashboard"
)

func TestUpdateSenderNonBlocking(t *testing.T) {
	msgChan := make(chan tea.Msg, 10)
	sender := NewUpdateSender(msgChan, zap.NewNop())
	defer sender.Close()

	for i := 0; i < 10; i++ {
		sender.SendUpdate(SuccessMsg{Message: "fill"})
	}

	start := time.Now()
	for i := 0; i < 100; i++ {
		sender.SendUpdate(SuccessMsg{Message: "dropped"})
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond, "SendUpdate must not block")

	sent, dropped := sender.GetStats()
	assert.Equal(t, uint64(10), sent)
	assert.Equal(t, uint64(100), dropped)
}

func TestUpdateSenderConcurrent(t *testing.T) {
	msgChan := make(chan tea.Msg, 100)
	sender := NewUpdateSender(msgChan, zap.NewNop())
	defer sender.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sender.SendUpdate(SuccessMsg{Message: "test"})
			}
		}()
	}
	wg.Wait()

	sent, dropped := sender.GetStats()
	assert.Equal(t, uint64(1000), sent+dropped)
	sender.Close()
	sender.Close()
}

func TestBusCoalescesSnapshots(t *testing.T) {
	bus := NewBus(4, zap.NewNop())
	defer bus.Close()

	for i := 1; i <= 50; i++ {
		bus.Publish(dashboard.Snapshot{Tick: uint64(i)})
	}

	msg := bus.Listen()()
	wrapped, ok := msg.(BusMsg)
	require.True(t, ok)
	snap, ok := wrapped.Msg.(SnapshotMsg)
	require.True(t, ok)
	assert.Equal(t, uint64(50), snap.Snapshot.Tick)

	published, _, dropped := bus.GetStats()
	assert.Equal(t, uint64(50), published)
	assert.Zero(t, dropped)

	latest, ok := bus.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(50), latest.Tick)
}

func TestBusDeliversMessages(t *testing.T) {
	bus := NewBus(4, zap.NewNop())
	defer bus.Close()

	bus.Send(ErrorMsg{Error: errors.New("disk full"), Title: "Export failed"})

	msg := bus.Listen()()
	wrapped, ok := msg.(BusMsg)
	require.True(t, ok)
	errMsg, ok := wrapped.Msg.(ErrorMsg)
	require.True(t, ok)
	assert.Equal(t, "Export failed", errMsg.Title)
}

func TestBusCloseReleasesListener(t *testing.T) {
	bus := NewBus(1, zap.NewNop())
	_, ok := bus.Latest()
	assert.False(t, ok)

	got := make(chan tea.Msg, 1)
	go func() { got <- bus.Listen()() }()

	bus.Close()
	select {
	case msg := <-got:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("listener not released by Close")
	}
	bus.Close()
}

func TestBusIsPublisher(t *testing.T) {
	var _ dashboard.Publisher = (*Bus)(nil)
}
