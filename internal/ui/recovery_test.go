package ui

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tickMsg struct{}

// mockModel ticks itself until it quits, optionally panicking on the way.
type mockModel struct {
	shouldPanic bool
	panicOnInit bool
	panicOnView bool
	updateCount int32
	viewCount   int32
}

func tick() tea.Cmd {
	return tea.Tick(time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *mockModel) Init() tea.Cmd {
	if m.panicOnInit {
		panic("init panic test")
	}
	return tick()
}

func (m *mockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tickMsg); !ok {
		return m, nil
	}
	n := atomic.AddInt32(&m.updateCount, 1)
	if m.shouldPanic && n > 5 {
		panic("update panic test")
	}
	if n > 10 {
		return m, tea.Quit
	}
	return m, tick()
}

func (m *mockModel) View() string {
	n := atomic.AddInt32(&m.viewCount, 1)
	if m.panicOnView && n > 3 {
		panic("view panic test")
	}
	return "Test UI"
}

func headless() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
	}
}

func runWithTimeout(t *testing.T, rh *RecoveryHandler, ctx context.Context) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- rh.RunWithRecovery(ctx) }()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		rh.Stop()
		t.Fatal("RunWithRecovery did not return")
		return nil
	}
}

func TestRecoveryHandlerNormalExit(t *testing.T) {
	rh := NewRecoveryHandler(zap.NewNop(), func() (tea.Model, []tea.ProgramOption) {
		return &mockModel{}, headless()
	})

	require.NoError(t, runWithTimeout(t, rh, context.Background()))
	assert.Zero(t, rh.GetRestartCount())
}

func TestRecoveryHandlerRestartsAfterPanic(t *testing.T) {
	var runs int32
	rh := NewRecoveryHandler(zap.NewNop(), func() (tea.Model, []tea.ProgramOption) {
		first := atomic.AddInt32(&runs, 1) == 1
		return &mockModel{shouldPanic: first}, headless()
	}).WithRestartPolicy(3, time.Millisecond)

	require.NoError(t, runWithTimeout(t, rh, context.Background()))
	assert.Equal(t, 1, rh.GetRestartCount())
	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
}

func TestRecoveryHandlerGivesUp(t *testing.T) {
	rh := NewRecoveryHandler(zap.NewNop(), func() (tea.Model, []tea.ProgramOption) {
		return &mockModel{panicOnInit: true}, headless()
	}).WithRestartPolicy(2, time.Millisecond)

	err := runWithTimeout(t, rh, context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many times")
	assert.Equal(t, 3, rh.GetRestartCount())
}

func TestRecoveryHandlerContextCancel(t *testing.T) {
	rh := NewRecoveryHandler(zap.NewNop(), func() (tea.Model, []tea.ProgramOption) {
		return &mockModel{panicOnInit: true}, headless()
	}).WithRestartPolicy(10, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	err := runWithTimeout(t, rh, ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecoveryHandlerStopBeforeRun(t *testing.T) {
	rh := NewRecoveryHandler(zap.NewNop(), func() (tea.Model, []tea.ProgramOption) {
		return &mockModel{shouldPanic: true}, headless()
	})
	rh.Stop()

	require.NoError(t, runWithTimeout(t, rh, context.Background()))
	assert.Zero(t, rh.GetRestartCount())
}

func TestSafeUIWrapper(t *testing.T) {
	model := &mockModel{panicOnView: true, shouldPanic: true}
	wrapper := NewSafeUIWrapper(model, zap.NewNop())

	assert.NotNil(t, wrapper.Init())

	next, cmd := wrapper.Update(tickMsg{})
	assert.Same(t, wrapper, next)
	assert.NotNil(t, cmd)

	assert.Equal(t, "Test UI", wrapper.View())

	model.updateCount = 10
	next, cmd = wrapper.Update(tickMsg{})
	assert.Same(t, wrapper, next, "a panicking Update keeps the wrapper")
	assert.Nil(t, cmd)

	model.viewCount = 10
	assert.Equal(t, "UI Error: View crashed. Press Ctrl+C to exit.", wrapper.View())

	panicky := NewSafeUIWrapper(&mockModel{panicOnInit: true}, zap.NewNop())
	assert.Nil(t, panicky.Init())
}
