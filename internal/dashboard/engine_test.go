package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/andres-erbsen/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pnl-dashboard/internal/random"
	"github.com/rovshanmuradov/pnl-dashboard/internal/simulator"
)

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) Publish(s Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) last() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

var testStart = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *clock.Mock, *recorder) {
	t.Helper()
	clk := clock.NewMock()
	cfg := DefaultConfig()
	cfg.Start = testStart
	e := New(cfg, clk, random.New(42), zap.NewNop())
	rec := &recorder{}
	e.SetPublisher(rec)
	return e, clk, rec
}

func TestNewEngineInitialState(t *testing.T) {
	e, _, _ := newTestEngine(t)
	snap := e.Snapshot()

	assert.Len(t, snap.Rows, 10)
	assert.Empty(t, snap.Flashes)
	assert.Equal(t, uint64(0), snap.Tick)
	assert.Equal(t, 60, snap.Series.Len())
	assert.Equal(t, "2026-10-17", snap.Series.Points[59].Date)
	require.NoError(t, snap.Series.Validate(2500))
}

func TestStepFlashesChangedRows(t *testing.T) {
	e, clk, rec := newTestEngine(t)

	e.Step()
	snap := e.Snapshot()
	require.Equal(t, uint64(1), snap.Tick)
	require.NotEmpty(t, snap.Flashes)
	require.Equal(t, 1, rec.count())

	for id, dir := range snap.Flashes {
		var row simulator.Position
		for _, r := range snap.Rows {
			if r.ID == id {
				row = r
			}
		}
		assert.Equal(t, simulator.DirectionOf(row.ProfitOrLoss), dir)
	}

	clk.Add(600 * time.Millisecond)
	assert.Eventually(t, func() bool { return len(e.Snapshot().Flashes) == 0 }, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return len(rec.last().Flashes) == 0 }, time.Second, time.Millisecond)
}

// newTickingEngine runs on the real clock. The mock clock's ticker is not
// safe to advance while the loop goroutine stops flash timers.
func newTickingEngine(t *testing.T) (*Engine, *recorder) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Start = testStart
	cfg.TickInterval = 5 * time.Millisecond
	cfg.FlashDuration = 20 * time.Millisecond
	e := New(cfg, clock.New(), random.New(42), zap.NewNop())
	rec := &recorder{}
	e.SetPublisher(rec)
	t.Cleanup(func() { _ = e.Stop() })
	return e, rec
}

func TestStartDrivesTicks(t *testing.T) {
	e, rec := newTickingEngine(t)
	require.NoError(t, e.Start(context.Background()))
	assert.GreaterOrEqual(t, rec.count(), 1, "start publishes the initial state")

	assert.Eventually(t, func() bool { return e.Snapshot().Tick >= 3 }, 2*time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return rec.last().Tick >= 3 }, 2*time.Second, time.Millisecond)
}

func TestStartTwiceFails(t *testing.T) {
	e, _, _ := newTestEngine(t)
	require.NoError(t, e.Start(context.Background()))
	assert.ErrorIs(t, e.Start(context.Background()), ErrAlreadyStarted)
	require.NoError(t, e.Stop())
	assert.ErrorIs(t, e.Start(context.Background()), ErrStopped)
}

func TestPauseSkipsTicks(t *testing.T) {
	e, _ := newTickingEngine(t)
	require.NoError(t, e.Start(context.Background()))

	assert.True(t, e.TogglePause())
	assert.True(t, e.Snapshot().Paused)
	paused := e.Snapshot().Tick

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, paused, e.Snapshot().Tick)

	e.SetPaused(false)
	assert.Eventually(t, func() bool { return e.Snapshot().Tick > paused }, 2*time.Second, time.Millisecond)
}

func TestConcurrentTogglePause(t *testing.T) {
	e, _, rec := newTestEngine(t)

	const workers, toggles = 4, 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < toggles; j++ {
				e.TogglePause()
			}
		}()
	}
	wg.Wait()

	assert.False(t, e.Paused(), "an even number of toggles ends where it started")
	assert.Equal(t, workers*toggles, rec.count(), "every toggle changes state")
}

func TestStopFreezesState(t *testing.T) {
	e, clk, rec := newTestEngine(t)
	require.NoError(t, e.Start(context.Background()))

	e.Step()
	require.NotEmpty(t, e.Snapshot().Flashes)
	require.NoError(t, e.Stop())

	before := e.Snapshot()
	published := rec.count()

	clk.Add(10 * time.Second)
	e.Step()
	time.Sleep(10 * time.Millisecond)

	after := e.Snapshot()
	assert.Equal(t, before.Rows, after.Rows)
	assert.Equal(t, before.Tick, after.Tick)
	assert.Empty(t, after.Flashes)
	assert.Equal(t, published, rec.count())

	// Stop is idempotent.
	assert.NoError(t, e.Stop())
}

func TestStopWithoutStart(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Step()
	assert.NoError(t, e.Stop())
}

func TestContextCancelEndsLoop(t *testing.T) {
	e, clk, _ := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, e.Start(ctx))

	cancel()
	require.NoError(t, e.Stop())
	clk.Add(5 * time.Second)
	assert.Equal(t, uint64(0), e.Snapshot().Tick)
}

func TestSnapshotAggregates(t *testing.T) {
	snap := Snapshot{
		Rows: []simulator.Position{
			simulator.NewPosition("sym-1", "AAPL", 100, 101, 10),
			simulator.NewPosition("sym-2", "MSFT", 100, 99, 10),
			simulator.NewPosition("sym-3", "NVDA", 50, 55, 2),
		},
		Flashes: map[string]simulator.Direction{"sym-2": simulator.Neg},
	}

	assert.Equal(t, 10.0, snap.TotalPnL())
	assert.Equal(t, 2100.0, snap.CostBasis())
	assert.InDelta(t, 0.476, snap.PnLPercent(), 0.001)
	assert.Equal(t, 2, snap.Winners())
	assert.Len(t, snap.Visible(2), 2)
	assert.Len(t, snap.Visible(10), 3)

	dir, ok := snap.FlashFor("sym-2")
	assert.True(t, ok)
	assert.Equal(t, simulator.Neg, dir)
	_, ok = snap.FlashFor("sym-1")
	assert.False(t, ok)
}

func TestPublisherFunc(t *testing.T) {
	var got uint64
	var p Publisher = PublisherFunc(func(s Snapshot) { got = s.Tick + 1 })
	p.Publish(Snapshot{Tick: 4})
	assert.Equal(t, uint64(5), got)
}
