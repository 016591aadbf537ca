// Package dashboard runs the live simulation: it owns the tick timer and the
// flash timers, and publishes immutable snapshots after every state change.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andres-erbsen/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/pnl-dashboard/internal/random"
	"github.com/rovshanmuradov/pnl-dashboard/internal/series"
	"github.com/rovshanmuradov/pnl-dashboard/internal/simulator"
)

var (
	ErrAlreadyStarted = errors.New("engine already started")
	ErrStopped        = errors.New("engine stopped")
)

// Publisher receives every snapshot. Publish is called with the engine lock
// held and must not block: hand the snapshot off (channel, queue) instead of
// doing I/O inline.
type Publisher interface {
	Publish(Snapshot)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Snapshot)

func (f PublisherFunc) Publish(s Snapshot) { f(s) }

// Config holds engine timing and sizing.
type Config struct {
	TickInterval  time.Duration
	FlashDuration time.Duration
	HistoryDays   int
	Rows          int
	// Start anchors the historical series. Zero means clk.Now().
	Start time.Time
}

// DefaultConfig returns a 1s tick, 600ms flash, 60 days and 10 rows.
func DefaultConfig() Config {
	return Config{
		TickInterval:  time.Second,
		FlashDuration: simulator.DefaultFlashDuration,
		HistoryDays:   60,
		Rows:          10,
	}
}

// Engine serializes ticks and flash expiries behind one mutex.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	clk    clock.Clock
	logger *zap.Logger

	series  series.Series
	sim     *simulator.Simulator
	flashes *simulator.FlashTracker
	pub     Publisher

	paused  bool
	started bool
	stopped bool
	ticker  *clock.Ticker
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// New generates the series and the initial rows. Both draw from src.
func New(cfg Config, clk clock.Clock, src random.Source, logger *zap.Logger) *Engine {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	start := cfg.Start
	if start.IsZero() {
		start = clk.Now()
	}

	seriesOpts := series.DefaultOptions()
	if cfg.HistoryDays > 0 {
		seriesOpts.Days = cfg.HistoryDays
	}
	simOpts := simulator.DefaultOptions()
	if cfg.Rows > 0 {
		simOpts.Rows = cfg.Rows
	}

	e := &Engine{
		cfg:     cfg,
		clk:     clk,
		logger:  logger.Named("engine"),
		series:  series.Generate(src, start, seriesOpts),
		sim:     simulator.New(src, simOpts),
		flashes: simulator.NewFlashTracker(clk, cfg.FlashDuration),
	}
	e.flashes.OnExpire(e.onFlashExpired)
	return e
}

// SetPublisher replaces the snapshot sink.
func (e *Engine) SetPublisher(p Publisher) {
	e.mu.Lock()
	e.pub = p
	e.mu.Unlock()
}

// Start launches the tick loop. It returns at once; Stop tears it down.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return ErrStopped
	}
	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true

	ctx, e.cancel = context.WithCancel(ctx)
	e.group, ctx = errgroup.WithContext(ctx)
	e.ticker = e.clk.Ticker(e.cfg.TickInterval)

	ticks := e.ticker.C
	e.group.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticks:
				if !e.Paused() {
					e.Step()
				}
			}
		}
	})

	e.logger.Info("Dashboard engine started",
		zap.Duration("tick_interval", e.cfg.TickInterval),
		zap.Int("rows", len(e.sim.Rows())),
		zap.Int("history_days", e.series.Len()))
	e.publishLocked()
	return nil
}

// Step runs one tick: reprice every row, then flash the changed ones.
func (e *Engine) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return
	}

	changes := e.sim.Tick()
	for _, c := range changes {
		e.flashes.Flash(c.ID, c.Direction)
	}

	e.logger.Debug("Tick",
		zap.Uint64("tick", e.sim.Ticks()),
		zap.Int("changed", len(changes)))
	e.publishLocked()
}

func (e *Engine) onFlashExpired(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return
	}
	e.publishLocked()
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Series returns the historical series.
func (e *Engine) Series() series.Series {
	return e.series
}

// Paused reports whether ticks are skipped.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// SetPaused pauses or resumes the tick loop. Pending flashes still expire.
func (e *Engine) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setPausedLocked(paused)
}

// TogglePause flips the paused state and returns the new value.
func (e *Engine) TogglePause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setPausedLocked(!e.paused)
	return e.paused
}

func (e *Engine) setPausedLocked(paused bool) {
	if e.stopped || e.paused == paused {
		return
	}
	e.paused = paused
	e.logger.Info("Dashboard engine paused", zap.Bool("paused", paused))
	e.publishLocked()
}

// Stop cancels the tick timer and every flash timer and waits for the loop to
// exit. No state changes after Stop returns.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return nil
	}
	e.stopped = true
	cancel, ticker, group := e.cancel, e.ticker, e.group
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if ticker != nil {
		ticker.Stop()
	}
	var err error
	if group != nil {
		err = group.Wait()
	}
	e.flashes.Stop()

	e.logger.Info("Dashboard engine stopped", zap.Uint64("ticks", e.Snapshot().Tick))
	return err
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Rows:    e.sim.Rows(),
		Flashes: e.flashes.Snapshot(),
		Series:  e.series,
		Tick:    e.sim.Ticks(),
		Paused:  e.paused,
		At:      e.clk.Now(),
	}
}

func (e *Engine) publishLocked() {
	if e.pub == nil {
		return
	}
	e.pub.Publish(e.snapshotLocked())
}
