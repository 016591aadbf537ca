package export

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/pnl-dashboard/internal/dashboard"
	"github.com/rovshanmuradov/pnl-dashboard/internal/logger"
)

// recordQueue is the part of logger.SafeCSVWriter the journal needs.
type recordQueue interface {
	Enqueue(records ...[]string) bool
	Close() error
}

// Journal appends every row of every new tick to a CSV file. It implements
// dashboard.Publisher; snapshots that repeat a tick already written (pause
// toggles, flash expiry) are skipped. Rows are queued, so Publish never waits
// on the file.
type Journal struct {
	mu       sync.Mutex
	writer   recordQueue
	logger   *zap.Logger
	lastTick uint64
	written  bool
	failures uint64
}

// JournalHeaders prefixes the position columns with the tick and its time.
func JournalHeaders() []string {
	return append([]string{"tick", "at"}, PositionHeaders()...)
}

// OpenJournal opens or appends to path.
func OpenJournal(path string, log *zap.Logger) (*Journal, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := logger.NewSafeCSVWriter(path, JournalHeaders(), time.Second, log)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{writer: w, logger: log.Named("journal")}, nil
}

// Publish records snap if its tick is new.
func (j *Journal) Publish(snap dashboard.Snapshot) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.written && snap.Tick == j.lastTick {
		return
	}
	j.lastTick = snap.Tick
	j.written = true

	tick := strconv.FormatUint(snap.Tick, 10)
	at := snap.At.UTC().Format(time.RFC3339Nano)
	records := make([][]string, 0, len(snap.Rows))
	for _, row := range snap.Rows {
		flash, _ := snap.FlashFor(row.ID)
		records = append(records, append([]string{tick, at}, PositionRecord(row, flash)...))
	}
	if !j.writer.Enqueue(records...) {
		j.failures++
		j.logger.Warn("Journal dropped a tick", zap.Uint64("tick", snap.Tick))
	}
}

// Failures counts dropped ticks.
func (j *Journal) Failures() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.failures
}

// Close writes out queued ticks and closes the file.
func (j *Journal) Close() error {
	return j.writer.Close()
}
