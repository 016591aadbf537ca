package logger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// csvQueueSize bounds the batches waiting for the writer goroutine.
const csvQueueSize = 256

// SafeCSVWriter appends CSV records from many goroutines and flushes them on
// an interval. WriteRecord writes synchronously; Enqueue hands a batch to the
// writer goroutine and never waits on the file.
type SafeCSVWriter struct {
	mu       sync.Mutex
	writer   *csv.Writer
	file     *os.File
	ticker   *time.Ticker
	queue    chan [][]string
	done     chan struct{}
	loop     sync.WaitGroup
	logger   *zap.Logger
	filePath string

	closeMu   sync.RWMutex
	closed    bool
	closeOnce sync.Once
	closeErr  error

	// Stats
	writtenRecords uint64
	flushCount     uint64
	dropped        atomic.Uint64
}

// NewSafeCSVWriter opens filePath for appending. header is written only when
// the file is empty.
func NewSafeCSVWriter(filePath string, header []string, flushInterval time.Duration, logger *zap.Logger) (*SafeCSVWriter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	scw := &SafeCSVWriter{
		writer:   csv.NewWriter(file),
		file:     file,
		ticker:   time.NewTicker(flushInterval),
		queue:    make(chan [][]string, csvQueueSize),
		done:     make(chan struct{}),
		logger:   logger,
		filePath: filePath,
	}

	if stat.Size() == 0 && len(header) > 0 {
		// header is not counted as a record
		if err := scw.writer.Write(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		scw.writer.Flush()
	}

	scw.loop.Add(1)
	go scw.run()

	return scw, nil
}

// WriteRecord writes a CSV record in a thread-safe manner
func (scw *SafeCSVWriter) WriteRecord(record []string) error {
	scw.mu.Lock()
	defer scw.mu.Unlock()
	return scw.writeLocked(record)
}

func (scw *SafeCSVWriter) writeLocked(record []string) error {
	if err := scw.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	scw.writtenRecords++
	return nil
}

// Enqueue queues records to be written together. It reports false when the
// queue is full or the writer is closed; the batch is then dropped.
func (scw *SafeCSVWriter) Enqueue(records ...[]string) bool {
	scw.closeMu.RLock()
	defer scw.closeMu.RUnlock()

	if scw.closed {
		return false
	}
	select {
	case scw.queue <- records:
		return true
	default:
		scw.dropped.Add(1)
		return false
	}
}

func (scw *SafeCSVWriter) writeBatch(records [][]string) {
	scw.mu.Lock()
	defer scw.mu.Unlock()

	for _, record := range records {
		if err := scw.writeLocked(record); err != nil {
			scw.logger.Error("Queued CSV write failed",
				zap.String("file", scw.filePath),
				zap.Error(err))
			return
		}
	}
}

// Flush forces a write of any buffered data. The file is synced outside the
// lock so writers are not held up by a slow fsync.
func (scw *SafeCSVWriter) Flush() error {
	scw.mu.Lock()
	scw.writer.Flush()
	err := scw.writer.Error()
	if err == nil {
		scw.flushCount++
	}
	scw.mu.Unlock()

	if err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	if err := scw.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}
	return nil
}

func (scw *SafeCSVWriter) run() {
	defer scw.loop.Done()

	for {
		select {
		case batch := <-scw.queue:
			scw.writeBatch(batch)
		case <-scw.ticker.C:
			if err := scw.Flush(); err != nil {
				scw.logger.Error("Periodic CSV flush failed",
					zap.String("file", scw.filePath),
					zap.Error(err))
			}
		case <-scw.done:
			for {
				select {
				case batch := <-scw.queue:
					scw.writeBatch(batch)
				default:
					return
				}
			}
		}
	}
}

// Close drains the queue, stops the flush loop and writes everything out.
// Later calls return the first result.
func (scw *SafeCSVWriter) Close() error {
	scw.closeOnce.Do(func() {
		scw.closeMu.Lock()
		scw.closed = true
		scw.closeMu.Unlock()

		close(scw.done)
		scw.ticker.Stop()
		scw.loop.Wait()

		scw.closeErr = scw.closeFile()
	})
	return scw.closeErr
}

func (scw *SafeCSVWriter) closeFile() error {
	scw.mu.Lock()
	defer scw.mu.Unlock()

	scw.writer.Flush()
	if err := scw.writer.Error(); err != nil {
		scw.file.Close()
		return fmt.Errorf("CSV writer error on close: %w", err)
	}

	if err := scw.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	scw.logger.Info("Safe CSV writer closed",
		zap.String("file", scw.filePath),
		zap.Uint64("writtenRecords", scw.writtenRecords),
		zap.Uint64("flushCount", scw.flushCount),
		zap.Uint64("droppedBatches", scw.dropped.Load()))

	return nil
}

// GetStats returns CSV writer statistics
func (scw *SafeCSVWriter) GetStats() (records, flushes uint64) {
	scw.mu.Lock()
	defer scw.mu.Unlock()
	return scw.writtenRecords, scw.flushCount
}

// Dropped counts batches Enqueue turned away.
func (scw *SafeCSVWriter) Dropped() uint64 {
	return scw.dropped.Load()
}
