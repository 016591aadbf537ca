package logger

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memSpill records what the buffer spills.
type memSpill struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

func (m *memSpill) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.Write(p)
}

func (m *memSpill) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func (m *memSpill) lines() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Count(m.buf.Bytes(), []byte("\n"))
}

func TestLogBufferConcurrentAccess(t *testing.T) {
	spill := &memSpill{}
	buffer := NewLogBuffer(100, spill, zap.NewNop())
	defer buffer.Close()

	done := buffer.StartPeriodicFlush(50 * time.Millisecond)
	defer close(done)

	var wg sync.WaitGroup
	numGoroutines := 10
	logsPerGoroutine := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < logsPerGoroutine; j++ {
				fields := map[string]interface{}{
					"goroutine": id,
					"iteration": j,
				}
				if err := buffer.Add("info", fmt.Sprintf("Log from goroutine %d, iteration %d", id, j), fields); err != nil {
					t.Errorf("Failed to add log: %v", err)
				}
			}
		}(i)
	}

	go func() {
		for i := 0; i < 50; i++ {
			_ = buffer.GetRecentLogs(10)
			time.Sleep(5 * time.Millisecond)
		}
	}()

	wg.Wait()
	require.NoError(t, buffer.Flush())

	total, spilled := buffer.GetStats()
	assert.Equal(t, uint64(numGoroutines*logsPerGoroutine), total)
	assert.Equal(t, total-100, spilled)
	assert.Equal(t, int(spilled), spill.lines())
}

func TestLogBufferRingBufferBehavior(t *testing.T) {
	bufferSize := 5
	buffer := NewLogBuffer(bufferSize, &memSpill{}, zap.NewNop())
	defer buffer.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("Log %d", i), nil))
	}

	logs := buffer.GetRecentLogs(10)
	require.Len(t, logs, bufferSize)
	assert.Equal(t, "Log 5", logs[0].Message)
	assert.Equal(t, "Log 9", logs[len(logs)-1].Message)

	recent := buffer.GetRecentLogs(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "Log 8", recent[0].Message)
	assert.Equal(t, "Log 9", recent[1].Message)
}

func TestLogBufferBeforeWrap(t *testing.T) {
	buffer := NewLogBuffer(5, nil, nil)
	require.NoError(t, buffer.Add("info", "a", nil))
	require.NoError(t, buffer.Add("warn", "b", nil))

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 2)
	assert.Equal(t, "a", logs[0].Message)
	assert.Equal(t, "warn", logs[1].Level)
	assert.NoError(t, buffer.Close())
}

func TestLogBufferCloseSpillsRemaining(t *testing.T) {
	spill := &memSpill{}
	buffer := NewLogBuffer(5, spill, zap.NewNop())
	for i := 0; i < 3; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("Log %d", i), nil))
	}

	require.NoError(t, buffer.Close())
	assert.Equal(t, 3, spill.lines())
	assert.True(t, spill.closed)
}

func TestLogBufferWriteParsesZapJSON(t *testing.T) {
	buffer := NewLogBuffer(10, nil, nil)

	line := `{"level":"warn","time":"2026-10-17T09:00:00Z","msg":"Export attempt failed","attempt":2}` + "\n" + "plain text\n"
	n, err := buffer.Write([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 2)
	assert.Equal(t, "warn", logs[0].Level)
	assert.Equal(t, "Export attempt failed", logs[0].Message)
	assert.Equal(t, 2026, logs[0].Timestamp.Year())
	assert.Equal(t, float64(2), logs[0].Fields["attempt"])
	assert.Equal(t, "plain text", logs[1].Message)
}

func TestTUILoggerWritesOnlyToBuffer(t *testing.T) {
	buffer := NewLogBuffer(10, nil, nil)
	log, err := CreateTUILogger(false, buffer)
	require.NoError(t, err)

	log.Named("engine").Info("Dashboard engine started", zap.Int("rows", 10))
	log.Debug("hidden")

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 1)
	assert.Equal(t, "info", logs[0].Level)
	assert.Equal(t, "Dashboard engine started", logs[0].Message)
	assert.Equal(t, "engine", logs[0].Fields["logger"])
	assert.Equal(t, float64(10), logs[0].Fields["rows"])

	_, err = CreateTUILogger(false, nil)
	assert.Error(t, err)
}

func TestRotatingFileBackedBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dashboard.log")
	file, err := NewRotatingFile(path, DefaultRotateOptions())
	require.NoError(t, err)

	buffer := NewLogBuffer(2, file, zap.NewNop())
	for i := 0; i < 4; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("Log %d", i), nil))
	}
	require.NoError(t, buffer.Close())

	assert.FileExists(t, path)

	_, err = NewRotatingFile("", DefaultRotateOptions())
	assert.Error(t, err)
}
