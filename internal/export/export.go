package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pnl-dashboard/internal/dashboard"
	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/series"
	"github.com/rovshanmuradov/pnl-dashboard/internal/simulator"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ErrUnsupportedFormat is returned without retrying.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// PositionHeaders is the CSV header row for positions.
func PositionHeaders() []string {
	return []string{"id", "symbol", "trade_price", "market_price", "quantity", "profit_or_loss", "flash"}
}

// PositionRecord renders one row for CSV. flash is empty when no highlight is
// active.
func PositionRecord(p simulator.Position, flash simulator.Direction) []string {
	return []string{
		p.ID,
		p.Symbol,
		strconv.FormatFloat(p.TradePrice, 'f', 2, 64),
		strconv.FormatFloat(p.MarketPrice, 'f', 2, 64),
		strconv.Itoa(p.Quantity),
		strconv.FormatFloat(p.ProfitOrLoss, 'f', 2, 64),
		string(flash),
	}
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format       ExportFormat
	OutputDir    string
	SymbolFilter string // keep only rows of this symbol
	OnlyFlashing bool   // keep only rows with an active highlight
}

// SnapshotExporter writes dashboard snapshots to disk, retrying transient
// file errors with exponential backoff.
type SnapshotExporter struct {
	logger     *zap.Logger
	maxTries   uint
	retryDelay time.Duration
	now        func() time.Time
	create     func(path string) (io.WriteCloser, error)
}

// NewSnapshotExporter creates an exporter that tries each write three times.
func NewSnapshotExporter(logger *zap.Logger) *SnapshotExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotExporter{
		logger:     logger.Named("export"),
		maxTries:   3,
		retryDelay: 100 * time.Millisecond,
		now:        time.Now,
		create: func(path string) (io.WriteCloser, error) {
			return os.Create(path)
		},
	}
}

// WithRetry overrides the retry policy.
func (se *SnapshotExporter) WithRetry(maxTries uint, delay time.Duration) *SnapshotExporter {
	se.maxTries = maxTries
	se.retryDelay = delay
	return se
}

// Export writes positions_<ts>.csv or snapshot_<ts>.json and returns its path.
func (se *SnapshotExporter) Export(ctx context.Context, snap dashboard.Snapshot, options ExportOptions) (string, error) {
	if options.Format != FormatCSV && options.Format != FormatJSON {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, options.Format)
	}

	rows := filterRows(snap, options)
	outputPath := filepath.Join(options.OutputDir, se.generateFilename(options.Format))

	var write func(io.Writer) error
	switch options.Format {
	case FormatCSV:
		write = func(w io.Writer) error { return writeCSV(w, rows, snap) }
	case FormatJSON:
		write = func(w io.Writer) error { return se.writeJSON(w, rows, snap) }
	}

	if err := se.writeFile(ctx, options.OutputDir, outputPath, write); err != nil {
		return "", err
	}

	se.logger.Info("Snapshot exported",
		zap.String("path", outputPath),
		zap.Int("rows", len(rows)),
		zap.String("format", string(options.Format)),
		zap.Uint64("tick", snap.Tick))

	return outputPath, nil
}

// ExportHistory writes the desk series as history_<ts>.csv with one column per
// desk.
func (se *SnapshotExporter) ExportHistory(ctx context.Context, s series.Series, outputDir string) (string, error) {
	outputPath := filepath.Join(outputDir, "history_"+se.timestamp()+".csv")

	err := se.writeFile(ctx, outputDir, outputPath, func(w io.Writer) error {
		writer := csv.NewWriter(w)
		if err := writer.Write(append([]string{"date"}, s.Desks...)); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
		for _, p := range s.Points {
			record := []string{p.Date}
			for _, desk := range s.Desks {
				record = append(record, strconv.FormatFloat(p.Values[desk], 'f', 2, 64))
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write point: %w", err)
			}
		}
		writer.Flush()
		return writer.Error()
	})
	if err != nil {
		return "", err
	}

	se.logger.Info("Snapshot exported",
		zap.String("path", outputPath),
		zap.Int("days", s.Len()))
	return outputPath, nil
}

func (se *SnapshotExporter) writeFile(ctx context.Context, dir, path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = se.retryDelay
	policy.MaxInterval = se.retryDelay * 10

	notify := func(err error, d time.Duration) {
		se.logger.Warn("Export attempt failed", zap.Error(err), zap.Duration("backoff", d))
	}

	operation := func() (struct{}, error) {
		f, err := se.create(path)
		if err != nil {
			err = fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
			if errors.Is(err, fs.ErrPermission) {
				return struct{}{}, backoff.Permanent(err)
			}
			return struct{}{}, err
		}
		if err := write(f); err != nil {
			f.Close()
			return struct{}{}, err
		}
		return struct{}{}, f.Close()
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(se.maxTries),
		backoff.WithNotify(notify))
	if err != nil {
		se.logger.Error("Export failed", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

func (se *SnapshotExporter) timestamp() string {
	return se.now().Format("20060102_150405.000")
}

// generateFilename creates a filename for the format
func (se *SnapshotExporter) generateFilename(format ExportFormat) string {
	if format == FormatJSON {
		return fmt.Sprintf("snapshot_%s.json", se.timestamp())
	}
	return fmt.Sprintf("positions_%s.csv", se.timestamp())
}

func filterRows(snap dashboard.Snapshot, options ExportOptions) []simulator.Position {
	var rows []simulator.Position
	for _, row := range snap.Rows {
		if options.SymbolFilter != "" && !strings.EqualFold(row.Symbol, options.SymbolFilter) {
			continue
		}
		if options.OnlyFlashing {
			if _, ok := snap.FlashFor(row.ID); !ok {
				continue
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func writeCSV(w io.Writer, rows []simulator.Position, snap dashboard.Snapshot) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(PositionHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		flash, _ := snap.FlashFor(row.ID)
		if err := writer.Write(PositionRecord(row, flash)); err != nil {
			return fmt.Errorf("failed to write position: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (se *SnapshotExporter) writeJSON(w io.Writer, rows []simulator.Position, snap dashboard.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	filtered := snap
	filtered.Rows = rows

	exportData := struct {
		ExportTime time.Time                      `json:"export_time"`
		Tick       uint64                         `json:"tick"`
		RowCount   int                            `json:"row_count"`
		Rows       []simulator.Position           `json:"rows"`
		Flashes    map[string]simulator.Direction `json:"flashes"`
		Series     series.Series                  `json:"series"`
		Summary    ExportSummary                  `json:"summary"`
	}{
		ExportTime: se.now(),
		Tick:       snap.Tick,
		RowCount:   len(rows),
		Rows:       rows,
		Flashes:    snap.Flashes,
		Series:     snap.Series,
		Summary:    CalculateSummary(filtered),
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportSummary contains summary statistics for an export
type ExportSummary struct {
	TotalRows  int           `json:"total_rows"`
	Winners    int           `json:"winners"`
	Losers     int           `json:"losers"`
	Flashing   int           `json:"flashing"`
	TotalPnL   float64       `json:"total_pnl"`
	CostBasis  float64       `json:"cost_basis"`
	PnLPercent float64       `json:"pnl_percent"`
	BestRow    string        `json:"best_row,omitempty"`
	WorstRow   string        `json:"worst_row,omitempty"`
	Desks      []DeskSummary `json:"desks"`
}

// DeskSummary aggregates one desk of the historical series.
type DeskSummary struct {
	Desk  string  `json:"desk"`
	Last  float64 `json:"last"`
	Total float64 `json:"total"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// CalculateSummary aggregates rows and desks of a snapshot.
func CalculateSummary(snap dashboard.Snapshot) ExportSummary {
	summary := ExportSummary{
		TotalRows:  len(snap.Rows),
		Winners:    snap.Winners(),
		TotalPnL:   snap.TotalPnL(),
		CostBasis:  snap.CostBasis(),
		PnLPercent: money.Round(snap.PnLPercent()),
	}
	summary.Losers = summary.TotalRows - summary.Winners

	var best, worst *simulator.Position
	for i := range snap.Rows {
		row := &snap.Rows[i]
		if _, ok := snap.FlashFor(row.ID); ok {
			summary.Flashing++
		}
		if best == nil || row.ProfitOrLoss > best.ProfitOrLoss {
			best = row
		}
		if worst == nil || row.ProfitOrLoss < worst.ProfitOrLoss {
			worst = row
		}
	}
	if best != nil {
		summary.BestRow = best.ID
		summary.WorstRow = worst.ID
	}

	for _, desk := range snap.Series.Desks {
		lo, hi := snap.Series.Range(desk)
		summary.Desks = append(summary.Desks, DeskSummary{
			Desk:  desk,
			Last:  snap.Series.Last(desk),
			Total: snap.Series.Total(desk),
			Min:   lo,
			Max:   hi,
		})
	}

	return summary
}
