package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andres-erbsen/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pnl-dashboard/internal/config"
	"github.com/rovshanmuradov/pnl-dashboard/internal/dashboard"
	"github.com/rovshanmuradov/pnl-dashboard/internal/export"
	"github.com/rovshanmuradov/pnl-dashboard/internal/logger"
	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/random"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui"
)

const (
	busSize       = 100
	flushInterval = 5 * time.Second
)

type runCmd struct {
	*globals
	journal string
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Start the interactive dashboard." }
func (*runCmd) Usage() string {
	return `run [-journal file]:
  Start the live dashboard. Keys: p pause, s step, e export, L logs, q quit.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.journal, "journal", "", "append every snapshot to this CSV file (overrides journal_file)")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %v\n", f.Args())
		return subcommands.ExitUsageError
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return fail(err)
	}
	if c.journal != "" {
		cfg.JournalFile = c.journal
	}
	if err := runDashboard(ctx, cfg); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// publishers fans a snapshot out to every sink in order.
type publishers []dashboard.Publisher

func (ps publishers) Publish(snap dashboard.Snapshot) {
	for _, p := range ps {
		p.Publish(snap)
	}
}

func runDashboard(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	spill, err := logger.NewRotatingFile(cfg.LogFile, logger.DefaultRotateOptions())
	if err != nil {
		return err
	}
	buffer := logger.NewLogBuffer(cfg.LogBufferSize, spill, zap.NewNop())
	stopFlush := buffer.StartPeriodicFlush(flushInterval)
	defer func() {
		close(stopFlush)
		if err := buffer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	log, err := logger.CreateTUILogger(cfg.DebugLogging, buffer)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	formatter, err := money.NewFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(cfg.ExportFormat)
	if err != nil {
		return err
	}

	bus := ui.NewBus(busSize, log)
	defer bus.Close()

	sinks := publishers{bus}
	if cfg.JournalFile != "" {
		journal, err := export.OpenJournal(cfg.JournalFile, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := journal.Close(); err != nil {
				log.Error("Failed to close journal", zap.Error(err))
			}
		}()
		sinks = append(sinks, journal)
	}

	engine := dashboard.New(engineConfig(cfg), clock.New(), random.New(cfg.Seed), log)
	engine.SetPublisher(sinks)
	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	defer func() {
		if err := engine.Stop(); err != nil {
			log.Error("Engine stopped with error", zap.Error(err))
		}
	}()

	log.Info("Dashboard started",
		zap.Duration("tick", cfg.TickInterval),
		zap.Int("rows", cfg.Rows),
		zap.Uint64("seed", cfg.Seed))

	exporter := export.NewSnapshotExporter(log)
	exportSnapshot := func(ctx context.Context, snap dashboard.Snapshot) (string, error) {
		return exporter.Export(ctx, snap, export.ExportOptions{Format: format, OutputDir: cfg.ExportDir})
	}

	handler := ui.NewRecoveryHandler(log, func() (tea.Model, []tea.ProgramOption) {
		app := NewAppModel(engine, formatter, bus, buffer, exportSnapshot)
		return ui.NewSafeUIWrapper(app, log), []tea.ProgramOption{tea.WithAltScreen()}
	})

	go func() {
		<-ctx.Done()
		handler.Stop()
	}()

	err = handler.RunWithRecovery(ctx)
	log.Info("Dashboard stopped", zap.Int("restarts", handler.GetRestartCount()))
	return err
}
