package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/andres-erbsen/clock"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pnl-dashboard/internal/dashboard"
	"github.com/rovshanmuradov/pnl-dashboard/internal/export"
	"github.com/rovshanmuradov/pnl-dashboard/internal/logger"
	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/random"
	"github.com/rovshanmuradov/pnl-dashboard/internal/report"
)

type snapshotCmd struct {
	*globals
	out io.Writer
	now func() time.Time

	ticks    int
	format   string
	outDir   string
	symbol   string
	flashing bool
	markdown bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "Simulate ticks offline and export the result." }
func (*snapshotCmd) Usage() string {
	return `snapshot [-ticks n] [-format csv|json] [-out dir] [-symbol SYM] [-flashing] [-markdown]:
  Run n ticks on a simulated clock, then write the positions and the
  historical series to files and print their paths.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.ticks, "ticks", 10, "ticks to simulate")
	f.StringVar(&c.format, "format", "", "csv or json, empty uses export_format")
	f.StringVar(&c.outDir, "out", "", "output directory, empty uses export_dir")
	f.StringVar(&c.symbol, "symbol", "", "export only rows of this symbol")
	f.BoolVar(&c.flashing, "flashing", false, "export only rows changed by the last tick")
	f.BoolVar(&c.markdown, "markdown", false, "also print a markdown report")
}

func (c *snapshotCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 || c.ticks < 0 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return fail(err)
	}
	log := logger.CreatePrettyLogger(cfg.DebugLogging)
	defer func() { _ = log.Sync() }()

	formatName := cfg.ExportFormat
	if c.format != "" {
		formatName = c.format
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return fail(err)
	}
	outDir := cfg.ExportDir
	if c.outDir != "" {
		outDir = c.outDir
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	clk := clock.NewMock()
	clk.Add(now().Sub(clk.Now()))

	engineCfg := engineConfig(cfg)
	engine := dashboard.New(engineCfg, clk, random.New(cfg.Seed), log)
	for i := 0; i < c.ticks; i++ {
		if i > 0 {
			clk.Add(engineCfg.TickInterval)
		}
		engine.Step()
	}
	// the last tick's flashes stay active so the export carries them
	snap := engine.Snapshot()
	defer func() { _ = engine.Stop() }()

	exporter := export.NewSnapshotExporter(log)
	positions, err := exporter.Export(ctx, snap, export.ExportOptions{
		Format:       format,
		OutputDir:    outDir,
		SymbolFilter: c.symbol,
		OnlyFlashing: c.flashing,
	})
	if err != nil {
		return fail(err)
	}
	history, err := exporter.ExportHistory(ctx, snap.Series, outDir)
	if err != nil {
		return fail(err)
	}

	summary := export.CalculateSummary(snap)
	log.Info("Simulation finished",
		zap.Uint64("tick", snap.Tick),
		zap.Int("winners", summary.Winners),
		zap.Float64("total_pnl", summary.TotalPnL))

	fmt.Fprintln(c.out, positions)
	fmt.Fprintln(c.out, history)

	if c.markdown {
		formatter, err := money.NewFormatter(cfg.Locale, cfg.Currency)
		if err != nil {
			return fail(err)
		}
		md, err := report.Markdown(snap.Series, &snap, formatter)
		if err != nil {
			return fail(err)
		}
		fmt.Fprint(c.out, md)
	}
	return subcommands.ExitSuccess
}
