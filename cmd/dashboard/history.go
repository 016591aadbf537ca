package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pnl-dashboard/internal/logger"
	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/random"
	"github.com/rovshanmuradov/pnl-dashboard/internal/report"
	"github.com/rovshanmuradov/pnl-dashboard/internal/series"
)

type historyCmd struct {
	*globals
	out      io.Writer
	now      func() time.Time
	generate func(random.Source, time.Time, series.Options) series.Series

	days  int
	style string
	width int
	raw   bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "Print the historical desk PnL report." }
func (*historyCmd) Usage() string {
	return `history [-days n] [-style auto|dark|light|notty|ascii] [-raw]:
  Generate the daily desk series and print it as a report.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 0, "days of history, 0 uses history_days")
	f.StringVar(&c.style, "style", "auto", "markdown style")
	f.IntVar(&c.width, "width", 100, "word wrap width")
	f.BoolVar(&c.raw, "raw", false, "print markdown without rendering")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %v\n", f.Args())
		return subcommands.ExitUsageError
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return fail(err)
	}
	log := logger.CreatePrettyLogger(cfg.DebugLogging)
	defer func() { _ = log.Sync() }()

	formatter, err := money.NewFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		return fail(err)
	}

	opts := series.DefaultOptions()
	opts.Days = cfg.HistoryDays
	if c.days > 0 {
		opts.Days = c.days
	}
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	generate := series.Generate
	if c.generate != nil {
		generate = c.generate
	}
	s := generate(random.New(cfg.Seed), now(), opts)
	if err := s.Validate(opts.Bound); err != nil {
		return fail(err)
	}
	log.Debug("History generated", zap.Int("days", s.Len()), zap.Uint64("seed", cfg.Seed))

	md, err := report.Markdown(s, nil, formatter)
	if err != nil {
		return fail(err)
	}
	if !c.raw {
		if md, err = report.Render(md, c.style, c.width); err != nil {
			return fail(err)
		}
	}
	fmt.Fprint(c.out, md)
	return subcommands.ExitSuccess
}
