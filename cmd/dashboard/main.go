// Command dashboard runs the simulated PnL dashboard.
//
//	dashboard [-config file] [-seed n] [run|history|snapshot] [flags]
//
// With no subcommand it starts the interactive dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/rovshanmuradov/pnl-dashboard/internal/config"
	"github.com/rovshanmuradov/pnl-dashboard/internal/dashboard"
)

// globals are the flags shared by every subcommand.
type globals struct {
	configPath string
	seed       uint64
}

// loadConfig reads the config and applies the -seed override.
func (g *globals) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.seed != 0 {
		cfg.Seed = g.seed
	}
	return cfg, nil
}

func engineConfig(cfg *config.Config) dashboard.Config {
	return dashboard.Config{
		TickInterval:  cfg.TickInterval,
		FlashDuration: cfg.FlashDuration,
		HistoryDays:   cfg.HistoryDays,
		Rows:          cfg.Rows,
	}
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

func newCommander(fs *flag.FlagSet, g *globals) *subcommands.Commander {
	fs.StringVar(&g.configPath, "config", "", "path to a JSON/YAML/TOML config file")
	fs.Uint64Var(&g.seed, "seed", 0, "random seed, 0 picks one from the clock")

	commander := subcommands.NewCommander(fs, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&runCmd{globals: g}, "")
	commander.Register(&historyCmd{globals: g, out: os.Stdout}, "")
	commander.Register(&snapshotCmd{globals: g, out: os.Stdout}, "")
	return commander
}

func main() {
	g := &globals{}
	commander := newCommander(flag.CommandLine, g)
	flag.Parse()
	if flag.NArg() == 0 {
		_ = flag.CommandLine.Parse([]string{"run"})
	}

	ctx := context.Background()
	os.Exit(int(commander.Execute(ctx)))
}
