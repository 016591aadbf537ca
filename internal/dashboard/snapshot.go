package dashboard

import (
	"time"

	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/series"
	"github.com/rovshanmuradov/pnl-dashboard/internal/simulator"
)

// Snapshot is an immutable copy of the engine state handed to renderers and
// exporters.
type Snapshot struct {
	Rows    []simulator.Position            `json:"rows"`
	Flashes map[string]simulator.Direction `json:"flashes"`
	Series  series.Series                  `json:"series"`
	Tick    uint64                         `json:"tick"`
	Paused  bool                           `json:"paused"`
	At      time.Time                      `json:"at"`
}

// FlashFor returns the active highlight of a row.
func (s Snapshot) FlashFor(id string) (simulator.Direction, bool) {
	dir, ok := s.Flashes[id]
	return dir, ok
}

// Visible returns at most n rows.
func (s Snapshot) Visible(n int) []simulator.Position {
	if n < 0 || n >= len(s.Rows) {
		return s.Rows
	}
	return s.Rows[:n]
}

// TotalPnL sums the row PnL.
func (s Snapshot) TotalPnL() float64 {
	total := 0.0
	for _, r := range s.Rows {
		total += r.ProfitOrLoss
	}
	return money.Round(total)
}

// CostBasis sums trade price times quantity.
func (s Snapshot) CostBasis() float64 {
	total := 0.0
	for _, r := range s.Rows {
		total += r.CostBasis()
	}
	return money.Round(total)
}

// PnLPercent is the total PnL relative to the cost basis.
func (s Snapshot) PnLPercent() float64 {
	basis := s.CostBasis()
	if basis == 0 {
		return 0
	}
	return s.TotalPnL() / basis * 100
}

// Winners counts rows with non-negative PnL.
func (s Snapshot) Winners() int {
	n := 0
	for _, r := range s.Rows {
		if simulator.DirectionOf(r.ProfitOrLoss) == simulator.Pos {
			n++
		}
	}
	return n
}
