// Package simulator owns the live position rows and the transient flash
// highlight that marks a row whose PnL just changed.
package simulator

import (
	"fmt"
	"math"

	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/random"
)

// Direction is the sign class of a PnL value.
type Direction string

const (
	Pos Direction = "pos"
	Neg Direction = "neg"
)

// DirectionOf classifies a PnL value. Zero counts as positive.
func DirectionOf(pnl float64) Direction {
	if pnl >= 0 {
		return Pos
	}
	return Neg
}

// MinPrice is the floor applied to every repriced market price.
const MinPrice = 0.01

// DefaultSymbols is the ticker cycle used to name rows.
var DefaultSymbols = []string{
	"AAPL", "MSFT", "NVDA", "AMZN", "GOOGL", "META",
	"TSLA", "JPM", "BAC", "GS", "HSBC", "BABA",
}

// Position is one live table row. Values are replaced on every tick, never
// shared.
type Position struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	TradePrice   float64 `json:"trade_price"`
	MarketPrice  float64 `json:"market_price"`
	Quantity     int     `json:"quantity"`
	ProfitOrLoss float64 `json:"profit_or_loss"`
}

// PnL computes (market - trade) * quantity rounded to cents.
func PnL(trade, market float64, qty int) float64 {
	return money.Round((market - trade) * float64(qty))
}

// NewPosition builds a row with a consistent PnL.
func NewPosition(id, symbol string, trade, market float64, qty int) Position {
	return Position{
		ID:           id,
		Symbol:       symbol,
		TradePrice:   trade,
		MarketPrice:  market,
		Quantity:     qty,
		ProfitOrLoss: PnL(trade, market, qty),
	}
}

// Reprice returns a copy at the new market price, floored at MinPrice.
func (p Position) Reprice(market float64) Position {
	next := p
	next.MarketPrice = math.Max(MinPrice, money.Round(market))
	next.ProfitOrLoss = PnL(next.TradePrice, next.MarketPrice, next.Quantity)
	return next
}

// CostBasis is trade price times quantity.
func (p Position) CostBasis() float64 {
	return p.TradePrice * float64(p.Quantity)
}

// Change reports a row whose PnL moved during a tick.
type Change struct {
	ID        string
	Direction Direction
}

// Options controls row creation and the per-tick walk.
type Options struct {
	Rows     int
	Symbols  []string
	MinTrade float64
	MaxTrade float64
	Spread   float64 // initial market is trade * [1-Spread, 1+Spread]
	MinQty   int
	MaxQty   int     // exclusive
	Drift    float64 // each tick multiplies market by [1-Drift, 1+Drift]
}

// DefaultOptions returns the ten row configuration.
func DefaultOptions() Options {
	return Options{
		Rows:     10,
		Symbols:  DefaultSymbols,
		MinTrade: 50,
		MaxTrade: 200,
		Spread:   0.015,
		MinQty:   50,
		MaxQty:   1000,
		Drift:    0.003,
	}
}

// Simulator mutates the rows. It is not safe for concurrent use; the
// dashboard engine serializes every call.
type Simulator struct {
	src   random.Source
	opts  Options
	rows  []Position
	ticks uint64
}

// New seeds the rows from src.
func New(src random.Source, opts Options) *Simulator {
	if len(opts.Symbols) == 0 {
		opts.Symbols = DefaultSymbols
	}

	rows := make([]Position, opts.Rows)
	for i := range rows {
		trade := money.Round(random.Uniform(src, opts.MinTrade, opts.MaxTrade))
		market := money.Round(trade * random.Uniform(src, 1-opts.Spread, 1+opts.Spread))
		qty := int(random.Uniform(src, float64(opts.MinQty), float64(opts.MaxQty)))
		rows[i] = NewPosition(
			fmt.Sprintf("sym-%d", i+1),
			opts.Symbols[i%len(opts.Symbols)],
			trade, market, qty,
		)
	}

	return &Simulator{src: src, opts: opts, rows: rows}
}

// FromRows wraps fixed rows, mainly for scripted scenarios.
func FromRows(src random.Source, opts Options, rows []Position) *Simulator {
	cp := make([]Position, len(rows))
	copy(cp, rows)
	return &Simulator{src: src, opts: opts, rows: cp}
}

// Rows returns a copy of the current rows.
func (s *Simulator) Rows() []Position {
	out := make([]Position, len(s.rows))
	copy(out, s.rows)
	return out
}

// Ticks returns how many ticks have run.
func (s *Simulator) Ticks() uint64 {
	return s.ticks
}

// Tick reprices every row and reports the rows whose PnL changed.
func (s *Simulator) Tick() []Change {
	var changes []Change

	next := make([]Position, len(s.rows))
	for i, row := range s.rows {
		factor := random.Uniform(s.src, 1-s.opts.Drift, 1+s.opts.Drift)
		next[i] = row.Reprice(row.MarketPrice * factor)
		if next[i].ProfitOrLoss != row.ProfitOrLoss {
			changes = append(changes, Change{
				ID:        row.ID,
				Direction: DirectionOf(next[i].ProfitOrLoss),
			})
		}
	}

	s.rows = next
	s.ticks++
	return changes
}
