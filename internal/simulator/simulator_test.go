package simulator

import (
	"testing"

	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func TestNewRowsWithinRanges(t *testing.T) {
	for seed := uint64(1); seed <= 100; seed++ {
		sim := New(random.New(seed), DefaultOptions())
		rows := sim.Rows()
		require.Len(t, rows, 10)

		for i, r := range rows {
			assert.Equal(t, DefaultSymbols[i], r.Symbol)
			assert.GreaterOrEqual(t, r.TradePrice, 50.0)
			assert.LessOrEqual(t, r.TradePrice, 200.0)
			assert.GreaterOrEqual(t, r.MarketPrice, money.Round(0.985*r.TradePrice)-0.005)
			assert.LessOrEqual(t, r.MarketPrice, money.Round(1.015*r.TradePrice)+0.005)
			assert.GreaterOrEqual(t, r.Quantity, 50)
			assert.Less(t, r.Quantity, 1000)
			assert.Equal(t, money.Round((r.MarketPrice-r.TradePrice)*float64(r.Quantity)), r.ProfitOrLoss)
		}
	}
}

func TestRowIDsAreUniqueAndStable(t *testing.T) {
	opts := DefaultOptions()
	opts.Rows = 14
	sim := New(random.New(3), opts)

	ids := make(map[string]bool)
	for i, r := range sim.Rows() {
		assert.False(t, ids[r.ID])
		ids[r.ID] = true
		assert.Equal(t, DefaultSymbols[i%12], r.Symbol)
	}
	assert.Equal(t, "sym-1", sim.Rows()[0].ID)
	assert.Equal(t, "sym-13", sim.Rows()[12].ID)
	assert.Equal(t, "AAPL", sim.Rows()[12].Symbol)

	before := sim.Rows()
	sim.Tick()
	for i, r := range sim.Rows() {
		assert.Equal(t, before[i].ID, r.ID)
		assert.Equal(t, before[i].TradePrice, r.TradePrice)
		assert.Equal(t, before[i].Quantity, r.Quantity)
	}
}

func TestTickKeepsPnLConsistent(t *testing.T) {
	sim := New(random.New(7), DefaultOptions())
	for i := 0; i < 500; i++ {
		sim.Tick()
		for _, r := range sim.Rows() {
			require.GreaterOrEqual(t, r.MarketPrice, MinPrice)
			require.Equal(t, PnL(r.TradePrice, r.MarketPrice, r.Quantity), r.ProfitOrLoss)
		}
	}
	assert.Equal(t, uint64(500), sim.Ticks())
}

func TestTickFloorsMarketPrice(t *testing.T) {
	opts := DefaultOptions()
	opts.Drift = 0.5
	sim := FromRows(constSource(0), opts, []Position{NewPosition("sym-1", "AAPL", 100, 1, 10)})

	for i := 0; i < 20; i++ {
		sim.Tick()
	}
	assert.Equal(t, MinPrice, sim.Rows()[0].MarketPrice)
	assert.Equal(t, -999.9, sim.Rows()[0].ProfitOrLoss)
}

func TestRowsReturnsCopy(t *testing.T) {
	sim := New(random.New(1), DefaultOptions())
	rows := sim.Rows()
	rows[0].MarketPrice = -1
	assert.NotEqual(t, -1.0, sim.Rows()[0].MarketPrice)
}

func TestPositivePnLScenario(t *testing.T) {
	p := NewPosition("sym-1", "AAPL", 100, 101, 10)
	assert.Equal(t, 10.0, p.ProfitOrLoss)
	assert.Equal(t, Pos, DirectionOf(p.ProfitOrLoss))
}

func TestNegativeTickEmitsChange(t *testing.T) {
	opts := DefaultOptions()
	opts.Drift = 0.01
	// A zero draw multiplies the market by 0.99.
	sim := FromRows(constSource(0), opts, []Position{NewPosition("sym-1", "AAPL", 100, 100, 10)})

	changes := sim.Tick()

	require.Len(t, changes, 1)
	assert.Equal(t, Change{ID: "sym-1", Direction: Neg}, changes[0])
	row := sim.Rows()[0]
	assert.Equal(t, 99.0, row.MarketPrice)
	assert.Equal(t, -10.0, row.ProfitOrLoss)
}

func TestUnchangedTickEmitsNothing(t *testing.T) {
	// A 0.5 draw is a factor of exactly 1.
	sim := FromRows(constSource(0.5), DefaultOptions(), []Position{NewPosition("sym-1", "AAPL", 100, 100, 10)})
	assert.Empty(t, sim.Tick())
	assert.Equal(t, uint64(1), sim.Ticks())
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, Pos, DirectionOf(0))
	assert.Equal(t, Pos, DirectionOf(0.01))
	assert.Equal(t, Neg, DirectionOf(-0.01))
}

func TestReprice(t *testing.T) {
	p := NewPosition("sym-1", "AAPL", 100, 100, 10)
	next := p.Reprice(-5)
	assert.Equal(t, MinPrice, next.MarketPrice)
	assert.Equal(t, 100.0, p.MarketPrice)
	assert.Equal(t, 1000.0, p.CostBasis())
}
