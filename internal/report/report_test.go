package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/pnl-dashboard/internal/dashboard"
	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/random"
	"github.com/rovshanmuradov/pnl-dashboard/internal/series"
	"github.com/rovshanmuradov/pnl-dashboard/internal/simulator"
)

func testSeries() series.Series {
	return series.Series{
		Desks: []string{"US Equities", "EMEA Equities"},
		Points: []series.Point{
			{Date: "2026-10-16", Values: map[string]float64{"US Equities": 1234.5, "EMEA Equities": -20}},
			{Date: "2026-10-17", Values: map[string]float64{"US Equities": -100, "EMEA Equities": 40.25}},
		},
	}
}

func TestMarkdownHistoryOnly(t *testing.T) {
	md, err := Markdown(testSeries(), nil, money.MustFormatter("en-US", "USD"))
	require.NoError(t, err)

	assert.Contains(t, md, "# PnL Dashboard")
	assert.Contains(t, md, "Equity desks performance overview")
	assert.Contains(t, md, "| Date | US Equities | EMEA Equities |")
	assert.Contains(t, md, "| 2026-10-16 | 1,234.50 | -20.00 |")
	assert.Contains(t, md, "| US Equities | -100.00 | 1,134.50 | -100.00 | 1,234.50 |")
	assert.NotContains(t, md, "Realtime PnL")
}

func TestMarkdownWithRows(t *testing.T) {
	snap := &dashboard.Snapshot{
		Rows: []simulator.Position{
			simulator.NewPosition("sym-1", "AAPL", 100, 101, 1000),
			simulator.NewPosition("sym-2", "MSFT", 100, 99, 10),
		},
		Flashes: map[string]simulator.Direction{"sym-2": simulator.Neg},
	}

	md, err := Markdown(testSeries(), snap, money.MustFormatter("en-US", "USD"))
	require.NoError(t, err)

	assert.Contains(t, md, "## Realtime PnL")
	assert.Contains(t, md, "| AAPL | 100.00 | 101.00 | 1,000 | 1,000.00 |")
	assert.Contains(t, md, "| MSFT | 100.00 | 99.00 | 10 | -10.00 ▼ |")
	assert.Contains(t, md, "**$990.00**")
}

func TestMarkdownFullSeries(t *testing.T) {
	s := series.Generate(random.New(1), time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), series.DefaultOptions())
	md, err := Markdown(s, nil, money.MustFormatter("de-DE", "EUR"))
	require.NoError(t, err)
	assert.Equal(t, 60, strings.Count(md, "| 2026-"))
}

func TestRender(t *testing.T) {
	out, err := Render("# PnL Dashboard\n\n| a | b |\n|---|---|\n| 1 | 2 |\n", "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "PnL Dashboard")

	_, err = Render("# x", "neon", 80)
	assert.Error(t, err)
}
