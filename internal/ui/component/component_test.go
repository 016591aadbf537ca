package component

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/pnl-dashboard/internal/random"
	"github.com/rovshanmuradov/pnl-dashboard/internal/series"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/style"
)

var fixedChartNow = time.Date(2026, 10, 17, 15, 30, 0, 0, time.UTC)

func twoDeskSeries() series.Series {
	return series.Series{
		Desks: []string{"A", "B"},
		Points: []series.Point{
			{Date: "2026-10-16", Values: map[string]float64{"A": 2500, "B": -1000}},
			{Date: "2026-10-17", Values: map[string]float64{"A": 2500, "B": -1000}},
		},
	}
}

func TestAreaChartRowMapping(t *testing.T) {
	c := NewAreaChart(80, 13)

	assert.Equal(t, 0, c.rowOf(3000, 13))
	assert.Equal(t, 6, c.rowOf(0, 13))
	assert.Equal(t, 12, c.rowOf(-3000, 13))
	assert.Equal(t, 0, c.rowOf(9000, 13), "values above the domain clamp to the top")
	assert.Equal(t, 12, c.rowOf(-9000, 13))
}

func TestAreaChartGrid(t *testing.T) {
	c := NewAreaChart(80, 13).SetSeries(twoDeskSeries())
	grid := c.grid(4, 13)

	for x := 0; x < 4; x++ {
		assert.Equal(t, cellEmpty, grid[0][x].kind)
		assert.Equal(t, cell{kind: cellStroke, desk: 0}, grid[1][x])
		for r := 2; r <= 5; r++ {
			assert.Equal(t, cell{kind: cellFill, desk: 0}, grid[r][x])
		}
		assert.Equal(t, cellZero, grid[6][x].kind)
		assert.Equal(t, cell{kind: cellFill, desk: 1}, grid[7][x])
		assert.Equal(t, cell{kind: cellStroke, desk: 1}, grid[8][x])
		assert.Equal(t, cellEmpty, grid[9][x].kind)
	}
}

func TestAreaChartOverlapPrefersSmallestMagnitude(t *testing.T) {
	s := series.Series{
		Desks: []string{"big", "small"},
		Points: []series.Point{
			{Date: "2026-10-17", Values: map[string]float64{"big": 2500, "small": 1000}},
		},
	}
	c := NewAreaChart(80, 13).SetSeries(s)
	grid := c.grid(2, 13)

	// small reaches row 4, big reaches row 1
	assert.Equal(t, cell{kind: cellFill, desk: 0}, grid[2][0])
	assert.Equal(t, cell{kind: cellStroke, desk: 1}, grid[4][0])
	assert.Equal(t, cell{kind: cellFill, desk: 1}, grid[5][0])
}

func TestAreaChartDayIndex(t *testing.T) {
	s := series.Generate(random.New(7), fixedChartNow, series.DefaultOptions())
	c := NewAreaChart(80, 12).SetSeries(s)

	assert.Equal(t, 0, c.dayIndex(0, 40))
	assert.Equal(t, 59, c.dayIndex(39, 40))
	prev := 0
	for x := 0; x < 40; x++ {
		idx := c.dayIndex(x, 40)
		assert.GreaterOrEqual(t, idx, prev)
		prev = idx
	}
}

func TestAreaChartDateAxisRespectsGap(t *testing.T) {
	s := series.Generate(random.New(7), fixedChartNow, series.DefaultOptions())
	c := NewAreaChart(80, 12).SetSeries(s).SetMinTickGap(4)

	axis := []rune(c.dateAxis(60))
	require.Len(t, axis, 60)
	assert.Equal(t, "08-19", string(axis[:5]), "first tick is the first day")

	var starts []int
	for i := 0; i < len(axis); i++ {
		if axis[i] != ' ' && (i == 0 || axis[i-1] == ' ') {
			starts = append(starts, i)
		}
	}
	require.GreaterOrEqual(t, len(starts), 2)
	for i := 1; i < len(starts); i++ {
		assert.GreaterOrEqual(t, starts[i]-starts[i-1], 5+4)
	}
}

func TestAreaChartView(t *testing.T) {
	s := series.Generate(random.New(7), fixedChartNow, series.DefaultOptions())
	view := NewAreaChart(90, 12).SetSeries(s).View()

	assert.Contains(t, view, "╌")
	assert.Contains(t, view, "3000")
	assert.Contains(t, view, "-3000")
	for _, desk := range series.DefaultDesks {
		assert.Contains(t, view, desk)
	}

	empty := NewAreaChart(90, 12).View()
	assert.Contains(t, empty, "No data")
}

func TestTableCellStyleAndTruncation(t *testing.T) {
	tbl := NewTable().
		SetColumns([]TableColumn{
			{Header: "Symbol", Width: 8, Align: lipgloss.Left},
			{Header: "PnL", Width: 10, Align: lipgloss.Right},
		}).
		SetShowBorder(false)
	tbl.SetRows([][]string{{"VERYLONGNAME", "12.00"}, {"MSFT", "-3.00"}})
	tbl.SetCellStyle(1, 1, tbl.RowStyle().Bold(true))
	tbl.SetCellStyle(9, 1, tbl.RowStyle())

	view := tbl.View()
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Symbol")
	assert.Contains(t, lines[2], "VERYL…")
	assert.Contains(t, lines[3], "-3.00")
	assert.Equal(t, 2, tbl.GetRowCount())

	assert.Equal(t, "No columns defined", NewTable().View())
}

func TestTableSelection(t *testing.T) {
	tbl := NewTable().SetColumns([]TableColumn{{Header: "A", Width: 4}}).SetSelectable(true)
	tbl.SetRows([][]string{{"1"}, {"2"}, {"3"}})

	tbl.MoveDown().MoveDown().MoveDown()
	assert.Equal(t, 2, tbl.GetSelectedRow())
	assert.Equal(t, []string{"3"}, tbl.GetSelectedRowData())
	tbl.MoveUp()
	assert.Equal(t, 1, tbl.GetSelectedRow())

	tbl.SetRows([][]string{{"x"}})
	assert.Equal(t, 0, tbl.GetSelectedRow())
}

func TestSparkline(t *testing.T) {
	s := NewSparkline(3).SetData([]float64{1, 2, 3, 4, 5})
	assert.Equal(t, []float64{3, 4, 5}, s.data)
	assert.Equal(t, "↗", s.GetTrend())
	assert.Equal(t, "▁▄█", s.blocks())

	flat := NewSparkline(4).SetData([]float64{2, 2})
	assert.Equal(t, "▄▄  ", flat.blocks())
	assert.Equal(t, "→", flat.GetTrend())
}

func TestPnLGauge(t *testing.T) {
	g := NewPnLGauge(10)

	assert.Equal(t, "Break Even", g.GetStatus())
	assert.Equal(t, "+0.00%", g.SetValue(0.004).percentText())
	assert.Equal(t, "-1.25%", g.SetValue(-1.25).percentText())
	assert.Equal(t, "Strong Loss", g.GetStatus())
	assert.Equal(t, "↘", g.GetArrow())
	assert.Equal(t, "Profit", g.SetValue(0.5).GetStatus())

	g.SetValue(4)
	assert.Equal(t, strings.Repeat("█", 10), g.bar(), "values past full scale fill the bar")
	assert.Contains(t, g.View(), "+4.00%")
}

func TestHelpBar(t *testing.T) {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"), key.WithDisabled()),
	}
	h := NewHelpBar().SetKeyBindings(bindings).SetWidth(80)

	view := h.View()
	assert.Contains(t, view, "pause")
	assert.Contains(t, view, "quit")
	assert.NotContains(t, view, "hidden")

	compact := h.SetCompact(true).View()
	assert.NotContains(t, compact, "pause")
	assert.Empty(t, NewHelpBar().View())
}

func TestLogFilter(t *testing.T) {
	f := DefaultLogFilter()
	assert.True(t, f.Allows("error"))
	assert.True(t, f.Allows("WARN"))
	assert.True(t, f.Allows("info"))
	assert.False(t, f.Allows("debug"))

	f.Toggle("debug")
	f.Toggle("error")
	assert.True(t, f.Allows("debug"))
	assert.False(t, f.Allows("error"))
}

func TestComponentsShareLayoutStyles(t *testing.T) {
	table := NewTable()
	assert.Equal(t, style.TableHeaderStyle.GetForeground(), table.headerStyle.GetForeground())
	assert.Equal(t, style.TableRowStyle.GetForeground(), table.RowStyle().GetForeground())
	assert.Equal(t, style.TableRowSelectedStyle.GetBackground(), table.selectedRowStyle.GetBackground())

	logs := DefaultLogStyles()
	assert.Equal(t, style.WarningStyle.GetForeground(), logs.Warning.GetForeground())
	assert.Equal(t, style.InfoStyle.GetForeground(), logs.Info.GetForeground())
	assert.Equal(t, style.MutedStyle.GetForeground(), logs.Debug.GetForeground())
	assert.Equal(t, style.MutedStyle.GetForeground(), logs.Timestamp.GetForeground())

	assert.True(t, NewHelpBar().descStyle.GetItalic())
}
