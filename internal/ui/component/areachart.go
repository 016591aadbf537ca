package component

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/pnl-dashboard/internal/series"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/style"
)

const (
	// DefaultChartDomain is the symmetric y axis bound.
	DefaultChartDomain = 3000.0
	defaultTickGap     = 3
	legendSparkWidth   = 20
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellZero
	cellFill
	cellStroke
)

type cell struct {
	kind cellKind
	desk int
}

// AreaChart draws one filled area per desk around a dashed zero line
type AreaChart struct {
	series     series.Series
	width      int
	height     int
	yMin, yMax float64
	minTickGap int
	showLegend bool

	tickFormat  func(float64) string
	valueFormat func(float64) string
	palette     style.Palette
}

// NewAreaChart creates a chart with a [-3000, 3000] domain.
func NewAreaChart(width, height int) *AreaChart {
	return &AreaChart{
		width:       width,
		height:      height,
		yMin:        -DefaultChartDomain,
		yMax:        DefaultChartDomain,
		minTickGap:  defaultTickGap,
		showLegend:  true,
		tickFormat:  func(v float64) string { return fmt.Sprintf("%.0f", v) },
		valueFormat: func(v float64) string { return fmt.Sprintf("%.2f", v) },
		palette:     style.DefaultPalette(),
	}
}

// SetSeries sets the data to plot
func (c *AreaChart) SetSeries(s series.Series) *AreaChart {
	c.series = s
	return c
}

// SetSize sets the total width and the plot height in rows.
func (c *AreaChart) SetSize(width, height int) *AreaChart {
	c.width = width
	c.height = height
	return c
}

// SetDomain sets the y axis range.
func (c *AreaChart) SetDomain(lo, hi float64) *AreaChart {
	if hi > lo {
		c.yMin, c.yMax = lo, hi
	}
	return c
}

// SetMinTickGap sets the minimum number of blank columns between date labels.
func (c *AreaChart) SetMinTickGap(gap int) *AreaChart {
	c.minTickGap = max(gap, 1)
	return c
}

// SetFormatters sets how axis ticks and legend values are printed.
func (c *AreaChart) SetFormatters(tick, value func(float64) string) *AreaChart {
	if tick != nil {
		c.tickFormat = tick
	}
	if value != nil {
		c.valueFormat = value
	}
	return c
}

// SetShowLegend enables/disables the desk legend
func (c *AreaChart) SetShowLegend(show bool) *AreaChart {
	c.showLegend = show
	return c
}

// View renders the plot, the date axis and the legend.
func (c *AreaChart) View() string {
	if c.series.Len() == 0 {
		return lipgloss.NewStyle().Foreground(c.palette.TextMuted).Render("No data")
	}

	ticks := c.yTicks()
	labelW := 0
	for _, t := range ticks {
		labelW = max(labelW, lipgloss.Width(c.tickFormat(t)))
	}
	plotW := max(c.width-labelW-1, 2)
	height := max(c.height, 3)

	grid := c.grid(plotW, height)
	tickRows := make(map[int]float64, len(ticks))
	for _, t := range ticks {
		tickRows[c.rowOf(t, height)] = t
	}

	muted := lipgloss.NewStyle().Foreground(c.palette.TextMuted)
	lines := make([]string, 0, height+3)
	for r := 0; r < height; r++ {
		label, axis := strings.Repeat(" ", labelW), "│"
		if t, ok := tickRows[r]; ok {
			txt := c.tickFormat(t)
			label = strings.Repeat(" ", labelW-lipgloss.Width(txt)) + txt
			axis = "┤"
		}
		lines = append(lines, muted.Render(label+axis)+c.renderRow(grid[r]))
	}

	lines = append(lines, muted.Render(strings.Repeat(" ", labelW)+"└"+strings.Repeat("─", plotW)))
	lines = append(lines, muted.Render(strings.Repeat(" ", labelW+1)+c.dateAxis(plotW)))

	if c.showLegend {
		lines = append(lines, "", c.legend())
	}
	return strings.Join(lines, "\n")
}

// yTicks returns five evenly spaced ticks from yMax down to yMin.
func (c *AreaChart) yTicks() []float64 {
	step := (c.yMax - c.yMin) / 4
	ticks := make([]float64, 5)
	for i := range ticks {
		ticks[i] = c.yMax - float64(i)*step
	}
	return ticks
}

// rowOf maps a value onto a plot row, 0 being the top.
func (c *AreaChart) rowOf(v float64, height int) int {
	v = math.Max(c.yMin, math.Min(c.yMax, v))
	r := int(math.Round((c.yMax - v) / (c.yMax - c.yMin) * float64(height-1)))
	return max(0, min(r, height-1))
}

// dayIndex maps a plot column onto a point index.
func (c *AreaChart) dayIndex(x, plotW int) int {
	n := c.series.Len()
	if plotW <= 1 || n <= 1 {
		return n - 1
	}
	return int(math.Round(float64(x) * float64(n-1) / float64(plotW-1)))
}

// grid assigns every cell to the zero line, a desk stroke or a desk fill.
// Where areas overlap the desk closest to zero is drawn on top.
func (c *AreaChart) grid(plotW, height int) [][]cell {
	zero := c.rowOf(0, height)
	grid := make([][]cell, height)
	for r := range grid {
		grid[r] = make([]cell, plotW)
		if r == zero {
			for x := range grid[r] {
				grid[r][x] = cell{kind: cellZero}
			}
		}
	}

	for x := 0; x < plotW; x++ {
		point := c.series.Points[c.dayIndex(x, plotW)]
		for r := 0; r < height; r++ {
			if r == zero {
				continue
			}
			best, bestAbs := -1, math.Inf(1)
			stroke := -1
			for d, desk := range c.series.Desks {
				v := point.Values[desk]
				edge := c.rowOf(v, height)
				covers := (v > 0 && r >= edge && r < zero) || (v < 0 && r <= edge && r > zero)
				if !covers {
					continue
				}
				if r == edge && stroke < 0 {
					stroke = d
				}
				if math.Abs(v) < bestAbs {
					best, bestAbs = d, math.Abs(v)
				}
			}
			switch {
			case stroke >= 0:
				grid[r][x] = cell{kind: cellStroke, desk: stroke}
			case best >= 0:
				grid[r][x] = cell{kind: cellFill, desk: best}
			}
		}
	}
	return grid
}

// renderRow styles runs of identical cells together.
func (c *AreaChart) renderRow(row []cell) string {
	var b strings.Builder
	for start := 0; start < len(row); {
		end := start
		for end < len(row) && row[end] == row[start] {
			end++
		}
		b.WriteString(c.renderRun(row[start], end-start))
		start = end
	}
	return b.String()
}

func (c *AreaChart) renderRun(cl cell, n int) string {
	switch cl.kind {
	case cellZero:
		return lipgloss.NewStyle().Foreground(c.palette.TextMuted).Render(strings.Repeat("╌", n))
	case cellStroke:
		return lipgloss.NewStyle().Foreground(c.palette.DeskColor(cl.desk)).Render(strings.Repeat("█", n))
	case cellFill:
		return lipgloss.NewStyle().Foreground(c.palette.DeskColor(cl.desk)).Render(strings.Repeat("░", n))
	default:
		return strings.Repeat(" ", n)
	}
}

// dateAxis places MM-DD labels left to right, skipping any label that would
// come closer than minTickGap to the previous one.
func (c *AreaChart) dateAxis(plotW int) string {
	line := []rune(strings.Repeat(" ", plotW))
	next, lastIdx := 0, -1
	for x := 0; x < plotW; x++ {
		idx := c.dayIndex(x, plotW)
		if idx == lastIdx || x < next {
			continue
		}
		label := []rune(shortDate(c.series.Points[idx].Date))
		if x+len(label) > plotW {
			break
		}
		copy(line[x:], label)
		lastIdx = idx
		next = x + len(label) + c.minTickGap
	}
	return string(line)
}

func shortDate(iso string) string {
	if len(iso) == len("2006-01-02") {
		return iso[5:]
	}
	return iso
}

// legend lists each desk with a sparkline of its recent values and the
// latest value.
func (c *AreaChart) legend() string {
	nameW := 0
	for _, desk := range c.series.Desks {
		nameW = max(nameW, lipgloss.Width(desk))
	}

	lines := make([]string, 0, len(c.series.Desks))
	for i, desk := range c.series.Desks {
		color := c.palette.DeskColor(i)
		spark := NewSparkline(legendSparkWidth).SetColor(color).SetData(c.series.Values(desk))

		last := c.series.Last(desk)
		valueStyle := lipgloss.NewStyle().Foreground(c.palette.Success)
		if last < 0 {
			valueStyle = valueStyle.Foreground(c.palette.Error)
		}

		lines = append(lines, fmt.Sprintf("%s %-*s %s %s",
			lipgloss.NewStyle().Foreground(color).Render("■"),
			nameW, desk,
			spark.View(),
			valueStyle.Render(c.valueFormat(last)),
		))
	}
	return strings.Join(lines, "\n")
}
