package component

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/pnl-dashboard/internal/dashboard"
	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/style"
)

// StatusHeader shows the live totals above the dashboard cards
type StatusHeader struct {
	formatter *money.Formatter
	gauge     *PnLGauge
	snap      dashboard.Snapshot
	style     StatusHeaderStyle
	width     int
}

// StatusHeaderStyle contains all styling for the status header
type StatusHeaderStyle struct {
	container   lipgloss.Style
	title       lipgloss.Style
	label       lipgloss.Style
	pnlPositive lipgloss.Style
	pnlNegative lipgloss.Style
	live        lipgloss.Style
	paused      lipgloss.Style
}

// NewStatusHeader creates a new status header component
func NewStatusHeader(f *money.Formatter) *StatusHeader {
	palette := style.DefaultPalette()

	return &StatusHeader{
		formatter: f,
		gauge:     NewPnLGauge(10),
		style: StatusHeaderStyle{
			container: lipgloss.NewStyle().
				Foreground(palette.Text).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary).
				Padding(0, 2),

			title: lipgloss.NewStyle().
				Foreground(palette.Primary).
				Bold(true),

			label: lipgloss.NewStyle().
				Foreground(palette.TextSecondary),

			pnlPositive: lipgloss.NewStyle().
				Foreground(palette.Success).
				Bold(true),

			pnlNegative: lipgloss.NewStyle().
				Foreground(palette.Error).
				Bold(true),

			live: lipgloss.NewStyle().
				Foreground(palette.Success),

			paused: lipgloss.NewStyle().
				Foreground(palette.Warning).
				Bold(true),
		},
	}
}

// SetSnapshot updates the totals from the latest engine snapshot.
func (sh *StatusHeader) SetSnapshot(snap dashboard.Snapshot) {
	sh.snap = snap
	sh.gauge.SetValue(snap.PnLPercent())
}

// SetWidth sets the component width for responsive layout
func (sh *StatusHeader) SetWidth(width int) {
	sh.width = width
	sh.style.container = sh.style.container.Width(max(width-2, 20))
}

// View renders the status header
func (sh *StatusHeader) View() string {
	sep := sh.style.label.Render(" | ")

	total := sh.snap.TotalPnL()
	pnlStyle := sh.style.pnlPositive
	if total < 0 {
		pnlStyle = sh.style.pnlNegative
	}
	pnl := sh.style.label.Render("Total PnL: ") + pnlStyle.Render(sh.formatter.Currency(total))

	state := sh.style.live.Render("● LIVE")
	if sh.snap.Paused {
		state = sh.style.paused.Render("❚❚ PAUSED")
	}

	gauge := sh.gauge.View()
	if sh.width > 0 && sh.width < 90 {
		gauge = sh.gauge.ViewCompact()
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Left,
		sh.style.title.Render("PnL Dashboard"),
		sep,
		pnl,
		sep,
		gauge,
		sep,
		sh.style.label.Render(fmt.Sprintf("Tick %d", sh.snap.Tick)),
		sep,
		state,
	)

	return sh.style.container.Render(content)
}

// GetHeight returns the component height for layout calculations
func (sh *StatusHeader) GetHeight() int {
	return 3
}
