package screen

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/pnl-dashboard/internal/dashboard"
	"github.com/rovshanmuradov/pnl-dashboard/internal/logger"
	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/component"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/router"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/style"
)

// VisibleRows is how many positions the realtime table shows.
const VisibleRows = 10

const (
	pnlColumn      = 4
	tableCardWidth = 72
	chartHeight    = 11
	logPaneHeight  = 7
)

// Controller is the part of the engine the dashboard drives.
type Controller interface {
	Snapshot() dashboard.Snapshot
	TogglePause() bool
	Step()
}

// ExportFunc writes a snapshot somewhere and returns the file path.
type ExportFunc func(ctx context.Context, snap dashboard.Snapshot) (string, error)

// DashboardScreen shows the historical chart and the realtime table
type DashboardScreen struct {
	width  int
	height int
	keyMap ui.KeyMap

	engine    Controller
	formatter *money.Formatter
	export    ExportFunc

	header  *component.StatusHeader
	chart   *component.AreaChart
	table   *component.Table
	logs    *component.CompactLogViewer
	helpBar *component.HelpBar

	snap      dashboard.Snapshot
	showHelp  bool
	exporting bool
	notice    string
	noticeErr bool
}

// NewDashboardScreen creates the dashboard. buffer and export may be nil.
func NewDashboardScreen(engine Controller, f *money.Formatter, buffer *logger.LogBuffer, export ExportFunc) *DashboardScreen {
	s := &DashboardScreen{
		keyMap:    ui.DefaultKeyMap(),
		engine:    engine,
		formatter: f,
		export:    export,
		header:    component.NewStatusHeader(f),
		chart:     component.NewAreaChart(60, chartHeight),
		logs:      component.NewCompactLogViewer(buffer),
		helpBar:   component.NewHelpBar(),
	}

	s.chart.SetFormatters(
		func(v float64) string { return f.Quantity(int(v)) },
		f.Signed,
	)
	s.initializeTable()
	s.logs.SetVisible(buffer != nil)
	s.helpBar.SetKeyBindings(s.keyMap.ContextualHelp(ui.RouteDashboard))
	s.applySnapshot(engine.Snapshot())

	return s
}

func (s *DashboardScreen) initializeTable() {
	s.table = component.NewTable().
		AddColumn("Symbol", 9, lipgloss.Left).
		AddColumn("Trade Price", 14, lipgloss.Right).
		AddColumn("Market Price", 14, lipgloss.Right).
		AddColumn("Quantity", 10, lipgloss.Right).
		AddColumn("Profit/Loss", 15, lipgloss.Right).
		SetShowBorder(false).
		SetSelectable(false)
}

// Init initializes the dashboard screen
func (s *DashboardScreen) Init() tea.Cmd {
	return nil
}

// Update handles screen updates
func (s *DashboardScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s, s.handleKey(msg)

	case ui.SnapshotMsg:
		s.applySnapshot(msg.Snapshot)

	case ui.ExportedMsg:
		s.exporting = false
		s.setNotice(fmt.Sprintf("Exported %s", msg.Path), false)

	case ui.ErrorMsg:
		s.exporting = false
		s.setNotice(fmt.Sprintf("%s: %v", msg.Title, msg.Error), true)

	case ui.SuccessMsg:
		s.setNotice(msg.Message, false)

	default:
		return s, s.logs.Update(msg)
	}
	return s, nil
}

func (s *DashboardScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keyMap.Quit):
		return tea.Quit

	case key.Matches(msg, s.keyMap.Pause):
		s.engine.TogglePause()
		s.applySnapshot(s.engine.Snapshot())

	case key.Matches(msg, s.keyMap.Step):
		s.engine.Step()
		s.applySnapshot(s.engine.Snapshot())

	case key.Matches(msg, s.keyMap.Export):
		return s.exportCmd()

	case key.Matches(msg, s.keyMap.ToggleLogs):
		s.logs.SetVisible(!s.logs.IsVisible())
		s.resize()

	case key.Matches(msg, s.keyMap.Logs):
		return func() tea.Msg { return ui.RouterMsg{To: ui.RouteLogs} }

	case key.Matches(msg, s.keyMap.Help):
		s.showHelp = !s.showHelp

	default:
		return s.logs.Update(msg)
	}
	return nil
}

func (s *DashboardScreen) exportCmd() tea.Cmd {
	if s.export == nil {
		s.setNotice("Export is not configured", true)
		return nil
	}
	if s.exporting {
		return nil
	}
	s.exporting = true
	s.setNotice("Exporting...", false)

	export, snap := s.export, s.engine.Snapshot()
	return func() tea.Msg {
		path, err := export(context.Background(), snap)
		if err != nil {
			return ui.ErrorMsg{Error: err, Title: "Export failed"}
		}
		return ui.ExportedMsg{Path: path, Format: strings.TrimPrefix(filepath.Ext(path), ".")}
	}
}

func (s *DashboardScreen) setNotice(text string, isErr bool) {
	s.notice = text
	s.noticeErr = isErr
}

// applySnapshot projects a snapshot onto the header, chart and table.
func (s *DashboardScreen) applySnapshot(snap dashboard.Snapshot) {
	s.snap = snap
	s.header.SetSnapshot(snap)
	s.chart.SetSeries(snap.Series)

	visible := snap.Visible(VisibleRows)
	rows := make([][]string, len(visible))
	for i, p := range visible {
		rows[i] = []string{
			p.Symbol,
			s.formatter.Amount(p.TradePrice),
			s.formatter.Amount(p.MarketPrice),
			s.formatter.Quantity(p.Quantity),
			s.formatter.Amount(p.ProfitOrLoss),
		}
	}
	s.table.SetRows(rows)

	for i, p := range visible {
		dir, flashing := snap.FlashFor(p.ID)
		classes := style.PnLClasses(p.ProfitOrLoss, dir, flashing)
		s.table.SetCellStyle(i, pnlColumn, style.PnLStyle(s.table.RowStyle(), classes))
	}
}

// PnLClassesAt returns the classes of a visible row's PnL cell.
func (s *DashboardScreen) PnLClassesAt(row int) []style.Class {
	visible := s.snap.Visible(VisibleRows)
	if row < 0 || row >= len(visible) {
		return nil
	}
	p := visible[row]
	dir, flashing := s.snap.FlashFor(p.ID)
	return style.PnLClasses(p.ProfitOrLoss, dir, flashing)
}

// View renders the dashboard screen
func (s *DashboardScreen) View() string {
	if s.width == 0 || s.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	content.WriteString(style.HeaderStyle.Render("PnL Dashboard"))
	content.WriteString("\n")
	content.WriteString(style.SubHeaderStyle.Render("Equity desks performance overview"))
	content.WriteString("\n")
	content.WriteString(s.header.View())
	content.WriteString("\n")

	chartCard := style.CardStyle.Width(s.chartCardWidth()).Render(
		style.TitleStyle.Render("Historical Daily PnL") + "\n" + s.chart.View())
	tableCardStyle := style.ActiveCardStyle
	if s.snap.Paused {
		tableCardStyle = style.CardStyle
	}
	tableCard := tableCardStyle.Render(
		style.TitleStyle.Render("Realtime PnL") + "\n" + s.table.View())
	content.WriteString(style.AdaptiveJoinHorizontal(s.width, chartCard, tableCard))
	content.WriteString("\n")

	if s.notice != "" {
		noticeStyle := style.SuccessStyle
		if s.noticeErr {
			noticeStyle = style.ErrorStyle
		}
		content.WriteString(noticeStyle.Render(s.notice))
		content.WriteString("\n")
	}

	if s.logs.IsVisible() {
		content.WriteString(s.logs.View())
		content.WriteString("\n")
	}

	if s.showHelp {
		for _, group := range s.keyMap.FullHelp() {
			content.WriteString(s.helpBar.ViewContextual(group))
			content.WriteString("\n")
		}
	} else {
		content.WriteString(s.helpBar.View())
	}

	return style.ContainerStyle.Render(content.String())
}

// SetSize sets the screen dimensions
func (s *DashboardScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.resize()
}

func (s *DashboardScreen) resize() {
	if s.width == 0 {
		return
	}
	s.header.SetWidth(s.width - 2)
	s.helpBar.SetWidth(s.width - 2)
	s.chart.SetSize(s.chartCardWidth()-style.CardStyle.GetHorizontalFrameSize(), chartHeight)
	s.logs.SetSize(s.width-2, logPaneHeight)
}

// chartCardWidth gives the chart what the table leaves on wide terminals.
func (s *DashboardScreen) chartCardWidth() int {
	if s.width >= 120 {
		return max(s.width-tableCardWidth-2, 40)
	}
	return max(s.width-4, 40)
}

// Snapshot returns the snapshot currently on screen.
func (s *DashboardScreen) Snapshot() dashboard.Snapshot {
	return s.snap
}
