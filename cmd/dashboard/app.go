package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/pnl-dashboard/internal/logger"
	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/router"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/screen"
)

// AppModel represents the main TUI application model
type AppModel struct {
	router *router.Router
	bus    *ui.Bus
	buffer *logger.LogBuffer
	width  int
	height int
}

// NewAppModel creates the application with the dashboard as its root screen.
// buffer and export may be nil.
func NewAppModel(engine screen.Controller, f *money.Formatter, bus *ui.Bus, buffer *logger.LogBuffer, export screen.ExportFunc) *AppModel {
	return &AppModel{
		router: router.New(screen.NewDashboardScreen(engine, f, buffer, export)),
		bus:    bus,
		buffer: buffer,
	}
}

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Init(), m.bus.Listen())
}

// Update handles application-level updates
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.BusMsg:
		// one Listen per delivery keeps exactly one reader on the bus
		var cmd tea.Cmd
		if snap, ok := msg.Msg.(ui.SnapshotMsg); ok {
			cmd = m.router.Broadcast(snap)
		} else {
			cmd = m.router.Update(msg.Msg)
		}
		return m, tea.Batch(cmd, m.bus.Listen())

	case ui.RouterMsg:
		return m, m.handleNavigation(msg.To)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, m.router.Update(msg)
}

// handleNavigation handles navigation to different screens
func (m *AppModel) handleNavigation(route ui.Route) tea.Cmd {
	switch route {
	case ui.RouteLogs:
		if _, ok := m.router.Current().(*screen.LogsScreen); ok {
			return nil
		}
		return m.router.Push(screen.NewLogsScreen(m.buffer))

	case ui.RouteDashboard:
		if m.router.CanGoBack() {
			return m.router.Pop()
		}
	}
	return nil
}

// View renders the application
func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return m.router.View()
}
