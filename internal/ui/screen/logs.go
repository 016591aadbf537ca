package screen

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/pnl-dashboard/internal/logger"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/component"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/router"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/style"
)

// RefreshLogsMsg is sent to trigger a refresh
type RefreshLogsMsg struct {
	Timestamp time.Time
}

// LogsScreen shows the in-memory log ring with level filters
type LogsScreen struct {
	width  int
	height int
	keyMap ui.KeyMap

	buffer   *logger.LogBuffer
	viewport viewport.Model
	helpBar  *component.HelpBar
	styles   component.LogStyles

	filter          component.LogFilter
	entries         []logger.LogEntry
	filtered        int
	tailMode        bool
	refreshInterval time.Duration
	lastUpdate      time.Time

	titleStyle  lipgloss.Style
	statusStyle lipgloss.Style
	fieldStyle  lipgloss.Style
}

// NewLogsScreen creates a new logs screen
func NewLogsScreen(buffer *logger.LogBuffer) *LogsScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	s := &LogsScreen{
		keyMap:          keyMap,
		buffer:          buffer,
		viewport:        viewport.New(80, 20),
		helpBar:         component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteLogs)),
		styles:          component.DefaultLogStyles(),
		filter:          component.LogFilter{ShowError: true, ShowWarning: true, ShowInfo: true, ShowDebug: true},
		tailMode:        true,
		refreshInterval: time.Second,

		titleStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(0, 0, 1, 0),

		statusStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true),

		fieldStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
	s.loadLogs()

	return s
}

// Init initializes the logs screen
func (s *LogsScreen) Init() tea.Cmd {
	s.loadLogs()
	return s.startAutoRefresh()
}

// Update handles screen updates
func (s *LogsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Quit):
			return s, tea.Quit

		case key.Matches(msg, s.keyMap.FilterInfo):
			s.toggle("info")

		case key.Matches(msg, s.keyMap.FilterWarn):
			s.toggle("warning")

		case key.Matches(msg, s.keyMap.FilterError):
			s.toggle("error")

		case key.Matches(msg, s.keyMap.FilterDebug):
			s.toggle("debug")

		case key.Matches(msg, s.keyMap.Follow):
			s.tailMode = !s.tailMode
			if s.tailMode {
				s.viewport.GotoBottom()
			}

		case key.Matches(msg, s.keyMap.Up):
			s.tailMode = false
			s.viewport.LineUp(1)

		case key.Matches(msg, s.keyMap.Down):
			s.viewport.LineDown(1)

		default:
			var cmd tea.Cmd
			s.viewport, cmd = s.viewport.Update(msg)
			return s, cmd
		}

	case RefreshLogsMsg:
		s.lastUpdate = msg.Timestamp
		s.loadLogs()
		return s, s.startAutoRefresh()
	}

	return s, nil
}

func (s *LogsScreen) toggle(level string) {
	s.filter.Toggle(level)
	s.render()
}

// startAutoRefresh re-reads the buffer on an interval while the screen is up.
func (s *LogsScreen) startAutoRefresh() tea.Cmd {
	return tea.Tick(s.refreshInterval, func(t time.Time) tea.Msg {
		return RefreshLogsMsg{Timestamp: t}
	})
}

func (s *LogsScreen) loadLogs() {
	if s.buffer == nil {
		s.entries = nil
	} else {
		s.entries = s.buffer.GetRecentLogs(0)
	}
	s.render()
}

func (s *LogsScreen) render() {
	lines := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		if s.filter.Allows(entry.Level) {
			lines = append(lines, s.formatEntry(entry))
		}
	}
	s.filtered = len(lines)

	if len(lines) == 0 {
		s.viewport.SetContent("No log entries match the current filters.")
		return
	}
	s.viewport.SetContent(strings.Join(lines, "\n"))
	if s.tailMode {
		s.viewport.GotoBottom()
	}
}

func (s *LogsScreen) formatEntry(entry logger.LogEntry) string {
	level := fmt.Sprintf("%-5s", strings.ToUpper(entry.Level))
	line := s.styles.FormatEntry(entry)
	if i := strings.IndexByte(line, ' '); i >= 0 {
		line = line[:i] + " " + level + line[i:]
	}
	if len(entry.Fields) == 0 {
		return line
	}

	parts := make([]string, 0, len(entry.Fields))
	for _, k := range slices.Sorted(maps.Keys(entry.Fields)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
	}
	return line + " " + s.fieldStyle.Render(strings.Join(parts, " "))
}

// View renders the logs screen
func (s *LogsScreen) View() string {
	if s.width == 0 || s.height == 0 {
		return "Loading..."
	}

	title := "Application Logs"
	if s.tailMode {
		title += " (follow)"
	}

	return style.ContainerStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		s.titleStyle.Render(title),
		s.renderStatusBar(),
		style.CardStyle.Render(s.viewport.View()),
		s.helpBar.View(),
	))
}

// SetSize sets the screen dimensions
func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width - 2)
	s.viewport.Width = max(width-6, 20)
	s.viewport.Height = max(height-9, 5)
	s.render()
}

func (s *LogsScreen) renderStatusBar() string {
	parts := []string{
		fmt.Sprintf("Total: %d", len(s.entries)),
		fmt.Sprintf("Shown: %d", s.filtered),
		"Levels: " + s.levelSummary(),
	}
	if s.buffer != nil {
		_, spilled := s.buffer.GetStats()
		parts = append(parts, fmt.Sprintf("Spilled: %d", spilled))
	}
	if !s.lastUpdate.IsZero() {
		parts = append(parts, "Updated: "+s.lastUpdate.Format("15:04:05"))
	}
	return s.statusStyle.Render(strings.Join(parts, " • "))
}

func (s *LogsScreen) levelSummary() string {
	var on []string
	for _, l := range []struct {
		name string
		show bool
	}{
		{"error", s.filter.ShowError},
		{"warn", s.filter.ShowWarning},
		{"info", s.filter.ShowInfo},
		{"debug", s.filter.ShowDebug},
	} {
		if l.show {
			on = append(on, l.name)
		}
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, ",")
}

// GetLogCount returns the number of entries read from the buffer
func (s *LogsScreen) GetLogCount() int {
	return len(s.entries)
}

// GetFilteredLogCount returns the number of entries passing the filter
func (s *LogsScreen) GetFilteredLogCount() int {
	return s.filtered
}
