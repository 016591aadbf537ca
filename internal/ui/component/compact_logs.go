package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/pnl-dashboard/internal/logger"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/style"
)

// LogFilter defines what log levels to show
type LogFilter struct {
	ShowError   bool
	ShowWarning bool
	ShowInfo    bool
	ShowDebug   bool
}

// DefaultLogFilter hides debug entries.
func DefaultLogFilter() LogFilter {
	return LogFilter{ShowError: true, ShowWarning: true, ShowInfo: true}
}

// Allows reports whether entries of the given zap level pass the filter.
func (f LogFilter) Allows(level string) bool {
	switch strings.ToLower(level) {
	case "error", "dpanic", "panic", "fatal":
		return f.ShowError
	case "warning", "warn":
		return f.ShowWarning
	case "debug":
		return f.ShowDebug
	default:
		return f.ShowInfo
	}
}

// Toggle flips one level by name.
func (f *LogFilter) Toggle(level string) {
	switch level {
	case "error":
		f.ShowError = !f.ShowError
	case "warning":
		f.ShowWarning = !f.ShowWarning
	case "info":
		f.ShowInfo = !f.ShowInfo
	case "debug":
		f.ShowDebug = !f.ShowDebug
	}
}

// CompactLogViewer is the toggleable pane under the dashboard cards
type CompactLogViewer struct {
	buffer   *logger.LogBuffer
	viewport viewport.Model
	filter   LogFilter
	styles   LogStyles
	height   int
	visible  bool
}

// LogStyles are shared by the compact pane and the full logs screen.
type LogStyles struct {
	Container lipgloss.Style
	Title     lipgloss.Style
	Timestamp lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Debug     lipgloss.Style
}

// DefaultLogStyles builds the log styles from the palette.
func DefaultLogStyles() LogStyles {
	palette := style.DefaultPalette()
	return LogStyles{
		Container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Info).
			Padding(0, 1),
		Title:     style.InfoStyle.Bold(true),
		Timestamp: style.MutedStyle,
		Error:     style.ErrorStyle,
		Warning:   style.WarningStyle,
		Info:      style.InfoStyle,
		Debug:     style.MutedStyle,
	}
}

// FormatEntry renders "15:04:05 message" colored by level.
func (s LogStyles) FormatEntry(entry logger.LogEntry) string {
	var msg string
	switch strings.ToLower(entry.Level) {
	case "error", "dpanic", "panic", "fatal":
		msg = s.Error.Render(entry.Message)
	case "warning", "warn":
		msg = s.Warning.Render(entry.Message)
	case "debug":
		msg = s.Debug.Render(entry.Message)
	default:
		msg = s.Info.Render(entry.Message)
	}
	return fmt.Sprintf("%s %s", s.Timestamp.Render(entry.Timestamp.Format("15:04:05")), msg)
}

// NewCompactLogViewer creates a new compact log viewer
func NewCompactLogViewer(buffer *logger.LogBuffer) *CompactLogViewer {
	return &CompactLogViewer{
		buffer:   buffer,
		visible:  true,
		filter:   DefaultLogFilter(),
		styles:   DefaultLogStyles(),
		viewport: viewport.New(50, 4),
	}
}

// SetSize sets the outer dimensions of the pane
func (clv *CompactLogViewer) SetSize(width, height int) {
	clv.height = height
	clv.styles.Container = clv.styles.Container.Width(max(width-2, 10))
	clv.viewport.Width = max(width-6, 10)
	clv.viewport.Height = max(height-3, 2)
}

// SetVisible toggles the visibility of the log viewer
func (clv *CompactLogViewer) SetVisible(visible bool) {
	clv.visible = visible
}

// IsVisible returns whether the log viewer is visible
func (clv *CompactLogViewer) IsVisible() bool {
	return clv.visible
}

// Filter returns the active level filter.
func (clv *CompactLogViewer) Filter() LogFilter {
	return clv.filter
}

// ToggleLogLevel toggles a specific log level
func (clv *CompactLogViewer) ToggleLogLevel(level string) {
	clv.filter.Toggle(level)
	clv.refresh()
}

// Update forwards scroll messages to the viewport
func (clv *CompactLogViewer) Update(msg tea.Msg) tea.Cmd {
	if !clv.visible {
		return nil
	}
	var cmd tea.Cmd
	clv.viewport, cmd = clv.viewport.Update(msg)
	return cmd
}

// View renders the compact log viewer
func (clv *CompactLogViewer) View() string {
	if !clv.visible {
		return ""
	}
	clv.refresh()

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		clv.styles.Title.Render("Recent Logs [l] toggle"),
		clv.viewport.View(),
	)
	return clv.styles.Container.Render(content)
}

// Lines returns the formatted entries that pass the filter, oldest first.
func (clv *CompactLogViewer) Lines(limit int) []string {
	if clv.buffer == nil {
		return nil
	}
	var lines []string
	for _, entry := range clv.buffer.GetRecentLogs(limit) {
		if clv.filter.Allows(entry.Level) {
			lines = append(lines, clv.styles.FormatEntry(entry))
		}
	}
	return lines
}

func (clv *CompactLogViewer) refresh() {
	if clv.buffer == nil {
		clv.viewport.SetContent("No log buffer available")
		return
	}
	lines := clv.Lines(50)
	if len(lines) == 0 {
		clv.viewport.SetContent("No logs match current filter")
		return
	}
	clv.viewport.SetContent(strings.Join(lines, "\n"))
	clv.viewport.GotoBottom()
}

// GetHeight returns the component height for layout calculations
func (clv *CompactLogViewer) GetHeight() int {
	if !clv.visible {
		return 0
	}
	return clv.height
}
