package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/style"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline represents a mini graph of the most recent data points
type Sparkline struct {
	data     []float64
	width    int
	color    lipgloss.Color
	showText bool
}

// NewSparkline creates a new sparkline component
func NewSparkline(width int) *Sparkline {
	return &Sparkline{
		width: width,
		color: style.DefaultPalette().Primary,
	}
}

// SetData keeps the last width points of data.
func (s *Sparkline) SetData(data []float64) *Sparkline {
	s.data = append(s.data[:0], data...)
	s.trim()
	return s
}

// AddDataPoint adds a new data point to the sparkline
func (s *Sparkline) AddDataPoint(value float64) *Sparkline {
	s.data = append(s.data, value)
	s.trim()
	return s
}

// SetWidth sets the width of the sparkline
func (s *Sparkline) SetWidth(width int) *Sparkline {
	s.width = width
	s.trim()
	return s
}

func (s *Sparkline) trim() {
	if s.width >= 0 && len(s.data) > s.width {
		s.data = s.data[len(s.data)-s.width:]
	}
}

// SetColor sets the color for the sparkline
func (s *Sparkline) SetColor(color lipgloss.Color) *Sparkline {
	s.color = color
	return s
}

// ShowText appends a trend arrow for the last step.
func (s *Sparkline) ShowText(show bool) *Sparkline {
	s.showText = show
	return s
}

// View renders the sparkline
func (s *Sparkline) View() string {
	blocks := lipgloss.NewStyle().Foreground(s.color).Render(s.blocks())
	if !s.showText || len(s.data) < 2 {
		return blocks
	}

	palette := style.DefaultPalette()
	current, prev := s.data[len(s.data)-1], s.data[len(s.data)-2]
	trend, color := "→", palette.TextMuted
	switch {
	case current > prev:
		trend, color = "↗", palette.Success
	case current < prev:
		trend, color = "↘", palette.Error
	}
	return blocks + " " + lipgloss.NewStyle().Foreground(color).Render(trend)
}

// blocks maps each point onto the eight spark levels between min and max.
func (s *Sparkline) blocks() string {
	if len(s.data) == 0 {
		return strings.Repeat(string(sparkChars[0]), s.width)
	}

	lo, hi := s.data[0], s.data[0]
	for _, v := range s.data {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	for _, v := range s.data {
		idx := 3
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkChars)-1))
			idx = max(0, min(idx, len(sparkChars)-1))
		}
		b.WriteRune(sparkChars[idx])
	}
	for i := len(s.data); i < s.width; i++ {
		b.WriteRune(' ')
	}
	return b.String()
}

// GetTrend compares the first and last visible points.
func (s *Sparkline) GetTrend() string {
	if len(s.data) < 2 {
		return "→"
	}
	first, last := s.data[0], s.data[len(s.data)-1]
	switch {
	case last > first:
		return "↗"
	case last < first:
		return "↘"
	default:
		return "→"
	}
}
