package component

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/style"
)

// PnLGauge shows total PnL as a percentage of cost basis
type PnLGauge struct {
	value     float64
	width     int
	fullScale float64

	profitThreshold float64
	lossThreshold   float64
}

// NewPnLGauge creates a new PnL gauge component
func NewPnLGauge(width int) *PnLGauge {
	return &PnLGauge{
		width:           width,
		fullScale:       2.0,
		profitThreshold: 1.0,
		lossThreshold:   -1.0,
	}
}

// SetValue sets the PnL percentage value
func (p *PnLGauge) SetValue(value float64) *PnLGauge {
	p.value = value
	return p
}

// Value returns the current percentage.
func (p *PnLGauge) Value() float64 {
	return p.value
}

// SetWidth sets the gauge width
func (p *PnLGauge) SetWidth(width int) *PnLGauge {
	p.width = width
	return p
}

// SetFullScale sets the absolute percentage that fills the bar.
func (p *PnLGauge) SetFullScale(pct float64) *PnLGauge {
	if pct > 0 {
		p.fullScale = pct
	}
	return p
}

// SetThresholds sets the profit and loss thresholds for color coding
func (p *PnLGauge) SetThresholds(profitThreshold, lossThreshold float64) *PnLGauge {
	p.profitThreshold = profitThreshold
	p.lossThreshold = lossThreshold
	return p
}

// View renders the bar followed by the signed percentage.
func (p *PnLGauge) View() string {
	color := p.GetColor()
	bar := lipgloss.NewStyle().Foreground(color).Render(p.bar())
	text := lipgloss.NewStyle().Foreground(color).Bold(true).
		Render(p.percentText() + " " + p.GetArrow())
	return bar + " " + text
}

// ViewCompact renders only the percentage and arrow.
func (p *PnLGauge) ViewCompact() string {
	return lipgloss.NewStyle().Foreground(p.GetColor()).Bold(true).
		Render(p.percentText() + " " + p.GetArrow())
}

func (p *PnLGauge) percentText() string {
	prefix := ""
	switch {
	case p.value > 0:
		prefix = "+"
	case p.value < 0:
		prefix = "-"
	}
	return fmt.Sprintf("%s%.2f%%", prefix, math.Abs(p.value))
}

func (p *PnLGauge) bar() string {
	if p.width <= 0 {
		return ""
	}

	intensity := math.Min(math.Abs(p.value)/p.fullScale, 1.0)
	level := sparkChars[int(intensity*float64(len(sparkChars)-1))]
	filled := int(intensity * float64(p.width))
	if filled < 1 && p.value != 0 {
		filled = 1
	}

	var b strings.Builder
	for i := 0; i < p.width; i++ {
		if i < filled {
			b.WriteRune(level)
		} else {
			b.WriteRune(sparkChars[0])
		}
	}
	return b.String()
}

// GetStatus returns a text status based on the current value
func (p *PnLGauge) GetStatus() string {
	switch {
	case p.value >= p.profitThreshold:
		return "Strong Profit"
	case p.value > 0:
		return "Profit"
	case p.value <= p.lossThreshold:
		return "Strong Loss"
	case p.value < 0:
		return "Loss"
	default:
		return "Break Even"
	}
}

// GetColor returns the current color based on the value
func (p *PnLGauge) GetColor() lipgloss.Color {
	palette := style.DefaultPalette()
	switch {
	case p.value > 0:
		return palette.Success
	case p.value < 0:
		return palette.Error
	default:
		return palette.TextMuted
	}
}

// GetArrow returns the appropriate arrow character for the current trend
func (p *PnLGauge) GetArrow() string {
	switch {
	case p.value >= p.profitThreshold:
		return "↗"
	case p.value <= p.lossThreshold:
		return "↘"
	case p.value > 0:
		return "↑"
	case p.value < 0:
		return "↓"
	default:
		return "→"
	}
}
