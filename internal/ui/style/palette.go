package style

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Primary colors
	Cyan    = lipgloss.Color("#00E5FF") // Primary highlight
	Magenta = lipgloss.Color("#FF1B6B") // Accent
	Yellow  = lipgloss.Color("#FFB500") // Warnings
	Green   = lipgloss.Color("#2AFFAA") // Positive PnL / success
	Red     = lipgloss.Color("#FF5555") // Negative PnL / errors
	Blue    = lipgloss.Color("#3B82F6") // Info

	// Base colors
	Base03 = lipgloss.Color("#1B1D23") // Background
	Base02 = lipgloss.Color("#262831") // Darker background
	Base01 = lipgloss.Color("#6C7280") // Muted text
	Base2  = lipgloss.Color("#ECEFF4") // Primary text
	Base1  = lipgloss.Color("#B4BCC8") // Secondary text

	// Desk series shades, one per desk in order
	DeskGreen1 = lipgloss.Color("#10a14b")
	DeskGreen2 = lipgloss.Color("#0b8f3a")
	DeskGreen3 = lipgloss.Color("#2e7d32")

	// Flash backgrounds
	FlashPosBg = lipgloss.Color("#0F3D2A")
	FlashNegBg = lipgloss.Color("#4A1518")
)

// Palette provides a centralized color management
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Info      lipgloss.Color

	Background    lipgloss.Color
	BackgroundAlt lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextSecondary lipgloss.Color

	Desks      []lipgloss.Color
	FlashPosBg lipgloss.Color
	FlashNegBg lipgloss.Color
}

// DefaultPalette returns the default color palette
func DefaultPalette() Palette {
	return Palette{
		Primary:   Cyan,
		Secondary: Magenta,
		Success:   Green,
		Error:     Red,
		Warning:   Yellow,
		Info:      Blue,

		Background:    Base03,
		BackgroundAlt: Base02,
		Text:          Base2,
		TextMuted:     Base01,
		TextSecondary: Base1,

		Desks:      []lipgloss.Color{DeskGreen1, DeskGreen2, DeskGreen3},
		FlashPosBg: FlashPosBg,
		FlashNegBg: FlashNegBg,
	}
}

// DeskColor cycles through the desk shades.
func (p Palette) DeskColor(i int) lipgloss.Color {
	if len(p.Desks) == 0 {
		return p.Success
	}
	return p.Desks[i%len(p.Desks)]
}
