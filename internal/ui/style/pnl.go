package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/pnl-dashboard/internal/simulator"
)

// Class names a visual state of a PnL cell.
type Class string

const (
	ClassPos      Class = "pos"
	ClassNeg      Class = "neg"
	ClassFlashPos Class = "flash-pos"
	ClassFlashNeg Class = "flash-neg"
)

// PnLClasses returns the sign class, followed by the flash class when a
// highlight is active.
func PnLClasses(pnl float64, flash simulator.Direction, flashing bool) []Class {
	classes := []Class{ClassPos}
	if simulator.DirectionOf(pnl) == simulator.Neg {
		classes[0] = ClassNeg
	}
	if flashing {
		if flash == simulator.Pos {
			classes = append(classes, ClassFlashPos)
		} else {
			classes = append(classes, ClassFlashNeg)
		}
	}
	return classes
}

// PnLStyle maps classes onto lipgloss styles.
func PnLStyle(base lipgloss.Style, classes []Class) lipgloss.Style {
	s := base
	for _, c := range classes {
		switch c {
		case ClassPos:
			s = s.Foreground(ProfitStyle.GetForeground()).Bold(ProfitStyle.GetBold())
		case ClassNeg:
			s = s.Foreground(LossStyle.GetForeground()).Bold(LossStyle.GetBold())
		case ClassFlashPos:
			s = s.Background(palette.FlashPosBg).Bold(true)
		case ClassFlashNeg:
			s = s.Background(palette.FlashNegBg).Bold(true)
		}
	}
	return s
}
