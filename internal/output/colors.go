package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for the different elements of the
// console summary.
type ColorScheme struct {
	Border  *color.Color
	Section *color.Color
	OK      *color.Color
	KO      *color.Color
	Bar     *color.Color
	Muted   *color.Color
}

// DefaultColorScheme returns the default color scheme.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Border:  color.New(color.FgCyan),
		Section: color.New(color.FgCyan, color.Bold),
		OK:      color.New(color.FgGreen),
		KO:      color.New(color.FgRed),
		Bar:     color.New(color.FgGreen),
		Muted:   color.New(color.Faint),
	}
}

// NoColorScheme returns a color scheme with all colors disabled, for
// non-terminal sinks.
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	scheme.Border.DisableColor()
	scheme.Section.DisableColor()
	scheme.OK.DisableColor()
	scheme.KO.DisableColor()
	scheme.Bar.DisableColor()
	scheme.Muted.DisableColor()

	return scheme
}
