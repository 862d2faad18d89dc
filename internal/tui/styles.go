// Package tui renders command results for terminals and for scripts.
//
// Colors use lipgloss AdaptiveColor for light and dark terminals. Call
// CheckNoColor at the start of a command to honor NO_COLOR and TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

//nolint:gochecknoglobals // package-level styling API
var (
	// ColorPrimary is used for headers and keys.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess marks held locks and intact files.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning marks stale locks and abandoned acquisitions.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError marks failures and corrupted files.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}
)

// OutputStyles holds the styles used by TTYOutput.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Header  lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles returns the default styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Error:   lipgloss.NewStyle().Foreground(ColorError),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle(),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Key:     lipgloss.NewStyle().Foreground(ColorPrimary).Width(14),
		Value:   lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// HasColorDisabled reports whether NO_COLOR is set or TERM is dumb.
func HasColorDisabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return os.Getenv("TERM") == "dumb"
}

// CheckNoColor switches lipgloss to plain text when colors are disabled.
func CheckNoColor() {
	if HasColorDisabled() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
