package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status lines, as ANSI codes for broad terminal support.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
	ColorMuted   lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors are cycled by the CLI spinner.
var GradientColors = []lipgloss.Color{
	"#FF2E97", // pink
	"#BF40FF", // purple
	"#00FFFF", // cyan
	"#39FF14", // green
}

// SuccessStyle renders confirmations.
func SuccessStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorSuccess) }

// ErrorStyle renders failures.
func ErrorStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorError) }

// WarningStyle renders warnings.
func WarningStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorWarning) }

// InfoStyle renders neutral highlights such as addresses and paths.
func InfoStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorInfo) }

// MutedStyle renders secondary text.
func MutedStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorMuted) }

// DisableColors switches all lipgloss output to plain text (--no-color).
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// PrintSuccess prints a success line to stdout.
func PrintSuccess(format string, args ...any) {
	fmt.Printf("%s %s\n", SuccessStyle().Render(SymbolSuccess), fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning line to stderr.
func PrintWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningStyle().Render(SymbolWarning), fmt.Sprintf(format, args...))
}
