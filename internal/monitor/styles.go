package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysinsight/internal/dashboard"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Severity colors
	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97") // Neon pink

	ColorGraph = lipgloss.Color("#00FFFF") // Neon cyan
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	// Connection indicator styles
	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(ColorHealthy)

	StatusDisconnectedStyle = lipgloss.NewStyle().
				Foreground(ColorCritical)

	StatusPausedStyle = lipgloss.NewStyle().
				Foreground(ColorWarning)

	BannerStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorCritical).
			Bold(true).
			Padding(0, 1)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)
)

// Connection indicator glyphs
const (
	StatusConnected    = "◉"
	StatusDisconnected = "◌"
	StatusPaused       = "◔"
)

// SeverityColor returns the color for a severity class.
func SeverityColor(s dashboard.Severity) lipgloss.Color {
	switch s {
	case dashboard.SeverityCritical:
		return ColorCritical
	case dashboard.SeverityWarning:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// SeverityStyle returns a foreground style for a severity class.
func SeverityStyle(s dashboard.Severity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(SeverityColor(s))
}

// ThresholdColor classifies percent against t and returns its color.
func ThresholdColor(percent float64, t dashboard.Threshold) lipgloss.Color {
	return SeverityColor(dashboard.Classify(percent, t))
}

// ProgressBar renders a bracketless bar colored by severity.
func ProgressBar(width int, percent float64, s dashboard.Severity) string {
	if width < 1 {
		width = 1
	}

	percent = clampPercent(percent)
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return SeverityStyle(s).Render(bar)
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// SectionHeader renders a card's top border with the title on the left and
// value on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, valueColor lipgloss.Color, width int) string {
	if width < 10 {
		width = 10
	}

	// "╭─ " + title + " " on the left, " " + value + " ╮" on the right
	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}
	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(valueColor).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a card.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	return borderStyle.Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders a content line with side borders, padded to width.
// Multi-line content is bordered line by line.
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}
	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	innerWidth := width - 4

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		padding := innerWidth - lipgloss.Width(line)
		if padding < 0 {
			padding = 0
		}
		lines[i] = borderStyle.Render("│") + " " + line + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
	}
	return strings.Join(lines, "\n")
}
