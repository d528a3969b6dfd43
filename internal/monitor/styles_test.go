package monitor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/sysinsight/internal/dashboard"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestSeverityColor(t *testing.T) {
	tests := []struct {
		severity dashboard.Severity
		want     lipgloss.Color
	}{
		{dashboard.SeverityNormal, ColorHealthy},
		{dashboard.SeverityWarning, ColorWarning},
		{dashboard.SeverityCritical, ColorCritical},
		{dashboard.Severity(""), ColorHealthy},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityColor(tt.severity))
		})
	}
}

func TestThresholdColor(t *testing.T) {
	th := dashboard.Threshold{Warning: 70, Critical: 85}
	assert.Equal(t, ColorHealthy, ThresholdColor(69.9, th))
	assert.Equal(t, ColorWarning, ThresholdColor(70, th))
	assert.Equal(t, ColorCritical, ThresholdColor(85, th))
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		percent float64
		want    string
	}{
		{"half", 10, 50, "▰▰▰▰▰▱▱▱▱▱"},
		{"empty", 4, 0, "▱▱▱▱"},
		{"full", 4, 100, "▰▰▰▰"},
		{"over 100 clamps", 4, 150, "▰▰▰▰"},
		{"negative clamps", 4, -5, "▱▱▱▱"},
		{"zero width becomes one", 0, 100, "▰"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressBar(tt.width, tt.percent, dashboard.SeverityNormal))
		})
	}
}

func TestSectionHeader(t *testing.T) {
	header := SectionHeader("CPU", "42.5%", ColorHealthy, 30)
	assert.Equal(t, 30, lipgloss.Width(header))
	assert.Contains(t, header, "╭─ CPU ")
	assert.Contains(t, header, " 42.5% ╮")
}

func TestSectionContentLine(t *testing.T) {
	t.Run("pads to width", func(t *testing.T) {
		line := SectionContentLine("abc", 20)
		assert.Equal(t, 20, lipgloss.Width(line))
		assert.Equal(t, "│ abc"+strings.Repeat(" ", 14)+"│", line)
	})

	t.Run("borders every line", func(t *testing.T) {
		out := SectionContentLine("a\nb", 10)
		want := "│ a" + strings.Repeat(" ", 6) + "│\n" + "│ b" + strings.Repeat(" ", 6) + "│"
		assert.Equal(t, want, out)
	})
}

func TestSectionFooter(t *testing.T) {
	assert.Equal(t, "╰────╯", SectionFooter(6))
	assert.Equal(t, "╰╯", SectionFooter(0))
}
