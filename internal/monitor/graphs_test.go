package monitor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResampleData(t *testing.T) {
	tests := []struct {
		name   string
		data   []float64
		target int
		want   []float64
	}{
		{"empty", nil, 4, nil},
		{"zero target", []float64{1}, 0, nil},
		{"same size", []float64{1, 2, 3}, 3, []float64{1, 2, 3}},
		{"single value fills", []float64{7}, 3, []float64{7, 7, 7}},
		{"downsample keeps peaks", []float64{1, 9, 2, 3, 8, 4}, 3, []float64{9, 3, 8}},
		{"upsample interpolates", []float64{0, 10}, 3, []float64{0, 5, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resampleData(tt.data, tt.target))
		})
	}
}

func TestRenderBrailleSparkline(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, RenderBrailleSparkline(nil, 10, 2, nil))
		assert.Empty(t, RenderBrailleSparkline([]float64{1}, 0, 2, nil))
		assert.Empty(t, RenderBrailleSparkline([]float64{1}, 10, 0, nil))
	})

	t.Run("dimensions", func(t *testing.T) {
		out := RenderBrailleSparkline([]float64{10, 50, 90, 30}, 12, 2, nil)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 2)
		for _, line := range lines {
			assert.Equal(t, 12, lipgloss.Width(line))
		}
	})

	t.Run("full column", func(t *testing.T) {
		out := RenderBrailleSparkline([]float64{100, 100}, 1, 2, nil)
		assert.Equal(t, "⣿\n⣿", out)
	})

	t.Run("short data is right aligned", func(t *testing.T) {
		out := RenderBrailleSparkline([]float64{100, 100}, 3, 1, nil)
		assert.Equal(t, "\u2800\u2800⣿", out)
	})

	t.Run("zero values draw nothing", func(t *testing.T) {
		out := RenderBrailleSparkline([]float64{0, 0}, 1, 1, nil)
		assert.Equal(t, "\u2800", out)
	})

	t.Run("color func sees column max", func(t *testing.T) {
		var seen []float64
		RenderBrailleSparkline([]float64{20, 80}, 1, 1, func(v float64) lipgloss.Color {
			seen = append(seen, v)
			return ColorGraph
		})
		assert.Equal(t, []float64{80}, seen)
	})
}

func TestRenderCleanSparkline(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, RenderCleanSparkline(nil, 5, ColorGraph))
	})

	t.Run("levels", func(t *testing.T) {
		assert.Equal(t, "▁▄█", RenderCleanSparkline([]float64{0, 50, 100}, 3, ColorGraph))
	})

	t.Run("right aligned", func(t *testing.T) {
		assert.Equal(t, "  ▁█", RenderCleanSparkline([]float64{0, 100}, 4, ColorGraph))
	})

	t.Run("downsampled to width", func(t *testing.T) {
		out := RenderCleanSparkline([]float64{0, 100, 0, 0}, 2, ColorGraph)
		assert.Equal(t, "█▁", out)
	})
}
