package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysinsight/internal/api"
	"github.com/rileyhilliard/sysinsight/internal/dashboard"
)

// Card layout constants
const (
	cardGraphHeight  = 2 // braille graph rows
	cardMinWidth     = 30
	cardDefaultWidth = 56
)

// metricTitle returns the card title of a metric.
func metricTitle(m api.Metric) string {
	switch m {
	case api.MetricCPU:
		return "CPU"
	case api.MetricMemory:
		return "Memory"
	case api.MetricDisk:
		return "Disk"
	default:
		return strings.ToUpper(string(m))
	}
}

// statsLine formats the supporting figures of a metric update.
func statsLine(u dashboard.MetricUpdate) string {
	s := u.Stats
	switch u.Metric {
	case api.MetricCPU:
		if s.LogicalCores == 0 {
			return ""
		}
		return fmt.Sprintf("%d cores / %d threads", s.PhysicalCores, s.LogicalCores)
	case api.MetricMemory:
		return fmt.Sprintf("%.1f / %.1f GB used", s.UsedGB, s.TotalGB)
	case api.MetricDisk:
		line := fmt.Sprintf("%s  %.1f / %.1f GB used", s.Mountpoint, s.UsedGB, s.TotalGB)
		if n := len(s.Partitions); n > 1 {
			line += fmt.Sprintf("  (%d partitions)", n)
		}
		return line
	default:
		return ""
	}
}

// partitionLines lists usage for every partition of a multi-partition disk
// update, in the order the API reported them.
func partitionLines(u dashboard.MetricUpdate) []string {
	if u.Metric != api.MetricDisk || len(u.Stats.Partitions) < 2 {
		return nil
	}
	lines := make([]string, 0, len(u.Stats.Partitions))
	for _, p := range u.Stats.Partitions {
		lines = append(lines, fmt.Sprintf("  %s  %.1f / %.1f GB (%.1f%%)", p.Mountpoint, p.UsedGB, p.TotalGB, p.Percent))
	}
	return lines
}

// renderCard renders one metric card at the given outer width.
func (m Model) renderCard(metric api.Metric, width int) string {
	c := m.card(metric)
	inner := width - 4

	value := "--"
	valueColor := ColorTextMuted
	if c.hasValue {
		value = fmt.Sprintf("%.1f%%", c.update.Value)
		valueColor = SeverityColor(c.update.Severity)
	}

	lines := []string{SectionHeader(metricTitle(metric), value, valueColor, width)}

	if !c.hasValue {
		lines = append(lines, SectionContentLine(MutedStyle.Render("Waiting for data..."), width))
	} else {
		severity := SeverityStyle(c.update.Severity).Render(string(c.update.Severity))
		barWidth := inner - lipgloss.Width(severity) - 1
		if barWidth < 1 {
			barWidth = 1
		}
		lines = append(lines, SectionContentLine(ProgressBar(barWidth, c.update.Value, c.update.Severity)+" "+severity, width))

		if stats := statsLine(c.update); stats != "" {
			lines = append(lines, SectionContentLine(LabelStyle.Render(truncate(stats, inner)), width))
		}
		if m.LayoutMode() != LayoutCompact {
			for _, p := range partitionLines(c.update) {
				lines = append(lines, SectionContentLine(MutedStyle.Render(truncate(p, inner)), width))
			}
		}
	}

	if graph := m.renderGraph(metric, c.values, inner); graph != "" {
		lines = append(lines, SectionContentLine(graph, width))
	}

	if n, ok := m.notices[metric]; ok {
		lines = append(lines, SectionContentLine(NoticeStyle.Render(truncate("⚠ "+n.Message, inner)), width))
	}

	if c.hasValue {
		lines = append(lines, SectionContentLine(MutedStyle.Render(c.update.TimestampLabel), width))
	}

	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderGraph draws the series window sized for the current layout.
func (m Model) renderGraph(metric api.Metric, values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	threshold := m.thresholds.For(metric)
	if m.LayoutMode() == LayoutCompact {
		last := values[len(values)-1]
		return RenderCleanSparkline(values, width, ThresholdColor(last, threshold))
	}
	return RenderBrailleSparkline(values, width, cardGraphHeight, func(v float64) lipgloss.Color {
		return ThresholdColor(v, threshold)
	})
}

// truncate shortens s to width display cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
