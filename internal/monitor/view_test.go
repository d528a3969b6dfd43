package monitor

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysinsight/internal/api"
	"github.com/rileyhilliard/sysinsight/internal/dashboard"
	"github.com/rileyhilliard/sysinsight/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestView_Connecting(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()

	assert.Contains(t, view, "sysinsight")
	assert.Contains(t, view, "http://localhost:5000/api/metrics/all")
	assert.Contains(t, view, "every 5s")
	assert.Contains(t, view, "connecting...")
	assert.Equal(t, 3, strings.Count(view, "Waiting for data..."))
	assert.Contains(t, view, "q quit | r refresh | p pause | x dismiss | ? help")
}

func TestView_ConnectedCards(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m,
		cpuUpdate(42.5, dashboard.SeverityNormal),
		dashboard.MetricUpdate{
			Metric:         api.MetricMemory,
			Value:          80,
			Severity:       dashboard.SeverityWarning,
			Stats:          dashboard.Stats{UsedGB: 12.8, TotalGB: 16},
			TimestampLabel: "Updated: 12:00:05",
		},
		dashboard.MetricUpdate{
			Metric:   api.MetricDisk,
			Value:    91,
			Severity: dashboard.SeverityCritical,
			Stats: dashboard.Stats{
				UsedGB: 455, TotalGB: 500, Mountpoint: "/data",
				Partitions: []api.Partition{{Mountpoint: "/"}, {Mountpoint: "/data"}},
			},
			TimestampLabel: "Updated: 12:00:05",
		},
		dashboard.SeriesUpdate{Name: "cpu", Labels: []time.Time{t0}, Values: []float64{42.5}},
		dashboard.ConnectionUpdate{Connected: true},
	)

	view := m.View()
	assert.Contains(t, view, "connected")
	assert.NotContains(t, view, "Waiting for data...")
	assert.Contains(t, view, "╭─ CPU ")
	assert.Contains(t, view, " 42.5% ╮")
	assert.Contains(t, view, "4 cores / 8 threads")
	assert.Contains(t, view, "12.8 / 16.0 GB used")
	assert.Contains(t, view, "/data  455.0 / 500.0 GB used  (2 partitions)")
	assert.Contains(t, view, "normal")
	assert.Contains(t, view, "warning")
	assert.Contains(t, view, "critical")
	assert.Equal(t, 3, strings.Count(view, "Updated: 12:00:05"))
}

func TestView_Disconnected(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m,
		dashboard.ConnectionUpdate{Connected: false},
		dashboard.Notice{Kind: errors.KindNetwork, Message: "Failed to fetch metrics. Retrying..."},
	)

	view := m.View()
	assert.Contains(t, view, "disconnected")
	assert.Contains(t, view, "⚠ Failed to fetch metrics. Retrying...")
}

func TestView_PartialNoticeInCard(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, dashboard.Notice{
		Kind:    errors.KindPartialMetric,
		Metric:  api.MetricDisk,
		Message: "disk unavailable: permission denied",
	})
	assert.Contains(t, m.View(), "⚠ disk unavailable: permission denied")
}

func TestView_Banner(t *testing.T) {
	m, h := newTestModel(t)
	m = send(t, m, dashboard.AlertUpdate{Banner: dashboard.Banner{
		Visible:   true,
		Message:   "Critical: CPU, MEMORY usage is very high!",
		DismissAt: t0.Add(10 * time.Second),
	}})

	assert.Contains(t, m.View(), "⚠ Critical: CPU, MEMORY usage is very high!")
	assert.Contains(t, m.View(), "x to dismiss")

	h.now = t0.Add(11 * time.Second)
	assert.NotContains(t, m.View(), "Critical:")
}

func TestView_PausedStatus(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, key("p"))

	view := m.View()
	assert.Contains(t, view, "◔ paused")
	assert.Contains(t, view, "p resume")
}

func TestView_UnfocusedStatus(t *testing.T) {
	m, _ := newTestModel(t)
	m.focused = false
	assert.Contains(t, m.View(), "paused while unfocused")
}

func TestView_HelpOverlay(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, key("?"))

	view := m.View()
	assert.Contains(t, view, "Keyboard Shortcuts")
	for _, b := range helpBindings {
		assert.Contains(t, view, b.Desc)
	}
	assert.NotContains(t, view, "Waiting for data...")
}

func TestView_CardWidthsFitLayout(t *testing.T) {
	tests := []struct {
		name  string
		width int
	}{
		{"compact", 60},
		{"standard", 100},
		{"wide", 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m, _ = update(t, m, tea.WindowSizeMsg{Width: tt.width, Height: 40})
			m = send(t, m,
				cpuUpdate(42.5, dashboard.SeverityNormal),
				dashboard.SeriesUpdate{Name: "cpu", Values: []float64{10, 20, 42.5}},
			)

			card := m.renderCard(api.MetricCPU, m.cardWidth())
			for _, line := range strings.Split(card, "\n") {
				assert.Equal(t, m.cardWidth(), lipgloss.Width(line), line)
			}
			assert.LessOrEqual(t, lipgloss.Width(m.renderCards()), tt.width)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Empty(t, truncate("abc", 0))
}

func TestStatsLine(t *testing.T) {
	assert.Empty(t, statsLine(dashboard.MetricUpdate{Metric: api.MetricCPU}))
	assert.Equal(t, "/  1.0 / 2.0 GB used", statsLine(dashboard.MetricUpdate{
		Metric: api.MetricDisk,
		Stats:  dashboard.Stats{Mountpoint: "/", UsedGB: 1, TotalGB: 2, Partitions: []api.Partition{{}}},
	}))
}

func TestPartitionLines(t *testing.T) {
	parts := []api.Partition{
		{Mountpoint: "/", UsedGB: 40, TotalGB: 100, Percent: 40},
		{Mountpoint: "/data", UsedGB: 455, TotalGB: 500, Percent: 91},
	}

	tests := []struct {
		name   string
		update dashboard.MetricUpdate
		want   []string
	}{
		{
			name:   "every disk partition",
			update: dashboard.MetricUpdate{Metric: api.MetricDisk, Stats: dashboard.Stats{Partitions: parts}},
			want:   []string{"  /  40.0 / 100.0 GB (40.0%)", "  /data  455.0 / 500.0 GB (91.0%)"},
		},
		{
			name:   "single partition is already the summary",
			update: dashboard.MetricUpdate{Metric: api.MetricDisk, Stats: dashboard.Stats{Partitions: parts[:1]}},
		},
		{
			name:   "not a disk update",
			update: dashboard.MetricUpdate{Metric: api.MetricMemory, Stats: dashboard.Stats{Partitions: parts}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, partitionLines(tt.update))
		})
	}
}

func TestView_DiskCardListsPartitions(t *testing.T) {
	disk := dashboard.MetricUpdate{
		Metric:   api.MetricDisk,
		Value:    91,
		Severity: dashboard.SeverityCritical,
		Stats: dashboard.Stats{
			UsedGB: 455, TotalGB: 500, Mountpoint: "/data",
			Partitions: []api.Partition{
				{Mountpoint: "/", UsedGB: 40, TotalGB: 100, Percent: 40},
				{Mountpoint: "/data", UsedGB: 455, TotalGB: 500, Percent: 91},
				{Mountpoint: "/boot", UsedGB: 0.2, TotalGB: 1, Percent: 20},
			},
		},
		TimestampLabel: "Updated: 12:00:05",
	}

	tests := []struct {
		name   string
		width  int
		listed bool
	}{
		{"compact", 60, false},
		{"standard", 100, true},
		{"wide", 150, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m, _ = update(t, m, tea.WindowSizeMsg{Width: tt.width, Height: 40})
			m = send(t, m, disk)

			card := m.renderCard(api.MetricDisk, m.cardWidth())
			assert.Contains(t, card, "/data  455.0 / 500.0 GB used  (3 partitions)")
			for _, want := range []string{"/  40.0 / 100.0 GB", "/boot  0.2 / 1.0 GB"} {
				if tt.listed {
					assert.Contains(t, card, want)
				} else {
					assert.NotContains(t, card, want)
				}
			}
			for _, line := range strings.Split(card, "\n") {
				assert.Equal(t, m.cardWidth(), lipgloss.Width(line), line)
			}
		})
	}
}
