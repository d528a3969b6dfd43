package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysinsight/internal/api"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	if n, ok := m.notices[""]; ok {
		b.WriteString(NoticeStyle.Render("⚠ " + n.Message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderCards())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title, endpoint and connection indicator.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("sysinsight")

	parts := []string{}
	if m.ctrl != nil {
		parts = append(parts, m.ctrl.Endpoint())
	}
	if m.interval > 0 {
		parts = append(parts, "every "+m.interval.String())
	}

	stats := ""
	if len(parts) > 0 {
		stats = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Render(" | " + strings.Join(parts, " | "))
	}

	return HeaderStyle.Render(title+stats) + " " + m.renderStatus()
}

// renderStatus renders the connection indicator.
func (m Model) renderStatus() string {
	switch {
	case m.paused:
		return StatusPausedStyle.Render(StatusPaused + " paused")
	case !m.focused:
		return StatusPausedStyle.Render(StatusPaused + " paused while unfocused")
	case !m.connSeen:
		return m.spinner.View() + LabelStyle.Render(" connecting...")
	case m.connected:
		return StatusConnectedStyle.Render(StatusConnected + " connected")
	default:
		return StatusDisconnectedStyle.Render(StatusDisconnected + " disconnected")
	}
}

// renderBanner renders the critical alert banner while it is visible.
func (m Model) renderBanner() string {
	if !m.BannerVisible() {
		return ""
	}
	return BannerStyle.Render(fmt.Sprintf("⚠ %s", m.banner.Message)) +
		MutedStyle.Render("  x to dismiss")
}

// cardWidth returns the outer card width for the current layout.
func (m Model) cardWidth() int {
	if m.width == 0 {
		return cardDefaultWidth
	}
	w := m.width - 1
	if m.LayoutMode() == LayoutWide {
		w = m.width/len(api.Metrics) - 1
	}
	if w < cardMinWidth {
		w = cardMinWidth
	}
	return w
}

// renderCards lays out one card per metric.
func (m Model) renderCards() string {
	width := m.cardWidth()
	cards := make([]string, 0, len(api.Metrics))
	for _, metric := range api.Metrics {
		cards = append(cards, m.renderCard(metric, width))
	}

	if m.LayoutMode() == LayoutWide {
		spaced := make([]string, 0, 2*len(cards))
		for i, c := range cards {
			if i > 0 {
				spaced = append(spaced, " ")
			}
			spaced = append(spaced, c)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// renderFooter renders the keyboard hints.
func (m Model) renderFooter() string {
	pause := "p pause"
	if m.paused {
		pause = "p resume"
	}
	hints := []string{
		"q quit",
		"r refresh",
		pause,
		"x dismiss",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}
