package monitor

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sysinsight/internal/dashboard"
)

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyPause      = "p"
	KeyDismiss    = "x"
	KeyDismissAlt = "esc"
	KeyToggleHelp = "?"
)

// HandleKeyMsg processes keyboard input. It returns true if the key was
// handled.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	// Esc closes help before it dismisses anything
	if m.showHelp && key == KeyDismissAlt {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		if m.paused || m.ctrl == nil {
			return true, nil
		}
		return true, controllerCmd(m.ctrl.Refresh)

	case KeyPause:
		m.paused = !m.paused
		if m.paused {
			m.setVisibility(dashboard.Hidden)
		} else if m.focused {
			m.setVisibility(dashboard.Visible)
		}
		return true, nil

	case KeyDismiss, KeyDismissAlt:
		if !m.BannerVisible() {
			return true, nil
		}
		m.banner.Dismiss()
		if m.ctrl == nil {
			return true, nil
		}
		return true, controllerCmd(m.ctrl.DismissAlert)
	}

	return false, nil
}
