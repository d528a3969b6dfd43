package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sysinsight/internal/api"
	"github.com/rileyhilliard/sysinsight/internal/dashboard"
	"github.com/rileyhilliard/sysinsight/internal/ui"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutCompact stacks cards in one column with single-row sparklines.
	LayoutCompact LayoutMode = iota
	// LayoutStandard stacks cards in one column with braille graphs.
	LayoutStandard
	// LayoutWide places all cards side by side.
	LayoutWide
)

// Width breakpoints for layout modes
const (
	BreakpointStandard = 80
	BreakpointWide     = 132
)

// clockInterval is how often the view re-evaluates time-dependent state such
// as the alert banner deadline.
const clockInterval = time.Second

// Controller is the part of the dashboard controller the UI drives.
type Controller interface {
	Refresh()
	DismissAlert()
	Endpoint() string
}

// Options configures the model. Zero values take the defaults.
type Options struct {
	Thresholds dashboard.Thresholds
	Interval   time.Duration
	Clock      func() time.Time
}

// metricCard is the latest readout and series window of one metric.
type metricCard struct {
	update   dashboard.MetricUpdate
	hasValue bool
	values   []float64
	labels   []time.Time
}

// Model is the Bubble Tea model for the dashboard. It renders controller
// events and turns keys and focus changes into controller calls.
type Model struct {
	ctrl       Controller
	bridge     *Bridge
	thresholds dashboard.Thresholds
	interval   time.Duration
	now        func() time.Time

	cards     map[api.Metric]*metricCard
	notices   map[api.Metric]dashboard.Notice // keyed by metric; "" for connection failures
	banner    dashboard.Banner
	connected bool
	connSeen  bool // at least one cycle has completed
	paused    bool // paused by the user
	focused   bool // terminal focus, reported by tea.WithReportFocus

	spinner  spinner.Model
	showHelp bool
	quitting bool
	width    int
	height   int
}

// eventMsg wraps one controller event.
type eventMsg struct {
	event dashboard.Event
}

// clockTickMsg triggers a redraw for time-dependent state.
type clockTickMsg time.Time

// NewModel creates a dashboard model reading events from bridge.
func NewModel(ctrl Controller, bridge *Bridge, opts Options) Model {
	if opts.Thresholds == nil {
		opts.Thresholds = dashboard.DefaultThresholds()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	cards := make(map[api.Metric]*metricCard, len(api.Metrics))
	for _, m := range api.Metrics {
		cards[m] = &metricCard{}
	}

	return Model{
		ctrl:       ctrl,
		bridge:     bridge,
		thresholds: opts.Thresholds,
		interval:   opts.Interval,
		now:        opts.Clock,
		cards:      cards,
		notices:    make(map[api.Metric]dashboard.Notice),
		focused:    true,
		spinner:    ui.NewBubblesSpinner(ColorAccent),
	}
}

// Init starts the event pump, the clock and the connecting spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.pollEventsCmd(),
		m.clockTickCmd(),
		m.spinner.Tick,
	)
}

// Update handles incoming messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.FocusMsg:
		m.focused = true
		if m.paused {
			return m, nil
		}
		m.setVisibility(dashboard.Visible)
		return m, nil

	case tea.BlurMsg:
		m.focused = false
		if m.paused {
			return m, nil
		}
		m.setVisibility(dashboard.Hidden)
		return m, nil

	case eventMsg:
		m.apply(msg.event)
		return m, m.pollEventsCmd()

	case clockTickMsg:
		return m, m.clockTickCmd()

	case spinner.TickMsg:
		// The spinner only animates until the first cycle lands.
		if m.connSeen {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// apply folds one controller event into the model.
func (m *Model) apply(e dashboard.Event) {
	switch e := e.(type) {
	case dashboard.MetricUpdate:
		c := m.card(e.Metric)
		c.update = e
		c.hasValue = true
		delete(m.notices, e.Metric)

	case dashboard.SeriesUpdate:
		c := m.card(api.Metric(e.Name))
		c.values = e.Values
		c.labels = e.Labels

	case dashboard.ConnectionUpdate:
		m.connected = e.Connected
		m.connSeen = true
		if e.Connected {
			delete(m.notices, "")
		}

	case dashboard.AlertUpdate:
		m.banner = e.Banner

	case dashboard.Notice:
		m.notices[e.Metric] = e
	}
}

func (m *Model) card(metric api.Metric) *metricCard {
	c, ok := m.cards[metric]
	if !ok {
		c = &metricCard{}
		m.cards[metric] = c
	}
	return c
}

// pollEventsCmd waits for the next controller event.
func (m Model) pollEventsCmd() tea.Cmd {
	if m.bridge == nil {
		return nil
	}
	events, done := m.bridge.Events(), m.bridge.Done()
	return func() tea.Msg {
		select {
		case e := <-events:
			return eventMsg{event: e}
		case <-done:
			return nil
		}
	}
}

func (m Model) clockTickCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// setVisibility forwards a visibility change to the controller. It runs on
// the UI loop so changes reach the bridge in the order the user made them;
// the bridge never blocks here.
func (m Model) setVisibility(v dashboard.Visibility) {
	if m.bridge != nil {
		m.bridge.SetVisibility(v)
	}
}

// controllerCmd runs fn off the UI loop.
func controllerCmd(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

// LayoutMode returns the layout for the current terminal width.
func (m Model) LayoutMode() LayoutMode {
	switch {
	case m.width >= BreakpointWide:
		return LayoutWide
	case m.width >= BreakpointStandard || m.width == 0:
		return LayoutStandard
	default:
		return LayoutCompact
	}
}

// Connected reports whether the last completed cycle succeeded.
func (m Model) Connected() bool {
	return m.connected
}

// Paused reports whether polling was paused from the keyboard.
func (m Model) Paused() bool {
	return m.paused
}

// BannerVisible reports whether the alert banner should be drawn now.
func (m Model) BannerVisible() bool {
	return m.banner.VisibleAt(m.now())
}
