// Package dashboard bridges fetched metrics payloads to series updates and
// display state.
//
// A Controller owns one series registry and one poller. Every accepted
// cycle records cpu, memory and disk (in that order) before any event is
// emitted, so a renderer never sees an update for a series that has not been
// written yet. Results from a stopped or restarted poller are discarded.
package dashboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/sysinsight/internal/api"
	"github.com/rileyhilliard/sysinsight/internal/errors"
	"github.com/rileyhilliard/sysinsight/internal/logger"
	"github.com/rileyhilliard/sysinsight/internal/poller"
	"github.com/rileyhilliard/sysinsight/internal/series"
)

// Defaults for the metrics endpoint.
const (
	DefaultServer     = "http://localhost:5000"
	DefaultAPIBaseURL = "/api"
)

// TimestampLayout is the clock format of the "Updated" label.
const TimestampLayout = "15:04:05"

// Visibility is the host environment's visibility signal.
type Visibility int

const (
	Visible Visibility = iota
	Hidden
)

// String returns a human-readable visibility name.
func (v Visibility) String() string {
	if v == Hidden {
		return "hidden"
	}
	return "visible"
}

// Options configures a Controller. Zero values take the defaults.
type Options struct {
	// Server and APIBaseURL locate the metrics endpoint. Ignored when
	// Fetcher is set.
	Server     string
	APIBaseURL string
	Fetcher    poller.Fetcher

	PollInterval time.Duration
	Timeout      time.Duration
	Capacity     int
	Thresholds   Thresholds
	AlertDismiss time.Duration

	Logger logger.Logger
	Clock  func() time.Time
	Sink   Sink

	// Visibility, when set, is watched from Initialize until Teardown.
	Visibility <-chan Visibility
}

// Controller drives the dashboard from poller results.
type Controller struct {
	registry   *series.Registry
	poller     *poller.Poller
	endpoint   string
	capacity   int
	thresholds Thresholds
	dismiss    time.Duration
	log        logger.Logger
	now        func() time.Time
	sink       Sink
	visibility <-chan Visibility

	// mu serializes result application, lifecycle changes and event emission.
	mu          sync.Mutex
	connected   bool
	banner      Banner
	initialized bool
	tornDown    bool
	done        chan struct{}
}

// New creates a controller. Polling does not begin until Initialize.
func New(opts Options) (*Controller, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Sink == nil {
		opts.Sink = discardSink{}
	}
	if opts.Capacity <= 0 {
		opts.Capacity = series.DefaultCapacity
	}
	if opts.AlertDismiss <= 0 {
		opts.AlertDismiss = DefaultAlertDismiss
	}
	if opts.Thresholds == nil {
		opts.Thresholds = DefaultThresholds()
	}

	fetcher := opts.Fetcher
	endpoint := "custom fetcher"
	if fetcher == nil {
		if opts.Server == "" {
			opts.Server = DefaultServer
		}
		if opts.APIBaseURL == "" {
			opts.APIBaseURL = DefaultAPIBaseURL
		}
		url, err := poller.Endpoint(opts.Server, opts.APIBaseURL)
		if err != nil {
			return nil, err
		}
		endpoint = url
		fetcher = poller.NewHTTPFetcher(url, nil)
	}

	return &Controller{
		registry: series.NewRegistry(),
		poller: poller.New(fetcher, poller.Options{
			Interval: opts.PollInterval,
			Timeout:  opts.Timeout,
			Logger:   opts.Logger,
		}),
		endpoint:   endpoint,
		capacity:   opts.Capacity,
		thresholds: opts.Thresholds,
		dismiss:    opts.AlertDismiss,
		log:        opts.Logger,
		now:        opts.Clock,
		sink:       opts.Sink,
		visibility: opts.Visibility,
		done:       make(chan struct{}),
	}, nil
}

// Initialize registers the metric series, wires the poller callbacks and
// starts polling. Calling it again, or after Teardown, does nothing.
func (c *Controller) Initialize() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized || c.tornDown {
		return
	}
	c.initialized = true

	for _, m := range api.Metrics {
		c.registry.EnsureSeries(string(m), c.capacity)
	}

	c.poller.OnSuccess(c.HandleSuccess)
	c.poller.OnFailure(c.HandleFailure)

	c.log.Info("polling %s every %s", c.endpoint, c.poller.Interval())
	c.poller.Start()

	if c.visibility != nil {
		go c.watchVisibility(c.visibility)
	}
}

func (c *Controller) watchVisibility(ch <-chan Visibility) {
	for {
		select {
		case <-c.done:
			return
		case v, ok := <-ch:
			if !ok {
				return
			}
			c.HandleVisibility(v)
		}
	}
}

// HandleVisibility stops polling while hidden and resumes when visible.
func (c *Controller) HandleVisibility(v Visibility) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || c.tornDown {
		return
	}

	c.log.Debug("visibility changed: %s", v)
	if v == Hidden {
		c.poller.Stop()
		return
	}
	c.poller.Start()
}

// Refresh issues an off-schedule cycle. It does nothing while paused.
func (c *Controller) Refresh() {
	c.poller.Trigger()
}

// Polling reports whether the poller is running.
func (c *Controller) Polling() bool {
	return c.poller.State() == poller.StatePolling
}

// Teardown stops polling and empties every series. It is safe to call more
// than once.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tornDown {
		return
	}
	c.tornDown = true
	close(c.done)

	c.poller.Stop()
	c.registry.ClearAll()
	c.log.Debug("dashboard torn down")
}

// Wait blocks until in-flight cycles have been delivered.
func (c *Controller) Wait() {
	c.poller.Wait()
}

// HandleSuccess applies a decoded payload from cycle. Stale cycles are
// dropped.
func (c *Controller) HandleSuccess(cycle poller.Cycle, p *api.Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.poller.Accepts(cycle) {
		c.log.Debug("discarding stale cycle %d/%d", cycle.Generation, cycle.Seq)
		return
	}

	now := c.now()
	label := "Updated: " + now.Format(TimestampLayout)

	var updates []MetricUpdate
	var notices []Notice
	for _, m := range api.Metrics {
		value, stats, ok := Extract(m, p)
		if !ok {
			if err := p.Failures[m]; err != nil {
				notices = append(notices, Notice{
					Kind:    errors.KindOf(err),
					Metric:  m,
					Message: fmt.Sprintf("%s unavailable: %s", m, errors.Summary(err)),
					Err:     err,
				})
			}
			continue
		}
		c.registry.Record(string(m), p.Timestamp, value)
		updates = append(updates, MetricUpdate{
			Metric:         m,
			Value:          value,
			Severity:       Classify(value, c.thresholds.For(m)),
			Stats:          stats,
			TimestampLabel: label,
		})
	}

	if !c.connected {
		c.log.Info("connected to %s", c.endpoint)
	}
	c.connected = true

	alertChanged := false
	if names := CriticalAlerts(p.Alerts); len(names) > 0 {
		c.banner.Show(AlertMessage(names), now, now.Add(c.dismiss))
		alertChanged = true
	}

	for _, u := range updates {
		c.sink.Emit(u)
	}
	for _, u := range updates {
		snap, _ := c.registry.Read(string(u.Metric))
		c.sink.Emit(SeriesUpdate{Name: string(u.Metric), Labels: snap.Timestamps, Values: snap.Values})
	}
	c.sink.Emit(ConnectionUpdate{Connected: true})
	if alertChanged {
		c.sink.Emit(AlertUpdate{Banner: c.banner})
	}
	for _, n := range notices {
		c.sink.Emit(n)
	}
}

// HandleFailure marks the connection as lost. Series are left untouched and
// polling continues.
func (c *Controller) HandleFailure(cycle poller.Cycle, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.poller.Accepts(cycle) {
		c.log.Debug("discarding stale failure %d/%d", cycle.Generation, cycle.Seq)
		return
	}

	if c.connected {
		c.log.Warn("lost connection to %s: %s", c.endpoint, errors.Summary(err))
	}
	c.connected = false

	c.sink.Emit(ConnectionUpdate{Connected: false})
	c.sink.Emit(Notice{
		Kind:    errors.KindOf(err),
		Message: "Failed to fetch metrics. Retrying...",
		Err:     err,
	})
}

// Connected reports the connection state of the last applied cycle.
func (c *Controller) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Series returns the current window of a series.
func (c *Controller) Series(name string) (series.Snapshot, bool) {
	return c.registry.Read(name)
}

// Banner returns the alert banner as it should be drawn now.
func (c *Controller) Banner() Banner {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := c.banner
	b.Visible = b.VisibleAt(c.now())
	return b
}

// DismissAlert hides the alert banner ahead of its deadline.
func (c *Controller) DismissAlert() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.banner.Visible {
		return
	}
	c.banner.Dismiss()
	c.sink.Emit(AlertUpdate{Banner: c.banner})
}

// Endpoint returns a description of where metrics come from.
func (c *Controller) Endpoint() string {
	return c.endpoint
}
