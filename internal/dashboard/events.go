package dashboard

import (
	"time"

	"github.com/rileyhilliard/sysinsight/internal/api"
	"github.com/rileyhilliard/sysinsight/internal/errors"
)

// Event is a display update emitted by the controller.
type Event interface {
	event()
}

// MetricUpdate carries one metric's readout for a cycle.
type MetricUpdate struct {
	Metric         api.Metric
	Value          float64
	Severity       Severity
	Stats          Stats
	TimestampLabel string
}

// SeriesUpdate carries the full window of one series for redraw.
type SeriesUpdate struct {
	Name   string
	Labels []time.Time
	Values []float64
}

// ConnectionUpdate reports the connection state after a cycle.
type ConnectionUpdate struct {
	Connected bool
}

// AlertUpdate reports the banner state after it changes.
type AlertUpdate struct {
	Banner Banner
}

// Notice is a recoverable error worth surfacing to the user. It never stops
// polling.
type Notice struct {
	Kind    errors.Kind
	Metric  api.Metric // set for partial metric failures
	Message string
	Err     error
}

func (MetricUpdate) event()     {}
func (SeriesUpdate) event()     {}
func (ConnectionUpdate) event() {}
func (AlertUpdate) event()      {}
func (Notice) event()           {}

// Sink receives controller events. Emit is called with the controller's
// apply lock held, so it must not block for long or call back into the
// controller.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) {
	f(e)
}

type discardSink struct{}

func (discardSink) Emit(Event) {}
