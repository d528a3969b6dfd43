package monitor

import (
	"sync"

	"github.com/rileyhilliard/sysinsight/internal/dashboard"
)

// DefaultEventBuffer is the number of controller events buffered between the
// controller and the UI loop. One cycle emits at most eight.
const DefaultEventBuffer = 64

// Bridge connects a dashboard controller to the Bubble Tea program. It is the
// controller's Sink and the source of its visibility signal.
//
// Emit blocks while the buffer is full until the UI drains it or the bridge
// is closed, so events are never dropped while the dashboard is running.
// Visibility holds only the latest unread change.
type Bridge struct {
	events     chan dashboard.Event
	visibility chan dashboard.Visibility
	done       chan struct{}
	closeOnce  sync.Once
	visMu      sync.Mutex // serializes SetVisibility
}

// NewBridge creates a bridge with the given event buffer size.
func NewBridge(buffer int) *Bridge {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &Bridge{
		events:     make(chan dashboard.Event, buffer),
		visibility: make(chan dashboard.Visibility, 1),
		done:       make(chan struct{}),
	}
}

// Emit implements dashboard.Sink.
func (b *Bridge) Emit(e dashboard.Event) {
	select {
	case b.events <- e:
	case <-b.done:
	}
}

// Events returns the event stream read by the model.
func (b *Bridge) Events() <-chan dashboard.Event {
	return b.events
}

// Visibility returns the channel to hand to dashboard.Options.Visibility.
func (b *Bridge) Visibility() <-chan dashboard.Visibility {
	return b.visibility
}

// SetVisibility forwards v to the controller without blocking. A change the
// controller has not read yet is replaced, so the last call wins. It returns
// false once the bridge is closed.
func (b *Bridge) SetVisibility(v dashboard.Visibility) bool {
	b.visMu.Lock()
	defer b.visMu.Unlock()

	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case <-b.visibility:
	default:
	}
	// Only setters write, under visMu, so the slot is free.
	b.visibility <- v
	return true
}

// Done is closed by Close.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Close releases any blocked Emit call. It is safe to call
// more than once.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}
