package series

import (
	"sort"
	"sync"
	"time"
)

// Registry maps series names to their buffers.
// Entries are created by EnsureSeries and live until the registry is
// discarded; ClearAll empties them but keeps the names registered.
// It provides thread-safe access so a renderer may read while the
// controller records.
type Registry struct {
	mu     sync.RWMutex
	series map[string]*Buffer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		series: make(map[string]*Buffer),
	}
}

// EnsureSeries registers name with the given capacity.
// It is a no-op when name is already registered, even if capacity differs.
func (r *Registry) EnsureSeries(name string, capacity int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.series[name]; ok {
		return
	}
	r.series[name] = NewBuffer(capacity)
}

// Record appends a sample to the named series.
// Recording into an unregistered series is silently ignored.
func (r *Registry) Record(name string, timestamp time.Time, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf, ok := r.series[name]
	if !ok {
		return
	}
	buf.Append(timestamp, value)
}

// Read returns a snapshot of the named series.
// The boolean is false when the series is not registered.
func (r *Registry) Read(name string) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buf, ok := r.series[name]
	if !ok {
		return Snapshot{}, false
	}
	return buf.Snapshot(), true
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.series[name]
	return ok
}

// Names returns the registered series names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.series))
	for name := range r.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearAll empties every buffer without removing registrations.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, buf := range r.series {
		buf.Clear()
	}
}
