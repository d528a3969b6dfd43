// Package series stores bounded, chronologically ordered metric samples.
//
// A Buffer is a fixed-capacity FIFO window for one metric. A Registry owns one
// Buffer per named series and is the only way the rest of the application
// touches them.
package series

import "time"

// DefaultCapacity is the number of samples retained per series
// (25 minutes at the default 5s poll interval).
const DefaultCapacity = 300

// Sample is one timestamped metric value.
type Sample struct {
	Timestamp time.Time
	Value     float64
}

// Snapshot is a copy of a buffer's contents as two parallel slices in
// chronological order (oldest first).
type Snapshot struct {
	Timestamps []time.Time
	Values     []float64
}

// Len returns the number of samples in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Values)
}

// Latest returns the most recent sample, if any.
func (s Snapshot) Latest() (Sample, bool) {
	n := len(s.Values)
	if n == 0 {
		return Sample{}, false
	}
	return Sample{Timestamp: s.Timestamps[n-1], Value: s.Values[n-1]}, true
}

// Buffer is a fixed-size circular buffer of samples.
// When full, appending evicts the oldest sample.
// Buffer is not safe for concurrent use; Registry provides the locking.
type Buffer struct {
	data  []Sample
	head  int // next write position
	count int
	size  int
}

// NewBuffer creates a buffer holding at most capacity samples.
// A non-positive capacity falls back to DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		data: make([]Sample, capacity),
		size: capacity,
	}
}

// Append adds one sample, overwriting the oldest when the buffer is full.
func (b *Buffer) Append(timestamp time.Time, value float64) {
	b.data[b.head] = Sample{Timestamp: timestamp, Value: value}
	b.head = (b.head + 1) % b.size
	if b.count < b.size {
		b.count++
	}
}

// Snapshot returns copies of the current contents, oldest first.
func (b *Buffer) Snapshot() Snapshot {
	snap := Snapshot{
		Timestamps: make([]time.Time, b.count),
		Values:     make([]float64, b.count),
	}

	// head points at the next write slot, so the oldest sample sits
	// count positions behind it.
	start := (b.head - b.count + b.size) % b.size
	for i := 0; i < b.count; i++ {
		s := b.data[(start+i)%b.size]
		snap.Timestamps[i] = s.Timestamp
		snap.Values[i] = s.Value
	}
	return snap
}

// Clear empties the buffer without releasing its storage.
func (b *Buffer) Clear() {
	for i := range b.data {
		b.data[i] = Sample{}
	}
	b.head = 0
	b.count = 0
}

// Len returns the number of samples currently stored.
func (b *Buffer) Len() int {
	return b.count
}

// Cap returns the maximum number of samples the buffer retains.
func (b *Buffer) Cap() int {
	return b.size
}
