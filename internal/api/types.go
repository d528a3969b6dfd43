// Package api defines the metrics API wire format shared by the server that
// produces it and the dashboard that consumes it.
package api

import (
	"bytes"
	"encoding/json"
	"time"
)

// Metric names a metric stream. The names double as series names and as
// keys of the payload's alerts object.
type Metric string

const (
	MetricCPU    Metric = "cpu"
	MetricMemory Metric = "memory"
	MetricDisk   Metric = "disk"
)

// Metrics lists the metric streams in their fixed application order.
var Metrics = []Metric{MetricCPU, MetricMemory, MetricDisk}

// Level is an alert level reported by the backend.
type Level string

const (
	LevelNormal   Level = "normal"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Cores holds physical and logical core counts.
type Cores struct {
	Physical int `json:"physical"`
	Logical  int `json:"logical"`
}

// Frequency holds CPU frequency in MHz. Fields are nil when the platform
// does not report them.
type Frequency struct {
	Current *float64 `json:"current"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
}

// CPU is the cpu section of the payload.
type CPU struct {
	Percent   float64    `json:"percent"`
	PerCore   []float64  `json:"per_core,omitempty"`
	Cores     *Cores     `json:"cores,omitempty"`
	Frequency *Frequency `json:"frequency,omitempty"`
	Timestamp string     `json:"timestamp,omitempty"`
}

// VirtualMemory describes physical memory usage in GiB.
type VirtualMemory struct {
	TotalGB     float64 `json:"total_gb"`
	AvailableGB float64 `json:"available_gb"`
	UsedGB      float64 `json:"used_gb"`
	Percent     float64 `json:"percent"`
}

// SwapMemory describes swap usage in GiB.
type SwapMemory struct {
	TotalGB float64 `json:"total_gb"`
	UsedGB  float64 `json:"used_gb"`
	Percent float64 `json:"percent"`
}

// Memory is the memory section of the payload.
type Memory struct {
	Virtual   VirtualMemory `json:"virtual"`
	Swap      *SwapMemory   `json:"swap,omitempty"`
	Timestamp string        `json:"timestamp,omitempty"`
}

// Partition is the usage of one mounted filesystem in GiB.
type Partition struct {
	Device     string  `json:"device,omitempty"`
	Mountpoint string  `json:"mountpoint"`
	Fstype     string  `json:"fstype,omitempty"`
	TotalGB    float64 `json:"total_gb"`
	UsedGB     float64 `json:"used_gb"`
	FreeGB     float64 `json:"free_gb"`
	Percent    float64 `json:"percent"`
}

// IOStats is aggregate disk I/O since boot.
type IOStats struct {
	ReadCount  uint64  `json:"read_count"`
	WriteCount uint64  `json:"write_count"`
	ReadMB     float64 `json:"read_mb"`
	WriteMB    float64 `json:"write_mb"`
}

// Disk is the disk section of the payload.
type Disk struct {
	Partitions []Partition `json:"partitions"`
	IOStats    *IOStats    `json:"io_stats"`
	Timestamp  string      `json:"timestamp,omitempty"`
}

// MetricError replaces a metric section whose collection failed.
type MetricError struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// Alert is one entry of the payload's alerts object.
type Alert struct {
	Metric Metric
	Level  Level
}

// Alerts keeps alert entries in document order.
type Alerts []Alert

// MarshalJSON encodes the alerts as a JSON object, preserving order.
func (a Alerts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, alert := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(alert.Metric))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(string(alert.Level))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Level returns the level reported for metric, if any.
func (a Alerts) Level(metric Metric) (Level, bool) {
	for _, alert := range a {
		if alert.Metric == metric {
			return alert.Level, true
		}
	}
	return "", false
}

// Payload is one decoded response of the metrics endpoint.
// A nil section means the metric is absent for this cycle, either because
// the backend omitted it or because it was marked as failed; Failures holds
// the reason for the latter.
type Payload struct {
	Timestamp time.Time
	CPU       *CPU
	Memory    *Memory
	Disk      *Disk
	Alerts    Alerts
	Failures  map[Metric]error
}

// TimestampFormat is the layout the server uses for timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000000Z07:00"

// FormatTimestamp renders t the way the server emits timestamps.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
