package server

import "github.com/rileyhilliard/sysinsight/internal/api"

// Threshold holds the warning and critical percentages for one metric.
type Threshold struct {
	Warning  float64
	Critical float64
}

// Thresholds maps metrics to the thresholds used for alert levels.
type Thresholds map[api.Metric]Threshold

// DefaultThresholds returns the stock alert thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		api.MetricCPU:    {Warning: 70, Critical: 85},
		api.MetricMemory: {Warning: 75, Critical: 90},
		api.MetricDisk:   {Warning: 80, Critical: 90},
	}
}

// Level maps value to an alert level. Both boundaries are inclusive.
func (t Threshold) Level(value float64) api.Level {
	switch {
	case value >= t.Critical:
		return api.LevelCritical
	case value >= t.Warning:
		return api.LevelWarning
	default:
		return api.LevelNormal
	}
}

// EvaluateThresholds computes alert levels for the collected metrics in
// cpu, memory, disk order. A nil section gets no entry. Disk is judged by
// its fullest partition, or 0 when there are none.
func EvaluateThresholds(cpu *api.CPU, mem *api.Memory, disk *api.Disk, t Thresholds) api.Alerts {
	alerts := api.Alerts{}
	if cpu != nil {
		alerts = append(alerts, api.Alert{Metric: api.MetricCPU, Level: t.For(api.MetricCPU).Level(cpu.Percent)})
	}
	if mem != nil {
		alerts = append(alerts, api.Alert{Metric: api.MetricMemory, Level: t.For(api.MetricMemory).Level(mem.Virtual.Percent)})
	}
	if disk != nil {
		alerts = append(alerts, api.Alert{Metric: api.MetricDisk, Level: t.For(api.MetricDisk).Level(maxPartitionPercent(disk))})
	}
	return alerts
}

// For returns the threshold for metric, falling back to the default.
func (t Thresholds) For(metric api.Metric) Threshold {
	if th, ok := t[metric]; ok {
		return th
	}
	return DefaultThresholds()[metric]
}

func maxPartitionPercent(d *api.Disk) float64 {
	var max float64
	for _, p := range d.Partitions {
		if p.Percent > max {
			max = p.Percent
		}
	}
	return max
}
