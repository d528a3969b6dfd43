package dashboard

import "github.com/rileyhilliard/sysinsight/internal/api"

// Severity is the display class of a metric value. It only drives styling;
// alerting uses the levels reported by the backend.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Threshold holds the warning and critical boundaries for one metric.
// Warning must be below Critical.
type Threshold struct {
	Warning  float64
	Critical float64
}

// Thresholds maps each metric to its display thresholds.
type Thresholds map[api.Metric]Threshold

// DefaultThresholds returns the stock display thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		api.MetricCPU:    {Warning: 70, Critical: 85},
		api.MetricMemory: {Warning: 75, Critical: 85},
		api.MetricDisk:   {Warning: 80, Critical: 90},
	}
}

// For returns the threshold for metric, falling back to the default.
func (t Thresholds) For(metric api.Metric) Threshold {
	if th, ok := t[metric]; ok {
		return th
	}
	return DefaultThresholds()[metric]
}

// Classify maps value to a severity. Boundaries are inclusive: a value equal
// to the critical threshold is critical.
func Classify(value float64, t Threshold) Severity {
	switch {
	case value >= t.Critical:
		return SeverityCritical
	case value >= t.Warning:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}
