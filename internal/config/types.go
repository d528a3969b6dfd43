package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .sysinsight.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
}

// DashboardConfig controls the terminal dashboard and how it polls the API.
type DashboardConfig struct {
	// Server is the API origin, e.g. http://localhost:5000.
	Server string `yaml:"server" mapstructure:"server"`

	// APIBaseURL is joined with Server when it is a path. A full URL is
	// used as-is.
	APIBaseURL string `yaml:"api_base_url" mapstructure:"api_base_url"`

	// PollInterval is the time between fetch cycles.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// RequestTimeout bounds each fetch.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`

	// Capacity is the number of samples kept per series.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`

	// AlertDismiss is how long the critical alert banner stays up.
	AlertDismiss time.Duration `yaml:"alert_dismiss" mapstructure:"alert_dismiss"`

	// Thresholds drive the value colours.
	Thresholds ThresholdsConfig `yaml:"thresholds" mapstructure:"thresholds"`
}

// ServerConfig controls the metrics API server.
type ServerConfig struct {
	// Listen is the address to bind, e.g. ":5000".
	Listen string `yaml:"listen" mapstructure:"listen"`

	// EnableAlerts adds the alerts object to /api/metrics/all.
	EnableAlerts bool `yaml:"enable_alerts" mapstructure:"enable_alerts"`

	// CORSOrigins lists the origins allowed to call the API.
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`

	// ReadyLimit is the usage percent at or above which /ready fails.
	ReadyLimit float64 `yaml:"ready_limit" mapstructure:"ready_limit"`

	// Thresholds drive the alert levels reported to clients.
	Thresholds ThresholdsConfig `yaml:"thresholds" mapstructure:"thresholds"`
}

// ThresholdsConfig holds warning and critical thresholds per metric.
type ThresholdsConfig struct {
	CPU    ThresholdValues `yaml:"cpu" mapstructure:"cpu"`
	Memory ThresholdValues `yaml:"memory" mapstructure:"memory"`
	Disk   ThresholdValues `yaml:"disk" mapstructure:"disk"`
}

// ThresholdValues defines warning and critical percentages for one metric.
type ThresholdValues struct {
	Warning  float64 `yaml:"warning" mapstructure:"warning"`
	Critical float64 `yaml:"critical" mapstructure:"critical"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Dashboard: DashboardConfig{
			Server:         "http://localhost:5000",
			APIBaseURL:     "/api",
			PollInterval:   5 * time.Second,
			RequestTimeout: 5 * time.Second,
			Capacity:       300,
			AlertDismiss:   10 * time.Second,
			Thresholds: ThresholdsConfig{
				CPU:    ThresholdValues{Warning: 70, Critical: 85},
				Memory: ThresholdValues{Warning: 75, Critical: 85},
				Disk:   ThresholdValues{Warning: 80, Critical: 90},
			},
		},
		Server: ServerConfig{
			Listen:       ":5000",
			EnableAlerts: true,
			CORSOrigins:  []string{"*"},
			ReadyLimit:   95,
			Thresholds: ThresholdsConfig{
				CPU:    ThresholdValues{Warning: 70, Critical: 85},
				Memory: ThresholdValues{Warning: 75, Critical: 90},
				Disk:   ThresholdValues{Warning: 80, Critical: 90},
			},
		},
	}
}
