package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rileyhilliard/sysinsight/internal/errors"
)

// MinPollInterval is the shortest poll interval accepted.
const MinPollInterval = 500 * time.Millisecond

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but sysinsight only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade sysinsight or lower the version field.")
	}

	if err := validateDashboard(cfg.Dashboard); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'dashboard' section in your .sysinsight.yaml.")
	}

	if err := validateServer(cfg.Server); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'server' section in your .sysinsight.yaml.")
	}

	return nil
}

func validateDashboard(d DashboardConfig) error {
	base, err := url.Parse(d.APIBaseURL)
	if err != nil || d.APIBaseURL == "" {
		return fmt.Errorf("dashboard.api_base_url '%s' isn't a valid path or URL - try '/api'", d.APIBaseURL)
	}
	if !base.IsAbs() {
		origin, err := url.Parse(d.Server)
		if err != nil || !origin.IsAbs() || origin.Host == "" {
			return fmt.Errorf("dashboard.server '%s' needs to be a full URL like 'http://localhost:5000'", d.Server)
		}
	}

	if d.PollInterval < MinPollInterval {
		return fmt.Errorf("dashboard.poll_interval %s is too short - use at least %s", d.PollInterval, MinPollInterval)
	}
	if d.RequestTimeout <= 0 {
		return fmt.Errorf("dashboard.request_timeout needs to be positive (got %s)", d.RequestTimeout)
	}
	if d.Capacity <= 0 {
		return fmt.Errorf("dashboard.capacity needs to be positive (got %d)", d.Capacity)
	}
	if d.AlertDismiss <= 0 {
		return fmt.Errorf("dashboard.alert_dismiss needs to be positive (got %s)", d.AlertDismiss)
	}

	return validateThresholdSet("dashboard", d.Thresholds)
}

func validateServer(s ServerConfig) error {
	if strings.TrimSpace(s.Listen) == "" {
		return fmt.Errorf("server.listen is empty - try ':5000'")
	}
	if s.ReadyLimit <= 0 || s.ReadyLimit > 100 {
		return fmt.Errorf("server.ready_limit needs to be 1-100 (got %g)", s.ReadyLimit)
	}
	for _, origin := range s.CORSOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("server.cors_origins has an empty entry - remove it or use '*'")
		}
	}
	return validateThresholdSet("server", s.Thresholds)
}

func validateThresholdSet(section string, t ThresholdsConfig) error {
	if err := validateThresholds(section, "cpu", t.CPU); err != nil {
		return err
	}
	if err := validateThresholds(section, "memory", t.Memory); err != nil {
		return err
	}
	return validateThresholds(section, "disk", t.Disk)
}

// validateThresholds checks a threshold configuration for a single metric type.
func validateThresholds(section, name string, thresh ThresholdValues) error {
	if thresh.Warning < 0 || thresh.Warning > 100 {
		return fmt.Errorf("%s.thresholds.%s.warning needs to be 0-100 (got %g)", section, name, thresh.Warning)
	}
	if thresh.Critical < 0 || thresh.Critical > 100 {
		return fmt.Errorf("%s.thresholds.%s.critical needs to be 0-100 (got %g)", section, name, thresh.Critical)
	}
	if thresh.Warning >= thresh.Critical {
		return fmt.Errorf("%s.thresholds.%s.warning (%g%%) is not below critical (%g%%) - should be the other way around", section, name, thresh.Warning, thresh.Critical)
	}
	return nil
}
