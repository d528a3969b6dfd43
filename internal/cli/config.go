package cli

import (
	"github.com/rileyhilliard/sysinsight/internal/api"
	"github.com/rileyhilliard/sysinsight/internal/config"
	"github.com/rileyhilliard/sysinsight/internal/dashboard"
	"github.com/rileyhilliard/sysinsight/internal/logger"
	"github.com/rileyhilliard/sysinsight/internal/server"
)

// loadConfig resolves the config from --config, the search path or the
// defaults. The returned path is empty when no file was found.
func loadConfig(log logger.Logger) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		log.Debug("no %s found, using defaults", config.ConfigFileName)
	} else {
		log.Debug("loaded config from %s", path)
	}
	return cfg, path, nil
}

// dashboardThresholds converts the configured thresholds for the controller.
func dashboardThresholds(t config.ThresholdsConfig) dashboard.Thresholds {
	return dashboard.Thresholds{
		api.MetricCPU:    {Warning: t.CPU.Warning, Critical: t.CPU.Critical},
		api.MetricMemory: {Warning: t.Memory.Warning, Critical: t.Memory.Critical},
		api.MetricDisk:   {Warning: t.Disk.Warning, Critical: t.Disk.Critical},
	}
}

// serverThresholds converts the configured thresholds for the API server.
func serverThresholds(t config.ThresholdsConfig) server.Thresholds {
	return server.Thresholds{
		api.MetricCPU:    {Warning: t.CPU.Warning, Critical: t.CPU.Critical},
		api.MetricMemory: {Warning: t.Memory.Warning, Critical: t.Memory.Critical},
		api.MetricDisk:   {Warning: t.Disk.Warning, Critical: t.Disk.Critical},
	}
}
