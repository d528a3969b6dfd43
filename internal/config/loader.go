package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/sysinsight/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".sysinsight.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/sysinsight"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. SYSINSIGHT_DASHBOARD_SERVER.
	EnvPrefix = "SYSINSIGHT"
)

// Load reads config from the specified path. Environment overrides apply on
// top of the file.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'sysinsight init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .sysinsight.yaml in current directory
// 3. .sysinsight.yaml in parent directories (stops at git root or home)
// 4. ~/.config/sysinsight/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		// Stop at git root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults with
// environment overrides if no file exists. The returned path is empty in
// the latter case.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "environment")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// newViper returns a viper instance with defaults and env overrides wired.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, source string) (*Config, error) {
	cfg := DefaultConfig()

	// Viper decodes duration strings like "5s" into time.Duration fields.
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+source)
	}

	cfg.Dashboard.Server = strings.TrimSpace(cfg.Dashboard.Server)
	cfg.Dashboard.APIBaseURL = strings.TrimSpace(cfg.Dashboard.APIBaseURL)

	return cfg, nil
}

// setDefaults registers every key so that env overrides are seen by Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("dashboard.server", d.Dashboard.Server)
	v.SetDefault("dashboard.api_base_url", d.Dashboard.APIBaseURL)
	v.SetDefault("dashboard.poll_interval", d.Dashboard.PollInterval.String())
	v.SetDefault("dashboard.request_timeout", d.Dashboard.RequestTimeout.String())
	v.SetDefault("dashboard.capacity", d.Dashboard.Capacity)
	v.SetDefault("dashboard.alert_dismiss", d.Dashboard.AlertDismiss.String())
	setThresholdDefaults(v, "dashboard.thresholds", d.Dashboard.Thresholds)

	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.enable_alerts", d.Server.EnableAlerts)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.ready_limit", d.Server.ReadyLimit)
	setThresholdDefaults(v, "server.thresholds", d.Server.Thresholds)
}

func setThresholdDefaults(v *viper.Viper, prefix string, t ThresholdsConfig) {
	for name, tv := range map[string]ThresholdValues{"cpu": t.CPU, "memory": t.Memory, "disk": t.Disk} {
		v.SetDefault(prefix+"."+name+".warning", tv.Warning)
		v.SetDefault(prefix+"."+name+".critical", tv.Critical)
	}
}
