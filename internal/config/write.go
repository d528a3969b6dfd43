package config

import (
	"os"

	"github.com/rileyhilliard/sysinsight/internal/errors"
	"gopkg.in/yaml.v3"
)

// header is written above the generated YAML.
const header = "# sysinsight configuration\n# Environment variables prefixed SYSINSIGHT_ override these values.\n\n"

// Marshal renders cfg as YAML with the standard header.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report it")
	}
	return append([]byte(header), data...), nil
}

// Write saves cfg to path.
func Write(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file",
			"Check write permissions for "+path)
	}
	return nil
}
