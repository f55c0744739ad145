// FILE: pidcat/src/internal/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// ErrConfigNotFound is returned when an explicitly named config file is missing
var ErrConfigNotFound = errors.New("config file not found")

// Override adjusts a loaded config before validation
type Override func(*Config)

// Load builds the configuration from defaults, the TOML file and PIDCAT_*
// environment variables, in rising precedence, then applies overrides.
// An empty path resolves the default location, where a missing file is fine.
func Load(path string, overrides ...Override) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = GetConfigPath()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix("PIDCAT_").
		WithFile(path).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	for _, override := range overrides {
		override(finalConfig)
	}

	return finalConfig, finalConfig.Validate()
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = "PIDCAT_" + env
	return env
}

// GetConfigPath resolves the default config file location
func GetConfigPath() string {
	if configFile := os.Getenv("PIDCAT_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("PIDCAT_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("PIDCAT_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "pidcat.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "pidcat.toml")
	}

	return "pidcat.toml"
}
