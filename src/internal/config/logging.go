// FILE: pidcat/src/internal/config/logging.go
package config

import "fmt"

// LogConfig configures diagnostics. Diagnostics never share stdout with the
// rendered log stream.
type LogConfig struct {
	// Output mode: "stderr", "file", "none"
	Output string `toml:"output"`

	// Log level: "debug", "info", "warn", "error"
	Level string `toml:"level"`

	// File output settings (when Output is "file")
	Directory string `toml:"directory"`
	Name      string `toml:"name"`

	// Format: "txt" or "json"
	Format string `toml:"format"`
}

// DefaultLogConfig returns the logging defaults
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Output:    "stderr",
		Level:     "warn",
		Directory: "./log",
		Name:      "pidcat",
		Format:    "txt",
	}
}

func validateLogConfig(cfg *LogConfig) error {
	validOutputs := map[string]bool{
		"stderr": true, "file": true, "none": true,
	}
	if !validOutputs[cfg.Output] {
		return fmt.Errorf("invalid log output mode: %s", cfg.Output)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		return fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	validFormats := map[string]bool{
		"txt": true, "json": true, "": true,
	}
	if !validFormats[cfg.Format] {
		return fmt.Errorf("invalid log format: %s", cfg.Format)
	}

	if cfg.Output == "file" && cfg.Directory == "" {
		return fmt.Errorf("file logging requires a directory")
	}

	return nil
}
