// FILE: pidcat/src/internal/config/config.go
package config

import "pidcat/src/internal/core"

// Config is the complete runtime configuration
type Config struct {
	// Package names (or "name:" prefixes) to follow; empty means all
	Packages []string `toml:"packages"`

	// Tag column width, 0 hides the column
	TagWidth int64 `toml:"tag_width"`

	// Minimum level letter: V, D, I, W, E or F
	MinLevel string `toml:"min_level"`

	AlwaysShowTags bool `toml:"always_show_tags"`
	ColorGC        bool `toml:"color_gc"`
	All            bool `toml:"all"`
	CurrentApp     bool `toml:"current_app"`
	Clear          bool `toml:"clear"`
	Quiet          bool `toml:"quiet"`

	// Tag rules (case-insensitive, whole-tag regular expressions)
	Tags        []string `toml:"tags"`
	IgnoredTags []string `toml:"ignored_tags"`

	// Output format: "color", "raw" or "json"
	Format string `toml:"format"`

	// Indent json output; ignored by other formats
	JSONPretty bool `toml:"json_pretty"`

	// Saved log file to read instead of stdin or adb
	Input string `toml:"input"`

	Device  DeviceConfig `toml:"device"`
	Logging LogConfig    `toml:"logging"`
	Relay   RelayConfig  `toml:"relay"`
}

// DeviceConfig selects the adb binary and target device
type DeviceConfig struct {
	AdbPath     string `toml:"adb_path"`
	Serial      string `toml:"serial"`
	UseDevice   bool   `toml:"use_device"`
	UseEmulator bool   `toml:"use_emulator"`
}

// RelayConfig controls the optional HTTP relay of rendered output
type RelayConfig struct {
	Enabled        bool    `toml:"enabled"`
	Host           string  `toml:"host"`
	Port           int64   `toml:"port"`
	BufferSize     int64   `toml:"buffer_size"`
	RequestsPerSec float64 `toml:"requests_per_sec"`
	Burst          int64   `toml:"burst"`

	// IP or CIDR entries; deny wins, a non-empty allow list admits only its members
	AllowIPs []string `toml:"allow_ips"`
	DenyIPs  []string `toml:"deny_ips"`
}

func defaults() *Config {
	return &Config{
		TagWidth: core.DefaultTagWidth,
		MinLevel: core.DefaultMinLevel.String(),
		Format:   "color",
		Device: DeviceConfig{
			AdbPath: "adb",
		},
		Logging: *DefaultLogConfig(),
		Relay: RelayConfig{
			Enabled:        false,
			Host:           "127.0.0.1",
			Port:           8790,
			BufferSize:     1000,
			RequestsPerSec: 10,
			Burst:          20,
		},
	}
}

// Level returns the parsed minimum level. Call after Validate.
func (c *Config) Level() core.Level {
	level, ok := core.ParseLevel(c.MinLevel)
	if !ok {
		return core.DefaultMinLevel
	}
	return level
}

// AllMode reports whether every process's lines are shown
func (c *Config) AllMode() bool {
	return c.All || len(c.Packages) == 0
}
