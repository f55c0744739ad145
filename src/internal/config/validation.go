// FILE: pidcat/src/internal/config/validation.go
package config

import (
	"errors"
	"fmt"
	"slices"

	"pidcat/src/internal/core"
	"pidcat/src/internal/filter"
	"pidcat/src/internal/format"

	lconfig "github.com/lixenwraith/config"
)

// ErrInvalidLevel is returned for a minimum level outside V, D, I, W, E, F
var ErrInvalidLevel = errors.New("invalid minimum level")

// Validate checks the whole configuration. Tag rules are compiled so a bad
// expression is reported before any input is read.
func (c *Config) Validate() error {
	if _, ok := core.ParseLevel(c.MinLevel); !ok {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidLevel, c.MinLevel, core.Levels)
	}

	if c.TagWidth < 0 {
		return fmt.Errorf("tag_width must be non-negative: %d", c.TagWidth)
	}

	if c.Format != "" && !slices.Contains(format.Names, c.Format) {
		return fmt.Errorf("unknown format '%s' (want one of %v)", c.Format, format.Names)
	}

	for i, rule := range c.Tags {
		if _, err := filter.CompileTagRule(rule); err != nil {
			return fmt.Errorf("invalid tag rule[%d] '%s': %w", i, rule, err)
		}
	}
	for i, rule := range c.IgnoredTags {
		if _, err := filter.CompileTagRule(rule); err != nil {
			return fmt.Errorf("invalid ignored tag rule[%d] '%s': %w", i, rule, err)
		}
	}

	if c.Device.Serial != "" && (c.Device.UseDevice || c.Device.UseEmulator) {
		return fmt.Errorf("device serial cannot be combined with use_device or use_emulator")
	}

	if err := validateLogConfig(&c.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := validateRelay(&c.Relay); err != nil {
		return fmt.Errorf("relay config: %w", err)
	}

	return nil
}

func validateRelay(r *RelayConfig) error {
	if !r.Enabled {
		return nil
	}

	if err := lconfig.Port(r.Port); err != nil {
		return err
	}

	if r.Host != "" && r.Host != "0.0.0.0" {
		if err := lconfig.IPAddress(r.Host); err != nil {
			return err
		}
	}

	if r.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive: %d", r.BufferSize)
	}

	if r.RequestsPerSec < 0 {
		return fmt.Errorf("requests_per_sec must be non-negative: %f", r.RequestsPerSec)
	}

	if r.RequestsPerSec > 0 && r.Burst <= 0 {
		return fmt.Errorf("burst must be positive when rate limiting: %d", r.Burst)
	}

	return nil
}
