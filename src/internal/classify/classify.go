// FILE: pidcat/src/internal/classify/classify.go
package classify

import (
	"strings"
	"sync/atomic"

	"pidcat/src/internal/core"
	"pidcat/src/internal/match"
	"pidcat/src/internal/pattern"
	"pidcat/src/internal/registry"

	"github.com/lixenwraith/log"
)

// Result is the outcome of classifying one raw line. Banners come before the
// record in output order. When Discarded is set there is no record and no
// banners.
type Result struct {
	Banners   []core.Banner
	Record    core.Record
	Discarded bool
}

// Classifier turns raw lines into records and drives process lifecycle
// transitions in the registry.
type Classifier struct {
	registry *registry.Registry
	filter   match.PackageFilter
	rewrites []Rewrite
	logger   *log.Logger

	// Statistics
	totalLines     atomic.Uint64
	totalNoise     atomic.Uint64
	totalMalformed atomic.Uint64
	totalStarts    atomic.Uint64
	totalDeaths    atomic.Uint64
	totalRewritten atomic.Uint64
}

// New creates a classifier bound to the given registry and package filter.
func New(reg *registry.Registry, filter match.PackageFilter, logger *log.Logger) *Classifier {
	return &Classifier{
		registry: reg,
		filter:   filter,
		rewrites: []Rewrite{BacktraceOwner},
		logger:   logger,
	}
}

// Classify processes one raw line.
func (c *Classifier) Classify(raw string) Result {
	c.totalLines.Add(1)

	if pattern.IsNoise(raw) {
		c.totalNoise.Add(1)
		return Result{Discarded: true}
	}

	line := strings.TrimSpace(raw)
	if line == "" {
		c.totalMalformed.Add(1)
		return Result{Discarded: true}
	}

	rec, ok := pattern.ParseLogLine(line)
	if !ok {
		c.totalMalformed.Add(1)
		return Result{Discarded: true}
	}

	var res Result

	if banner, ok := c.detectStart(line); ok {
		res.Banners = append(res.Banners, banner)
	}

	if rec.Tag == core.ActivityManagerTag {
		if banner, ok := c.detectDeath(rec.Message); ok {
			res.Banners = append(res.Banners, banner)
		}
	}

	for _, rw := range c.rewrites {
		if rw(&rec, c.registry) {
			c.totalRewritten.Add(1)
		}
	}

	res.Record = rec
	return res
}

func (c *Classifier) detectStart(line string) (core.Banner, bool) {
	ev, ok := pattern.MatchStart(line).(core.StartEvent)
	if !ok {
		return core.Banner{}, false
	}
	if !c.filter.Matches(ev.Package) {
		return core.Banner{}, false
	}
	if !c.registry.Track(ev.PID) {
		return core.Banner{}, false
	}

	c.totalStarts.Add(1)
	c.logger.Debug("msg", "Process started",
		"component", "classifier",
		"package", ev.Package,
		"pid", ev.PID)
	return core.StartedBanner(ev), true
}

// detectDeath tries each matching dialect until one names a tracked process
// that passes the filter.
func (c *Classifier) detectDeath(message string) (core.Banner, bool) {
	for _, ev := range pattern.DeathCandidates(message) {
		if !c.filter.Matches(ev.Process) || !c.registry.Contains(ev.PID) {
			continue
		}
		if !c.registry.Untrack(ev.PID) {
			continue
		}

		c.totalDeaths.Add(1)
		c.logger.Debug("msg", "Process ended",
			"component", "classifier",
			"process", ev.Process,
			"pid", ev.PID)
		return core.EndedBanner(ev), true
	}
	return core.Banner{}, false
}

// GetStats returns classifier statistics
func (c *Classifier) GetStats() map[string]any {
	return map[string]any{
		"total_lines":     c.totalLines.Load(),
		"total_noise":     c.totalNoise.Load(),
		"total_malformed": c.totalMalformed.Load(),
		"total_starts":    c.totalStarts.Load(),
		"total_deaths":    c.totalDeaths.Load(),
		"total_rewritten": c.totalRewritten.Load(),
	}
}
