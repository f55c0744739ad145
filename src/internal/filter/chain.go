// FILE: pidcat/src/internal/filter/chain.go
package filter

import (
	"fmt"
	"sync/atomic"

	"pidcat/src/internal/core"

	"github.com/lixenwraith/log"
)

// Options holds the record filtering configuration.
type Options struct {
	All         bool
	MinLevel    core.Level
	Tags        []string
	IgnoredTags []string
}

// Chain applies the stages in order: scope, level, ignored tags, included tags.
type Chain struct {
	stages []Stage
	logger *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalPassed    atomic.Uint64
}

// NewChain builds the stage sequence. Tag rules that fail to compile are
// reported as errors.
func NewChain(opts Options, scope Scope, logger *log.Logger) (*Chain, error) {
	ignore, err := NewFilter(TypeExclude, opts.IgnoredTags, logger)
	if err != nil {
		return nil, fmt.Errorf("ignored tags: %w", err)
	}
	include, err := NewFilter(TypeInclude, opts.Tags, logger)
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}

	chain := &Chain{
		stages: []Stage{
			NewScopeStage(opts.All, scope),
			NewLevelStage(opts.MinLevel),
			ignore,
			include,
		},
		logger: logger,
	}

	logger.Info("msg", "Filter chain created",
		"component", "filter_chain",
		"all", opts.All,
		"min_level", opts.MinLevel.String(),
		"tag_rules", len(opts.Tags),
		"ignored_tag_rules", len(opts.IgnoredTags))
	return chain, nil
}

// Apply runs a record through every stage. The first stage to reject wins.
func (c *Chain) Apply(rec core.Record) bool {
	c.totalProcessed.Add(1)

	for _, stage := range c.stages {
		if !stage.Apply(rec) {
			c.logger.Debug("msg", "Record filtered out",
				"component", "filter_chain",
				"stage", stage.Name(),
				"tag", rec.Tag,
				"owner", rec.Owner)
			return false
		}
	}

	c.totalPassed.Add(1)
	return true
}

// GetStats returns aggregated statistics for the entire chain.
func (c *Chain) GetStats() map[string]any {
	stageStats := make([]map[string]any, len(c.stages))
	for i, stage := range c.stages {
		stageStats[i] = stage.GetStats()
	}

	return map[string]any{
		"stage_count":     len(c.stages),
		"total_processed": c.totalProcessed.Load(),
		"total_passed":    c.totalPassed.Load(),
		"stages":          stageStats,
	}
}
