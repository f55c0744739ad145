// FILE: pidcat/src/internal/filter/stage.go
package filter

import (
	"sync/atomic"

	"pidcat/src/internal/core"
)

// Stage is one step of the chain.
type Stage interface {
	Name() string
	Apply(rec core.Record) bool
	GetStats() map[string]any
}

// Scope is the set of owners currently in scope.
type Scope interface {
	Contains(pid string) bool
}

// ScopeStage drops records whose owner is not tracked, unless all is set.
type ScopeStage struct {
	all   bool
	scope Scope

	totalProcessed atomic.Uint64
	totalDropped   atomic.Uint64
}

// NewScopeStage creates the process scope check
func NewScopeStage(all bool, scope Scope) *ScopeStage {
	return &ScopeStage{all: all, scope: scope}
}

func (s *ScopeStage) Name() string { return "scope" }

func (s *ScopeStage) Apply(rec core.Record) bool {
	s.totalProcessed.Add(1)
	if s.all || s.scope.Contains(rec.Owner) {
		return true
	}
	s.totalDropped.Add(1)
	return false
}

func (s *ScopeStage) GetStats() map[string]any {
	return map[string]any{
		"name":            s.Name(),
		"all":             s.all,
		"total_processed": s.totalProcessed.Load(),
		"total_dropped":   s.totalDropped.Load(),
	}
}

// LevelStage drops records below a minimum priority. Records with an
// unrecognized level letter always pass.
type LevelStage struct {
	min     core.Level
	minRank int

	totalProcessed atomic.Uint64
	totalDropped   atomic.Uint64
}

// NewLevelStage creates the severity threshold. An unknown minimum means V.
func NewLevelStage(minLevel core.Level) *LevelStage {
	rank, ok := minLevel.Rank()
	if !ok {
		minLevel, rank = core.LevelVerbose, 0
	}
	return &LevelStage{min: minLevel, minRank: rank}
}

func (s *LevelStage) Name() string { return "level" }

func (s *LevelStage) Apply(rec core.Record) bool {
	s.totalProcessed.Add(1)
	rank, known := rec.Level.Rank()
	if known && rank < s.minRank {
		s.totalDropped.Add(1)
		return false
	}
	return true
}

func (s *LevelStage) GetStats() map[string]any {
	return map[string]any{
		"name":            s.Name(),
		"min_level":       s.min.String(),
		"total_processed": s.totalProcessed.Load(),
		"total_dropped":   s.totalDropped.Load(),
	}
}
