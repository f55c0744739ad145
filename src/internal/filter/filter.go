// FILE: pidcat/src/internal/filter/filter.go
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"pidcat/src/internal/core"

	"github.com/lixenwraith/log"
)

// Type selects whether a tag rule set keeps or drops matching records
type Type string

const (
	TypeInclude Type = "include"
	TypeExclude Type = "exclude"
)

// Filter applies a set of tag rules to records. Rules are anchored,
// case-insensitive whole-tag patterns; a record matches if any rule does.
type Filter struct {
	filterType Type
	rules      []string
	patterns   []*regexp.Regexp
	logger     *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalMatched   atomic.Uint64
	totalDropped   atomic.Uint64
}

// CompileTagRule anchors and compiles a single tag rule. Surrounding
// whitespace is ignored.
func CompileTagRule(rule string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)^(?:` + strings.TrimSpace(rule) + `)$`)
}

// NewFilter creates a tag filter of the given type
func NewFilter(filterType Type, rules []string, logger *log.Logger) (*Filter, error) {
	if filterType == "" {
		filterType = TypeInclude
	}
	if filterType != TypeInclude && filterType != TypeExclude {
		return nil, fmt.Errorf("unknown filter type '%s'", filterType)
	}

	f := &Filter{
		filterType: filterType,
		rules:      rules,
		patterns:   make([]*regexp.Regexp, 0, len(rules)),
		logger:     logger,
	}

	for i, rule := range rules {
		re, err := CompileTagRule(rule)
		if err != nil {
			return nil, fmt.Errorf("invalid tag rule[%d] '%s': %w", i, rule, err)
		}
		f.patterns = append(f.patterns, re)
	}

	logger.Debug("msg", "Tag filter created",
		"component", "filter",
		"type", filterType,
		"rule_count", len(rules))

	return f, nil
}

// Name identifies the stage in statistics and debug output
func (f *Filter) Name() string {
	return string(f.filterType) + "_tags"
}

// Apply checks if a record should be passed through
func (f *Filter) Apply(rec core.Record) bool {
	f.totalProcessed.Add(1)

	// No rules means the stage is inactive
	if len(f.patterns) == 0 {
		return true
	}

	matched := f.matches(rec.Tag)
	if matched {
		f.totalMatched.Add(1)
	}

	shouldPass := matched
	if f.filterType == TypeExclude {
		shouldPass = !matched
	}

	if !shouldPass {
		f.totalDropped.Add(1)
	}
	return shouldPass
}

func (f *Filter) matches(tag string) bool {
	for _, re := range f.patterns {
		if re.MatchString(tag) {
			return true
		}
	}
	return false
}

// GetStats returns filter statistics
func (f *Filter) GetStats() map[string]any {
	return map[string]any{
		"name":            f.Name(),
		"rules":           f.rules,
		"total_processed": f.totalProcessed.Load(),
		"total_matched":   f.totalMatched.Load(),
		"total_dropped":   f.totalDropped.Load(),
	}
}
