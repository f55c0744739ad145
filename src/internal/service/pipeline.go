// FILE: pidcat/src/internal/service/pipeline.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"syscall"
	"time"

	"pidcat/src/internal/classify"
	"pidcat/src/internal/filter"
	"pidcat/src/internal/format"
	"pidcat/src/internal/match"
	"pidcat/src/internal/registry"
	"pidcat/src/internal/sink"
	"pidcat/src/internal/source"

	"github.com/lixenwraith/log"
)

// Options configures a pipeline
type Options struct {
	Packages      []string
	Filter        filter.Options
	Format        string
	FormatOptions format.Options
}

// Pipeline carries each line from a source through classification, filtering
// and rendering to the sinks. All state it owns is touched only from the
// goroutine calling Run or ProcessLine.
type Pipeline struct {
	Registry    *registry.Registry
	Classifier  *classify.Classifier
	FilterChain *filter.Chain
	Formatter   format.Formatter
	Sinks       []sink.Sink
	Stats       *PipelineStats
	logger      *log.Logger

	source atomic.Value // source.Source
}

// PipelineStats contains statistics for a pipeline
type PipelineStats struct {
	StartTime      time.Time
	TotalLines     atomic.Uint64
	TotalDiscarded atomic.Uint64
	TotalBanners   atomic.Uint64
	TotalFiltered  atomic.Uint64
	TotalEmitted   atomic.Uint64
	TotalErrors    atomic.Uint64
}

// NewPipeline assembles a pipeline. reg may be pre-seeded; nil creates an
// empty registry.
func NewPipeline(opts Options, reg *registry.Registry, sinks []sink.Sink, logger *log.Logger) (*Pipeline, error) {
	if reg == nil {
		reg = registry.New()
	}

	packages := match.New(opts.Packages)

	chain, err := filter.NewChain(opts.Filter, reg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter chain: %w", err)
	}

	formatter, err := format.NewFormatter(opts.Format, opts.FormatOptions, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}

	p := &Pipeline{
		Registry:    reg,
		Classifier:  classify.New(reg, packages, logger),
		FilterChain: chain,
		Formatter:   formatter,
		Sinks:       sinks,
		Stats: &PipelineStats{
			StartTime: time.Now(),
		},
		logger: logger,
	}

	logger.Debug("msg", "Pipeline created",
		"component", "pipeline",
		"packages", opts.Packages,
		"format", formatter.Name(),
		"sink_count", len(sinks))
	return p, nil
}

// ProcessLine handles one raw line. Banners are emitted before the record
// they were found with. A panic is recovered and returned as an error so a
// bad line never ends the stream.
func (p *Pipeline) ProcessLine(line string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing line: %v", r)
		}
	}()

	p.Stats.TotalLines.Add(1)

	res := p.Classifier.Classify(line)
	if res.Discarded {
		p.Stats.TotalDiscarded.Add(1)
		return nil
	}

	var errs []error
	for _, banner := range res.Banners {
		p.Stats.TotalBanners.Add(1)
		chunk, err := p.Formatter.FormatBanner(banner)
		if err != nil {
			errs = append(errs, fmt.Errorf("format banner: %w", err))
			continue
		}
		errs = append(errs, p.emit(chunk))
	}

	if !p.FilterChain.Apply(res.Record) {
		p.Stats.TotalFiltered.Add(1)
		return errors.Join(errs...)
	}

	chunk, err := p.Formatter.FormatRecord(res.Record)
	if err != nil {
		errs = append(errs, fmt.Errorf("format record: %w", err))
		return errors.Join(errs...)
	}
	errs = append(errs, p.emit(chunk))
	return errors.Join(errs...)
}

// emit writes a chunk to every sink, continuing past failures
func (p *Pipeline) emit(chunk []byte) error {
	p.Stats.TotalEmitted.Add(1)

	var errs []error
	for _, s := range p.Sinks {
		if err := s.Write(chunk); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run consumes src until it is exhausted or ctx is cancelled. End of input
// and cancellation are normal termination. Per-line failures are logged and
// skipped; a closed output stream ends the run.
func (p *Pipeline) Run(ctx context.Context, src source.Source) error {
	p.source.Store(src)
	lines := src.Lines()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("msg", "Pipeline stopping due to context cancellation",
				"component", "pipeline")
			return nil

		case line, ok := <-lines:
			if !ok {
				if err := src.Err(); err != nil {
					return fmt.Errorf("input ended: %w", err)
				}
				p.logger.Debug("msg", "Input exhausted",
					"component", "pipeline",
					"total_lines", p.Stats.TotalLines.Load())
				return nil
			}

			if err := p.ProcessLine(line); err != nil {
				if errors.Is(err, syscall.EPIPE) {
					return fmt.Errorf("output closed: %w", err)
				}
				p.Stats.TotalErrors.Add(1)
				p.logger.Error("msg", "Failed to process line",
					"component", "pipeline",
					"error", err)
			}
		}
	}
}

// GetStats returns pipeline statistics
func (p *Pipeline) GetStats() map[string]any {
	var sourceStats map[string]any
	if src, ok := p.source.Load().(source.Source); ok {
		stats := src.GetStats()
		sourceStats = map[string]any{
			"type":           stats.Type,
			"total_lines":    stats.TotalLines,
			"total_bytes":    stats.TotalBytes,
			"start_time":     stats.StartTime,
			"last_line_time": stats.LastLineTime,
			"details":        stats.Details,
		}
	}

	sinkStats := make([]map[string]any, 0, len(p.Sinks))
	for _, s := range p.Sinks {
		stats := s.GetStats()
		sinkStats = append(sinkStats, map[string]any{
			"type":               stats.Type,
			"total_processed":    stats.TotalProcessed,
			"total_dropped":      stats.TotalDropped,
			"active_connections": stats.ActiveConnections,
			"start_time":         stats.StartTime,
			"last_processed":     stats.LastProcessed,
			"details":            stats.Details,
		})
	}

	return map[string]any{
		"uptime_seconds":  int(time.Since(p.Stats.StartTime).Seconds()),
		"total_lines":     p.Stats.TotalLines.Load(),
		"total_discarded": p.Stats.TotalDiscarded.Load(),
		"total_banners":   p.Stats.TotalBanners.Load(),
		"total_filtered":  p.Stats.TotalFiltered.Load(),
		"total_emitted":   p.Stats.TotalEmitted.Load(),
		"total_errors":    p.Stats.TotalErrors.Load(),
		"format":          p.Formatter.Name(),
		"source":          sourceStats,
		"classifier":      p.Classifier.GetStats(),
		"registry":        p.Registry.GetStats(),
		"filters":         p.FilterChain.GetStats(),
		"sinks":           sinkStats,
	}
}
