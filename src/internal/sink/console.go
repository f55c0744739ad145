// FILE: pidcat/src/internal/sink/console.go
package sink

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/log"
)

// ConsoleSink writes chunks straight to a terminal stream. There is no
// buffering: every chunk is visible as soon as Write returns.
type ConsoleSink struct {
	target    string
	output    io.Writer
	mu        sync.Mutex
	startTime time.Time
	logger    *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalErrors    atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// NewConsoleSink creates a sink writing to w. target names the stream for
// statistics ("stdout").
func NewConsoleSink(target string, w io.Writer, logger *log.Logger) *ConsoleSink {
	s := &ConsoleSink{
		target:    target,
		output:    w,
		startTime: time.Now(),
		logger:    logger,
	}
	s.lastProcessed.Store(time.Time{})
	return s
}

// Write outputs one chunk
func (s *ConsoleSink) Write(chunk []byte) error {
	s.mu.Lock()
	_, err := s.output.Write(chunk)
	s.mu.Unlock()

	if err != nil {
		s.totalErrors.Add(1)
		return fmt.Errorf("%s write: %w", s.target, err)
	}
	s.totalProcessed.Add(1)
	s.lastProcessed.Store(time.Now())
	return nil
}

func (s *ConsoleSink) Start(ctx context.Context) error {
	s.logger.Info("msg", "Console sink started",
		"component", "console_sink",
		"target", s.target)
	return nil
}

func (s *ConsoleSink) Stop() {
	s.logger.Info("msg", "Console sink stopped",
		"component", "console_sink",
		"target", s.target)
}

func (s *ConsoleSink) GetStats() SinkStats {
	lastProc, _ := s.lastProcessed.Load().(time.Time)

	return SinkStats{
		Type:           "console",
		TotalProcessed: s.totalProcessed.Load(),
		StartTime:      s.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"target":       s.target,
			"total_errors": s.totalErrors.Load(),
		},
	}
}
