// FILE: pidcat/src/internal/service/service.go
package service

import (
	"context"
	"fmt"
	"sync"

	"pidcat/src/internal/source"

	"github.com/lixenwraith/log"
)

// Service owns the lifecycle of a pipeline, its sinks and its input source.
type Service struct {
	pipeline *Pipeline
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *log.Logger

	mu     sync.Mutex
	source source.Source
	done   bool
}

// NewService wraps a pipeline. Cancelling ctx stops Run.
func NewService(ctx context.Context, pipeline *Pipeline, logger *log.Logger) *Service {
	serviceCtx, cancel := context.WithCancel(ctx)
	return &Service{
		pipeline: pipeline,
		ctx:      serviceCtx,
		cancel:   cancel,
		logger:   logger,
	}
}

// Run starts the sinks and src, then blocks processing lines until input ends
// or the service is cancelled. Everything is shut down before it returns.
func (s *Service) Run(src source.Source) error {
	defer s.Shutdown()

	for i, sinkInst := range s.pipeline.Sinks {
		if err := sinkInst.Start(s.ctx); err != nil {
			return fmt.Errorf("failed to start sink[%d]: %w", i, err)
		}
	}

	s.mu.Lock()
	s.source = src
	s.mu.Unlock()

	if err := src.Start(); err != nil {
		return fmt.Errorf("failed to start source: %w", err)
	}

	return s.pipeline.Run(s.ctx, src)
}

// Shutdown stops the source and sinks. It is safe to call more than once.
func (s *Service) Shutdown() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	src := s.source
	s.mu.Unlock()

	s.logger.Info("msg", "Service shutdown initiated", "component", "service")
	s.cancel()

	if src != nil {
		src.Stop()
	}

	// Stop all sinks concurrently
	var wg sync.WaitGroup
	for _, sinkInst := range s.pipeline.Sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sinkInst.Stop()
		}()
	}
	wg.Wait()

	s.logger.Debug("msg", "Final statistics",
		"component", "service",
		"stats", s.pipeline.GetStats())
	s.logger.Info("msg", "Service shutdown complete", "component", "service")
}
