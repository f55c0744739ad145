// FILE: pidcat/src/internal/source/process.go
package source

import (
	"fmt"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/log"
)

const exitWaitTimeout = 2 * time.Second

// ProcessSource reads the standard output of a child process, such as
// `adb logcat`. The child is killed on Stop.
type ProcessSource struct {
	*ReaderSource
	cmd     *exec.Cmd
	exited  chan struct{}
	waitErr error
	stopped atomic.Bool
}

// NewProcessSource prepares cmd for reading. The command is not started
// until Start.
func NewProcessSource(cmd *exec.Cmd, bufferSize int, logger *log.Logger) (*ProcessSource, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to attach to process output: %w", err)
	}

	return &ProcessSource{
		ReaderSource: NewReaderSource("process", stdout, bufferSize, logger),
		cmd:          cmd,
		exited:       make(chan struct{}),
	}, nil
}

// Start launches the child process and the read loop
func (s *ProcessSource) Start() error {
	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", s.command(), err)
	}

	if err := s.ReaderSource.Start(); err != nil {
		return err
	}

	// Wait only after the pipe is drained
	go func() {
		<-s.ReaderSource.Done()
		s.waitErr = s.cmd.Wait()
		close(s.exited)
	}()

	s.logger.Info("msg", "Process source started",
		"component", "process_source",
		"command", s.command(),
		"pid", s.cmd.Process.Pid)
	return nil
}

// Err reports a read failure or an abnormal exit of the child. An exit
// caused by Stop is not an error.
func (s *ProcessSource) Err() error {
	if err := s.ReaderSource.Err(); err != nil {
		return err
	}

	select {
	case <-s.exited:
	case <-time.After(exitWaitTimeout):
		return nil
	}

	if s.waitErr != nil && !s.stopped.Load() {
		return fmt.Errorf("%s exited: %w", s.command(), s.waitErr)
	}
	return nil
}

// Stop kills the child process and ends the read loop
func (s *ProcessSource) Stop() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	if s.cmd.Process != nil {
		if err := s.cmd.Process.Kill(); err != nil {
			s.logger.Debug("msg", "Failed to kill process",
				"component", "process_source",
				"error", err)
		}
	}
	s.ReaderSource.Stop()
}

// GetStats returns source statistics including the command line
func (s *ProcessSource) GetStats() SourceStats {
	stats := s.ReaderSource.GetStats()
	stats.Details["command"] = s.command()
	return stats
}

func (s *ProcessSource) command() string {
	return strings.Join(s.cmd.Args, " ")
}
