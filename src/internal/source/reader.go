// FILE: pidcat/src/internal/source/reader.go
package source

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/log"
)

const (
	defaultBufferSize = 256
	readBufferSize    = 64 * 1024
	// Longer lines are dropped whole and counted; reading continues.
	maxLineSize = 1024 * 1024
)

// ReaderSource reads newline-delimited lines from any io.Reader.
type ReaderSource struct {
	name     string
	reader   io.Reader
	lines    chan string
	done     chan struct{}
	stopOnce sync.Once
	finished chan struct{}
	err      error
	logger   *log.Logger

	// Statistics
	totalLines   atomic.Uint64
	totalBytes   atomic.Uint64
	totalLong    atomic.Uint64
	startTime    time.Time
	lastLineTime atomic.Value // time.Time
}

// NewReaderSource wraps r. bufferSize bounds how far the reader may run ahead
// of the consumer; values <= 0 select the default.
func NewReaderSource(name string, r io.Reader, bufferSize int, logger *log.Logger) *ReaderSource {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	s := &ReaderSource{
		name:     name,
		reader:   r,
		lines:    make(chan string, bufferSize),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		logger:   logger,
	}
	s.lastLineTime.Store(time.Time{})
	return s
}

// Lines returns the line channel
func (s *ReaderSource) Lines() <-chan string {
	return s.lines
}

// Start launches the read loop
func (s *ReaderSource) Start() error {
	s.startTime = time.Now()
	go s.readLoop()
	s.logger.Info("msg", "Source started",
		"component", "source",
		"type", s.name)
	return nil
}

// Err returns the error that ended the read loop
func (s *ReaderSource) Err() error {
	select {
	case <-s.finished:
		return s.err
	default:
		return nil
	}
}

// Stop signals the read loop to exit. A read blocked in the underlying
// reader returns only when that reader is closed or yields data.
func (s *ReaderSource) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.logger.Info("msg", "Source stopped",
			"component", "source",
			"type", s.name)
	})
}

// Done is closed once the read loop has exited.
func (s *ReaderSource) Done() <-chan struct{} {
	return s.finished
}

// GetStats returns source statistics
func (s *ReaderSource) GetStats() SourceStats {
	lastLine, _ := s.lastLineTime.Load().(time.Time)

	return SourceStats{
		Type:         s.name,
		TotalLines:   s.totalLines.Load(),
		TotalBytes:   s.totalBytes.Load(),
		StartTime:    s.startTime,
		LastLineTime: lastLine,
		Details: map[string]any{
			"dropped_oversize": s.totalLong.Load(),
		},
	}
}

func (s *ReaderSource) readLoop() {
	defer close(s.lines)
	defer close(s.finished)

	reader := bufio.NewReaderSize(s.reader, readBufferSize)
	var buf []byte
	oversize := false

	for {
		frag, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				return
			}
			select {
			case <-s.done:
				// Reader closed underneath us during shutdown
				return
			default:
			}
			s.err = fmt.Errorf("%s read: %w", s.name, err)
			s.logger.Error("msg", "Error reading source",
				"component", "source",
				"type", s.name,
				"error", err)
			return
		}

		s.totalBytes.Add(uint64(len(frag)))
		if !oversize {
			if len(buf)+len(frag) > maxLineSize {
				oversize = true
				buf = buf[:0]
			} else {
				buf = append(buf, frag...)
			}
		}
		if isPrefix {
			continue
		}
		s.totalBytes.Add(1)

		if oversize {
			oversize = false
			s.totalLong.Add(1)
			s.logger.Warn("msg", "Dropped oversize line",
				"component", "source",
				"type", s.name,
				"limit_bytes", maxLineSize)
			continue
		}

		line := string(buf)
		buf = buf[:0]
		s.totalLines.Add(1)
		s.lastLineTime.Store(time.Now())

		select {
		case s.lines <- line:
		case <-s.done:
			return
		}
	}
}
