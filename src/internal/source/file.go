// FILE: pidcat/src/internal/source/file.go
package source

import (
	"fmt"
	"os"

	"github.com/lixenwraith/log"
)

// FileSource replays a saved logcat capture.
type FileSource struct {
	*ReaderSource
	path string
	file *os.File
}

// NewFileSource opens path for reading. The file is closed on Stop.
func NewFileSource(path string, bufferSize int, logger *log.Logger) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	return &FileSource{
		ReaderSource: NewReaderSource("file", f, bufferSize, logger),
		path:         path,
		file:         f,
	}, nil
}

// Stop ends the read loop and closes the file
func (s *FileSource) Stop() {
	s.ReaderSource.Stop()
	if err := s.file.Close(); err != nil {
		s.logger.Debug("msg", "Failed to close input file",
			"component", "file_source",
			"path", s.path,
			"error", err)
	}
}

// GetStats returns source statistics including the file path
func (s *FileSource) GetStats() SourceStats {
	stats := s.ReaderSource.GetStats()
	stats.Details["path"] = s.path
	return stats
}
