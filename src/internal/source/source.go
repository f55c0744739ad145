// FILE: pidcat/src/internal/source/source.go
package source

import (
	"time"
)

// Source is a line-oriented input stream. Lines arrive in read order and are
// never dropped; the reader blocks until the consumer takes each one.
type Source interface {
	// Lines returns the channel of raw lines. It is closed at end of input
	// or after Stop.
	Lines() <-chan string

	// Start begins reading from the source
	Start() error

	// Err returns the read error that ended the stream, if any. It is only
	// meaningful after Lines is closed.
	Err() error

	// Stop shuts the source down and releases its resources
	Stop()

	// GetStats returns source statistics
	GetStats() SourceStats
}

// SourceStats contains statistics about a source
type SourceStats struct {
	Type         string
	TotalLines   uint64
	TotalBytes   uint64
	StartTime    time.Time
	LastLineTime time.Time
	Details      map[string]any
}
