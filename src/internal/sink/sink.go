// FILE: pidcat/src/internal/sink/sink.go
package sink

import (
	"context"
	"time"
)

// Sink is an output destination for rendered chunks. Write is called from the
// pipeline loop, once per chunk, in output order.
type Sink interface {
	// Write delivers one chunk. Implementations must not retain chunk.
	Write(chunk []byte) error

	// Start begins processing
	Start(ctx context.Context) error

	// Stop gracefully shuts down the sink
	Stop()

	// GetStats returns sink statistics
	GetStats() SinkStats
}

// SinkStats contains statistics about a sink
type SinkStats struct {
	Type              string
	TotalProcessed    uint64
	TotalDropped      uint64
	ActiveConnections int64
	StartTime         time.Time
	LastProcessed     time.Time
	Details           map[string]any
}
