// FILE: pidcat/src/internal/format/raw.go
package format

import (
	"fmt"

	"pidcat/src/internal/core"

	"github.com/lixenwraith/log"
)

// RawFormatter re-emits records in logcat brief format without color, for
// piping into other tools.
type RawFormatter struct {
	logger *log.Logger
}

// NewRawFormatter creates a new raw formatter
func NewRawFormatter(opts Options, logger *log.Logger) *RawFormatter {
	return &RawFormatter{
		logger: logger,
	}
}

// FormatRecord returns the record as a brief-format line
func (f *RawFormatter) FormatRecord(rec core.Record) ([]byte, error) {
	return fmt.Appendf(nil, "%s/%s(%5s): %s\n", rec.Level, rec.Tag, rec.Owner, rec.Message), nil
}

// FormatBanner returns a one-line plain text announcement
func (f *RawFormatter) FormatBanner(b core.Banner) ([]byte, error) {
	switch b.Kind {
	case core.BannerStarted:
		return fmt.Appendf(nil, "--- Process %s created for %s (PID: %s UID: %s GIDs: %s)\n",
			b.Package, b.Target, b.PID, b.UID, b.GIDs), nil
	case core.BannerEnded:
		return fmt.Appendf(nil, "--- Process %s (PID: %s) ended\n", b.Package, b.PID), nil
	default:
		return nil, fmt.Errorf("unknown banner kind: %d", b.Kind)
	}
}

// Returns the formatter name
func (f *RawFormatter) Name() string {
	return "raw"
}
