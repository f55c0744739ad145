// FILE: pidcat/src/internal/format/format.go
package format

import (
	"fmt"

	"pidcat/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/muesli/termenv"
)

// Formatter defines the interface for turning records and banners into
// output chunks. Every chunk ends with a newline.
type Formatter interface {
	// FormatRecord renders one passed record.
	FormatRecord(rec core.Record) ([]byte, error)

	// FormatBanner renders a lifecycle announcement.
	FormatBanner(b core.Banner) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// Options configures the formatters. Fields irrelevant to a formatter are ignored.
type Options struct {
	TagWidth       int
	AlwaysShowTags bool
	ColorGC        bool
	// Width is the terminal width in columns, <= 0 when unknown.
	Width int
	// Profile selects escape sequences for the color formatter. termenv.Ascii
	// produces plain text with the same layout.
	Profile termenv.Profile
	Pretty  bool
}

// Names lists the supported formatter types.
var Names = []string{"color", "raw", "json"}

// NewFormatter creates a new Formatter based on the provided configuration.
func NewFormatter(name string, opts Options, logger *log.Logger) (Formatter, error) {
	// Default to color if no format specified
	if name == "" {
		name = "color"
	}

	switch name {
	case "color":
		return NewColorFormatter(opts, logger), nil
	case "raw":
		return NewRawFormatter(opts, logger), nil
	case "json":
		return NewJSONFormatter(opts, logger), nil
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}
