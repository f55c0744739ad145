// FILE: pidcat/src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"

	"pidcat/src/internal/core"

	"github.com/lixenwraith/log"
)

const (
	eventRecord         = "record"
	eventProcessStarted = "process_started"
	eventProcessEnded   = "process_ended"
)

type jsonRecord struct {
	Event string `json:"event"`
	core.Record
	Level string `json:"level"`
}

type jsonBanner struct {
	Event string `json:"event"`
	core.Banner
}

// JSONFormatter produces one JSON object per record or banner.
type JSONFormatter struct {
	pretty bool
	logger *log.Logger
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts Options, logger *log.Logger) *JSONFormatter {
	return &JSONFormatter{
		pretty: opts.Pretty,
		logger: logger,
	}
}

// FormatRecord transforms a record into a JSON line.
func (f *JSONFormatter) FormatRecord(rec core.Record) ([]byte, error) {
	return f.marshal(jsonRecord{Event: eventRecord, Record: rec, Level: rec.Level.String()})
}

// FormatBanner transforms a lifecycle banner into a JSON line.
func (f *JSONFormatter) FormatBanner(b core.Banner) ([]byte, error) {
	event := eventProcessStarted
	switch b.Kind {
	case core.BannerStarted:
	case core.BannerEnded:
		event = eventProcessEnded
	default:
		return nil, fmt.Errorf("unknown banner kind: %d", b.Kind)
	}
	return f.marshal(jsonBanner{Event: event, Banner: b})
}

func (f *JSONFormatter) marshal(v any) ([]byte, error) {
	var result []byte
	var err error
	if f.pretty {
		result, err = json.MarshalIndent(v, "", "  ")
	} else {
		result, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	// Add newline
	return append(result, '\n'), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}
