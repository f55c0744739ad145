// FILE: pidcat/src/internal/pattern/pattern.go
package pattern

import (
	"regexp"
	"strings"

	"pidcat/src/internal/core"
)

// noiseMarker identifies a known tooling bug that floods logcat with junk.
const noiseMarker = "nativeGetEnabledTags"

var (
	logLine      = regexp.MustCompile(`^([A-Z])/(.+?)\(\s*(\d+)\s*\): (.*?)$`)
	snapshotLine = regexp.MustCompile(`^\w+\s+(\w+)\s+.*?\s([\w|\.|\/]+)$`)
	backtrace    = regexp.MustCompile(`^#(.*?)pc\s(.*?)$`)
	currentApp   = regexp.MustCompile(`.*TaskRecord.*A[= ]([^ ^}]*)`)
)

// IsNoise reports whether a raw line carries the noise marker and must be
// dropped before any other processing.
func IsNoise(line string) bool {
	return strings.Contains(line, noiseMarker)
}

// ParseLogLine splits a brief-format line into a record. The tag is trimmed.
func ParseLogLine(line string) (core.Record, bool) {
	m := logLine.FindStringSubmatch(line)
	if m == nil {
		return core.Record{}, false
	}
	return core.Record{
		Level:   core.Level(m[1][0]),
		Tag:     strings.TrimSpace(m[2]),
		Owner:   m[3],
		Message: m[4],
	}, true
}

// ParseSnapshotLine extracts pid and process name from one line of `ps` output.
func ParseSnapshotLine(line string) (pid, name string, ok bool) {
	m := snapshotLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// IsBacktrace reports whether an already left-trimmed message is a native
// stack frame.
func IsBacktrace(message string) bool {
	return backtrace.MatchString(message)
}

// ParseCurrentApp finds the package of the top task in `dumpsys activity
// activities` output.
func ParseCurrentApp(dump string) (string, bool) {
	m := currentApp.FindStringSubmatch(dump)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}
