// FILE: pidcat/src/internal/classify/rewrite.go
package classify

import (
	"strings"
	"unicode"

	"pidcat/src/internal/core"
	"pidcat/src/internal/pattern"
	"pidcat/src/internal/registry"
)

// Rewrite is a post-classification step that may modify a record in place.
// It reports whether it changed anything.
type Rewrite func(rec *core.Record, reg *registry.Registry) bool

// BacktraceOwner attributes native crash frames to the most recently started
// process. The debuggerd signal handler logs them under its own pid.
func BacktraceOwner(rec *core.Record, reg *registry.Registry) bool {
	if rec.Tag != core.BacktraceTag {
		return false
	}
	msg := strings.TrimLeftFunc(rec.Message, unicode.IsSpace)
	if !pattern.IsBacktrace(msg) {
		return false
	}
	rec.Message = msg
	rec.Owner = reg.LastAnnounced()
	return true
}
