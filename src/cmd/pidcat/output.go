// FILE: pidcat/src/cmd/pidcat/output.go
package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/briandowns/spinner"
)

// statusOutput carries user-facing status text on stderr, since stdout is the
// log stream. Quiet mode hides progress and status; warnings and errors
// always show.
type statusOutput struct {
	quiet atomic.Bool
	mu    sync.Mutex
	w     io.Writer
}

var output = &statusOutput{w: os.Stderr}

func (o *statusOutput) write(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.w, format, args...)
}

// Print writes a status line unless quiet
func Print(format string, args ...any) {
	if !output.quiet.Load() {
		output.write(format, args...)
	}
}

// Warn writes a non-fatal problem, prefixed
func Warn(format string, args ...any) {
	output.write("Warning: "+format, args...)
}

// Error writes an error message
func Error(format string, args ...any) {
	output.write(format, args...)
}

// FatalError writes an error message and exits with code
func FatalError(code int, format string, args ...any) {
	Error(format, args...)
	os.Exit(code)
}

// newSpinner returns a spinner on stderr. It stays idle in quiet mode or
// when stderr is not a terminal.
func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(os.Stderr))
	s.Suffix = suffix
	if output.quiet.Load() {
		s.Disable()
	}
	return s
}
