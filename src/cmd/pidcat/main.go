// FILE: pidcat/src/cmd/pidcat/main.go
package main

import (
	"errors"
	"os"
	"time"

	"github.com/lixenwraith/log"
)

var logger *log.Logger

// exitError carries a process exit code through cobra's error return
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{code: 2, err: err}
}

func main() {
	err := newRootCommand().Execute()
	shutdownLogger()

	if err != nil {
		code := 1
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			code = exitErr.code
		}
		FatalError(code, "Error: %v\n", err)
	}
	os.Exit(0)
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			// Best effort - can't log the shutdown error
			Error("Logger shutdown error: %v\n", err)
		}
	}
}
