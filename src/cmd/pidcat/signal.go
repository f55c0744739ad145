// FILE: pidcat/src/cmd/pidcat/signal.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// signalContext is cancelled on SIGINT or SIGTERM. SIGPIPE is caught so a
// closed stdout surfaces as EPIPE from Write instead of killing the process.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	sigpipe := make(chan os.Signal, 1)
	signal.Notify(sigpipe, syscall.SIGPIPE)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stop()
		signal.Stop(sigpipe)
	}
}
