// Package signals ties process shutdown signals to context cancellation.
// Cancelling the command context is the only way to abandon an in-flight export.
package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/endorses/pcapview/internal/pkg/constants"
	"github.com/endorses/pcapview/internal/pkg/logger"
)

var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

// SetupHandler sets up a signal handler that cancels the provided context on SIGINT, SIGTERM, or SIGHUP
// Returns a cleanup function that should be called when the signal handler is no longer needed
func SetupHandler(ctx context.Context, cancel context.CancelFunc) (cleanup func()) {
	return SetupHandlerWithCallback(ctx, cancel)
}

// SetupHandlerWithCallback calls onSignal on the first shutdown signal.
// The cleanup function stops signal delivery and waits for the handler goroutine.
func SetupHandlerWithCallback(ctx context.Context, onSignal func()) (cleanup func()) {
	sigCh := make(chan os.Signal, constants.SignalChannelBuffer)
	signal.Notify(sigCh, shutdownSignals...)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case sig := <-sigCh:
			logger.Info("Received signal, initiating shutdown", "signal", sig.String())
			onSignal()
		case <-ctx.Done():
		case <-stop:
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(stop)
		<-done
	}
}

// WithCancelOnSignal returns a child of parent that is cancelled on the first
// shutdown signal, and a function releasing both the context and the handler.
func WithCancelOnSignal(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	cleanup := SetupHandler(ctx, cancel)
	return ctx, func() {
		cleanup()
		cancel()
	}
}
