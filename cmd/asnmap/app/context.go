package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asnmap/asnmap/pkg/constants"
)

// ContextWithSignals creates a context that is cancelled when the application
// receives an interrupt or termination signal.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ShutdownContext returns a fresh context bounded by constants.ShutdownTimeout.
// It does not derive from the signal context, which may already be cancelled.
func ShutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), constants.ShutdownTimeout)
}
