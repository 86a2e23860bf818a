// Package signal carries OS signals through context cancellation so child processes
// can be interrupted the same way casper was.
package signal

import (
	"context"
	"os"
	"os/signal"
)

// ContextCanceledError is used as the cancel cause when casper receives a signal.
type ContextCanceledError struct {
	Signal os.Signal
}

// NewContextCanceledError returns a new `ContextCanceledError` instance.
func NewContextCanceledError(sig os.Signal) *ContextCanceledError {
	return &ContextCanceledError{Signal: sig}
}

// Error implements the `Error` method.
func (ContextCanceledError) Error() string {
	return context.Canceled.Error()
}

// Unwrap implements the `Unwrap` method.
func (ContextCanceledError) Unwrap() error {
	return context.Canceled
}

// NotifyContext returns a copy of ctx that is canceled, with a `ContextCanceledError` cause,
// when one of the interrupt signals arrives. The returned stop function releases the signal handler.
func NotifyContext(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, InterruptSignals...)

	go func() {
		select {
		case sig := <-sigCh:
			cancel(NewContextCanceledError(sig))
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel(nil)
	}
}
