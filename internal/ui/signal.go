package ui

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
)

// ErrInterrupted は Ctrl+C で中断されたことを表す
var ErrInterrupted = errors.New("interrupted")

// WithInterruptHandler は fn を実行し、先に SIGINT / SIGTERM を受けた場合は
// cleanup を呼んで ErrInterrupted を返す
func WithInterruptHandler(fn func() error, cleanup func()) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if cleanup != nil {
			cleanup()
		}
		return ErrInterrupted
	}
}
