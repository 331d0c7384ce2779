package cleanup

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/klothoplatform/stackquery/pkg/multierr"
	"go.uber.org/zap"
)

// Callback runs once when the process receives a termination signal.
type Callback func(signal syscall.Signal) error

var (
	mu        sync.Mutex
	callbacks []Callback
)

func OnKill(callback Callback) {
	mu.Lock()
	defer mu.Unlock()
	callbacks = append(callbacks, callback)
}

// Execute runs every registered callback, even when earlier ones fail.
func Execute(signal syscall.Signal) error {
	mu.Lock()
	cbs := make([]Callback, len(callbacks))
	copy(cbs, callbacks)
	mu.Unlock()

	var merr multierr.Error
	for _, cb := range cbs {
		merr.Append(cb(signal))
	}
	return merr.ErrOrNil()
}

// InitializeHandler returns a context that is cancelled after the first SIGTERM, SIGINT or SIGQUIT
// once the callbacks have run. A second signal exits immediately.
func InitializeHandler(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		var sig os.Signal
		select {
		case sig = <-sigCh:
		case <-ctx.Done():
			signal.Stop(sigCh)
			return
		}
		zap.S().Infof("Received signal: %v", sig)
		if err := Execute(sig.(syscall.Signal)); err != nil {
			zap.S().Errorf("Error executing cleanup: %v", err)
		}
		cancel()

		sig = <-sigCh
		zap.S().Warnf("Received second signal %v, exiting", sig)
		os.Exit(1)
	}()
	return ctx
}
