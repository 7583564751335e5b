package app

import (
	"context"
	"errors"
)

// Start runs the frame loop on its own goroutine. Frames pushed to Frames,
// timer callbacks and control calls are all handled there, one at a time.
// Starting a running App does nothing.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return
	}
	ctx, a.cancel = context.WithCancel(ctx)
	a.done = make(chan struct{})
	go a.runPipeline(ctx, a.done)
	a.log.Info("frame loop starting", "views", len(a.config.Settings.Views))
}

// runPipeline drives the tracker until ctx is done.
func (a *App) runPipeline(ctx context.Context, done chan struct{}) {
	defer close(done)
	if err := a.tracker.Run(ctx, a.frames); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Error("frame loop failed", "error", err)
	}
}

// Wait blocks until the frame loop has exited.
func (a *App) Wait() {
	a.mu.RLock()
	done := a.done
	a.mu.RUnlock()
	if done != nil {
		<-done
	}
}

// Stop halts the frame loop and releases listeners, timers and the overlay.
// The App cannot be restarted afterwards. Only the first call has an effect.
func (a *App) Stop() {
	a.stopOnce.Do(a.stop)
}

func (a *App) stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	if a.timers != nil {
		a.timers.Close()
	}
	if a.dispose != nil {
		a.dispose()
	}
	a.tracker.Close()

	if a.overlay != nil {
		if err := a.overlay.Close(); err != nil {
			a.log.Error("failed to close overlay", "error", err)
		}
		a.overlay = nil
	}
	a.log.Info("frame loop stopped")
}
