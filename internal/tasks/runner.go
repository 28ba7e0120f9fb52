package tasks

import (
	"context"
	"log/slog"
	"sync"
)

// Runner executes detached fire-and-forget tasks.
//
// Tasks run on a background context, not the submitting request's, so an HTTP
// response completing never cancels the work it triggered. Task failures and
// panics are logged and never propagate to the submitter.
type Runner struct {
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewRunner creates a new background task runner.
func NewRunner() *Runner {
	return &Runner{logger: slog.Default()}
}

// Submit dispatches fn on its own goroutine and returns immediately.
func (r *Runner) Submit(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("background task panicked", "task", name, "panic", rec)
			}
		}()

		if err := fn(context.Background()); err != nil {
			r.logger.Error("background task failed", "task", name, "error", err)
			return
		}
		r.logger.Debug("background task completed", "task", name)
	}()
}

// Wait blocks until all submitted tasks finish. Used on shutdown and in tests.
func (r *Runner) Wait() {
	r.wg.Wait()
}
