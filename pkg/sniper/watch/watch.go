// Package watch re-runs a job on a cron schedule.
package watch

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled refresh.
type Job func(ctx context.Context) error

// Watcher runs jobs on six-field (seconds first) cron schedules.
// A run that is still in progress when its next tick fires is skipped.
type Watcher struct {
	cron   *cron.Cron
	ctx    context.Context
	logger *zap.Logger
}

func New(ctx context.Context, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:    ctx,
		logger: logger,
	}
}

// Add registers job under name for spec.
func (w *Watcher) Add(name, spec string, job Job) error {
	_, err := w.cron.AddFunc(spec, func() { w.run(name, job) })
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	return nil
}

// RunNow executes job immediately on the caller's goroutine.
func (w *Watcher) RunNow(name string, job Job) {
	w.run(name, job)
}

func (w *Watcher) run(name string, job Job) {
	if err := w.ctx.Err(); err != nil {
		return
	}
	if err := job(w.ctx); err != nil {
		w.logger.Error("watch job failed", zap.String("job", name), zap.Error(err))
		return
	}
	w.logger.Debug("watch job done", zap.String("job", name))
}

func (w *Watcher) Start() {
	w.cron.Start()
	w.logger.Info("watcher started", zap.Int("jobs", len(w.cron.Entries())))
}

// Stop stops scheduling and waits for running jobs to finish.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
	w.logger.Info("watcher stopped")
}

// Serialized wraps a job so concurrent callers run it one at a time.
func Serialized(job Job) Job {
	var mu sync.Mutex
	return func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		return job(ctx)
	}
}
