// internal/app/system/tasks/runner.go
package tasks

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultWatchInterval is used by a Watch whose Interval is not positive.
const DefaultWatchInterval = 2 * time.Second

// Job is a periodic background task. It runs once at start and then on
// every Interval until the runner stops. A job with a non-positive
// Interval runs only once.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Outcome is how a Watch ended.
type Outcome int

const (
	// Found means Check reported done.
	Found Outcome = iota
	// Exhausted means MaxRuns checks ran without success.
	Exhausted
	// Cancelled means the runner stopped first.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Exhausted:
		return "exhausted"
	}
	return "cancelled"
}

// Watch is a short-lived poll: Check runs every Interval until it reports
// done, MaxRuns checks have run, or the runner stops. OnDone is called
// exactly once with the outcome.
type Watch struct {
	Name     string
	Interval time.Duration
	MaxRuns  int
	Check    func(ctx context.Context) (done bool, err error)
	OnDone   func(Outcome)
}

// Runner owns every background loop of the process. Stopping it is the
// teardown for periodic jobs and in-flight watches alike.
type Runner struct {
	logger   *zap.Logger
	jobs     []Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex // guards stopped and wg.Add against Stop
	stopped  bool
	running  atomic.Int32 // jobs and watch checks currently executing
	jobNames sync.Map     // names currently executing
}

// New creates a task runner.
func New(logger *zap.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds a job to the runner. Call before Start.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
}

// Start begins executing all registered jobs.
// Call Stop to gracefully shutdown.
func (r *Runner) Start() {
	for _, job := range r.jobs {
		if !r.add() {
			return
		}
		go r.runJob(r.ctx, job)
	}

	r.logger.Info("background task runner started",
		zap.Int("job_count", len(r.jobs)))
}

// Go runs fn once in the background under the runner's context, so the
// work is cancelled and waited for by Stop. It returns false when the
// runner has already been stopped, in which case fn does not run.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) bool {
	if !r.add() {
		return false
	}
	go func() {
		defer r.wg.Done()
		r.executeJob(r.ctx, name, fn)
	}()
	return true
}

// Watch starts a bounded poll. It returns false when the runner has
// already been stopped, in which case nothing runs.
func (r *Runner) Watch(w Watch) bool {
	if w.MaxRuns <= 0 {
		w.MaxRuns = 1
	}
	if w.Interval <= 0 {
		w.Interval = DefaultWatchInterval
	}
	if !r.add() {
		return false
	}
	go r.runWatch(r.ctx, w)
	return true
}

// add registers one goroutine with the wait group unless the runner has
// stopped. Stop flips stopped under the same lock, so nothing is added
// once it has started waiting.
func (r *Runner) add() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return false
	}
	r.wg.Add(1)
	return true
}

// Stop gracefully stops all running jobs within the given context's deadline.
// If ctx is cancelled before all jobs complete, it returns ctx.Err().
// Pass context.Background() for unlimited wait time.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("background task runner stopped gracefully")
		return nil
	case <-ctx.Done():
		var stillRunning []string
		r.jobNames.Range(func(key, _ any) bool {
			stillRunning = append(stillRunning, key.(string))
			return true
		})
		r.logger.Warn("background task runner shutdown timed out",
			zap.Strings("jobs_still_running", stillRunning),
			zap.Int32("running_count", r.running.Load()))
		return ctx.Err()
	}
}

// runJob executes a single job on its interval.
func (r *Runner) runJob(ctx context.Context, job Job) {
	defer r.wg.Done()

	r.executeJob(ctx, job.Name, func(ctx context.Context) error { return job.Run(ctx) })
	if job.Interval <= 0 {
		r.logger.Warn("job has no interval, ran once", zap.String("job", job.Name))
		return
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("job stopped", zap.String("job", job.Name))
			return
		case <-ticker.C:
			r.executeJob(ctx, job.Name, func(ctx context.Context) error { return job.Run(ctx) })
		}
	}
}

// runWatch polls w.Check until done, exhausted or cancelled.
func (r *Runner) runWatch(ctx context.Context, w Watch) {
	defer r.wg.Done()

	outcome := Cancelled
	defer func() {
		r.logger.Debug("watch finished",
			zap.String("watch", w.Name),
			zap.Stringer("outcome", outcome))
		if w.OnDone != nil {
			w.OnDone(outcome)
		}
	}()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for run := 1; run <= w.MaxRuns; run++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var done bool
		r.executeJob(ctx, w.Name, func(ctx context.Context) error {
			var err error
			done, err = w.Check(ctx)
			return err
		})
		if done {
			outcome = Found
			return
		}
	}
	outcome = Exhausted
}

// executeJob runs fn under name and logs the result.
func (r *Runner) executeJob(ctx context.Context, name string, fn func(ctx context.Context) error) {
	r.running.Add(1)
	r.jobNames.Store(name, struct{}{})
	defer func() {
		r.running.Add(-1)
		r.jobNames.Delete(name)
	}()

	start := time.Now()
	r.logger.Debug("job starting", zap.String("job", name))

	if err := fn(ctx); err != nil {
		// Don't log context cancellation as an error during shutdown
		if ctx.Err() != nil {
			r.logger.Debug("job cancelled during shutdown",
				zap.String("job", name),
				zap.Duration("duration", time.Since(start)))
			return
		}
		r.logger.Error("job failed",
			zap.String("job", name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}

	r.logger.Debug("job completed",
		zap.String("job", name),
		zap.Duration("duration", time.Since(start)))
}

// RunOnce executes a job immediately (useful for testing or manual triggers).
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			return job.Run(ctx)
		}
	}
	return nil
}
