package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Job is a periodic background task. Timeout bounds a single run and
// defaults to Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

func (j Job) timeout() time.Duration {
	if j.Timeout > 0 {
		return j.Timeout
	}
	return j.Interval
}

// jobState tracks one registered job across runs.
type jobState struct {
	Job
	logger   *slog.Logger
	runs     int
	failures int
}

// Scheduler runs registered jobs on their own tickers until its context ends.
type Scheduler struct {
	jobs     []*jobState
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	stopOnce sync.Once
}

// NewScheduler creates a scheduler whose jobs stop when parent is done or
// Stop is called.
func NewScheduler(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers job. Jobs added after Start are not run.
func (s *Scheduler) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := slog.With("job", job.Name)
	s.jobs = append(s.jobs, &jobState{Job: job, logger: logger})
	logger.Info("Cron job registered", "interval", job.Interval, "timeout", job.timeout())
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels all jobs and waits for in-flight runs. Safe to call twice.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		slog.Info("Stopping cron scheduler...")
		s.cancel()
		s.wg.Wait()
		slog.Info("Cron scheduler stopped")
	})
}

func (s *Scheduler) loop(job *jobState) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.execute(s.ctx, job)

	for {
		select {
		case <-s.ctx.Done():
			job.logger.Info("Cron job stopping", "runs", job.runs)
			return
		case <-ticker.C:
			s.execute(s.ctx, job)
		}
	}
}

// execute runs job once. Each job is driven by a single goroutine, so its
// counters need no lock.
func (s *Scheduler) execute(parent context.Context, job *jobState) error {
	ctx, cancel := context.WithTimeout(parent, job.timeout())
	defer cancel()

	job.runs++
	start := time.Now()
	err := job.Run(ctx)
	if err != nil {
		job.failures++
		job.logger.Error("Cron job failed",
			"run", job.runs,
			"consecutive_failures", job.failures,
			"duration", time.Since(start),
			"error", err,
		)
		return fmt.Errorf("%s: %w", job.Name, err)
	}

	if job.failures > 0 {
		job.logger.Info("Cron job recovered", "run", job.runs, "after_failures", job.failures)
	}
	job.failures = 0
	job.logger.Debug("Cron job completed", "run", job.runs, "duration", time.Since(start))
	return nil
}

// RunOnce runs every job synchronously and joins their errors. It must not be
// used while the scheduler is started.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, job := range s.jobs {
		if err := s.execute(ctx, job); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
