package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultWorkerCount         = 5
	DefaultIsolatedWorkerCount = 1
	DefaultMisfireGrace        = 20 * time.Second
	DefaultMaxInstances        = 3

	moduleName = "adapters/scheduler"
)

var ErrSchedulerClosed = errors.New("scheduler is shut down")

type Options struct {
	// WorkerCount bounds concurrently running jobs, valid range 1-19.
	WorkerCount int
	// IsolatedPool enables a separate pool for jobs marked Isolated.
	IsolatedPool bool
	// IsolatedWorkerCount bounds the isolated pool, valid range 1-9.
	IsolatedWorkerCount int
	// MisfireGrace is how late a job may fire and still run.
	MisfireGrace time.Duration
	// MaxInstances caps concurrently running executions of one job id.
	MaxInstances int
	Clock        ports.Clock
	Logger       *slog.Logger
}

type entry struct {
	job   ports.ScheduledJob
	task  ports.Task
	timer *time.Timer
}

// Scheduler runs one-shot jobs keyed by id. The job table holds at most one
// pending entry per id; adding over a pending id requires Cancel or Reschedule.
type Scheduler struct {
	opts     Options
	logger   *slog.Logger
	pool     *semaphore.Weighted
	isolated *semaphore.Weighted

	mu      sync.Mutex
	jobs    map[string]*entry
	running map[string]int
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var (
	sharedOnce sync.Once
	shared     *Scheduler
)

// Shared returns the process-wide scheduler, building it on first use.
// Options passed after the first call are ignored.
func Shared(opts Options) *Scheduler {
	sharedOnce.Do(func() {
		shared = New(opts)
	})
	return shared
}

func New(opts Options) *Scheduler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts = normalize(opts, logger)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		opts:    opts,
		logger:  logger,
		pool:    semaphore.NewWeighted(int64(opts.WorkerCount)),
		jobs:    make(map[string]*entry),
		running: make(map[string]int),
		ctx:     ctx,
		cancel:  cancel,
	}
	if opts.IsolatedPool {
		s.isolated = semaphore.NewWeighted(int64(opts.IsolatedWorkerCount))
	}

	logger.Info("scheduler started",
		"event", "scheduler_started",
		"module", moduleName,
		"layer", "adapter",
		"workers", opts.WorkerCount,
		"isolated_pool", opts.IsolatedPool,
		"isolated_workers", opts.IsolatedWorkerCount,
		"misfire_grace", opts.MisfireGrace.String(),
		"max_instances", opts.MaxInstances,
	)
	return s
}

func normalize(opts Options, logger *slog.Logger) Options {
	if opts.WorkerCount <= 0 || opts.WorkerCount >= 20 {
		if opts.WorkerCount != 0 {
			logger.Warn("scheduler worker count out of range, using default",
				"event", "scheduler_worker_count_invalid",
				"module", moduleName,
				"layer", "adapter",
				"value", opts.WorkerCount,
			)
		}
		opts.WorkerCount = DefaultWorkerCount
	}
	if opts.IsolatedWorkerCount <= 0 || opts.IsolatedWorkerCount >= 10 {
		if opts.IsolatedWorkerCount != 0 {
			logger.Warn("scheduler isolated worker count out of range, using default",
				"event", "scheduler_isolated_worker_count_invalid",
				"module", moduleName,
				"layer", "adapter",
				"value", opts.IsolatedWorkerCount,
			)
		}
		opts.IsolatedWorkerCount = DefaultIsolatedWorkerCount
	}
	if opts.MisfireGrace <= 0 {
		opts.MisfireGrace = DefaultMisfireGrace
	}
	if opts.MaxInstances <= 0 {
		opts.MaxInstances = DefaultMaxInstances
	}
	if opts.Clock == nil {
		opts.Clock = wallClock{}
	}
	return opts
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (s *Scheduler) ScheduleAt(job ports.ScheduledJob, task ports.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSchedulerClosed
	}
	if _, ok := s.jobs[job.ID]; ok {
		return domain.ErrJobExists
	}
	s.add(job, task)
	return nil
}

// Reschedule replaces any pending job with the same id in one step.
func (s *Scheduler) Reschedule(job ports.ScheduledJob, task ports.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(job.ID)
	if !s.closed {
		s.add(job, task)
	}
}

func (s *Scheduler) Cancel(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remove(jobID)
}

func (s *Scheduler) Lookup(jobID string) (ports.ScheduledJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.jobs[jobID]
	if !ok {
		return ports.ScheduledJob{}, false
	}
	return e.job, true
}

// Pending lists pending jobs ordered by run time.
func (s *Scheduler) Pending() []ports.ScheduledJob {
	s.mu.Lock()
	jobs := make([]ports.ScheduledJob, 0, len(s.jobs))
	for _, e := range s.jobs {
		jobs = append(jobs, e.job)
	}
	s.mu.Unlock()

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].RunAt.Before(jobs[j].RunAt)
	})
	return jobs
}

// Shutdown drops pending jobs, cancels the context handed to running tasks
// and waits for them to return.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	for id, e := range s.jobs {
		e.timer.Stop()
		delete(s.jobs, id)
	}
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// add and remove expect s.mu to be held.
func (s *Scheduler) add(job ports.ScheduledJob, task ports.Task) {
	e := &entry{job: job, task: task}
	delay := job.RunAt.Sub(s.opts.Clock.Now())
	if delay < 0 {
		delay = 0
	}
	e.timer = time.AfterFunc(delay, func() { s.fire(e) })
	s.jobs[job.ID] = e

	s.logger.Info("job added",
		"event", "scheduler_job_added",
		"module", moduleName,
		"layer", "adapter",
		"job_id", job.ID,
		"job_name", job.Name,
		"run_at", job.RunAt,
		"isolated", job.Isolated,
	)
}

func (s *Scheduler) remove(jobID string) bool {
	e, ok := s.jobs[jobID]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.jobs, jobID)

	s.logger.Info("job removed",
		"event", "scheduler_job_removed",
		"module", moduleName,
		"layer", "adapter",
		"job_id", jobID,
		"job_name", e.job.Name,
	)
	return true
}

func (s *Scheduler) fire(e *entry) {
	s.mu.Lock()
	if current, ok := s.jobs[e.job.ID]; !ok || current != e {
		// cancelled or replaced after the timer went off
		s.mu.Unlock()
		return
	}
	delete(s.jobs, e.job.ID)

	late := s.opts.Clock.Now().Sub(e.job.RunAt)
	if late > s.opts.MisfireGrace {
		s.mu.Unlock()
		s.logger.Warn("job misfired",
			"event", "scheduler_job_misfired",
			"module", moduleName,
			"layer", "adapter",
			"job_id", e.job.ID,
			"job_name", e.job.Name,
			"late_by", late.String(),
		)
		return
	}

	if s.running[e.job.ID] >= s.opts.MaxInstances {
		s.mu.Unlock()
		s.logger.Warn("job skipped, maximum running instances reached",
			"event", "scheduler_job_max_instances",
			"module", moduleName,
			"layer", "adapter",
			"job_id", e.job.ID,
			"job_name", e.job.Name,
			"max_instances", s.opts.MaxInstances,
		)
		return
	}
	s.running[e.job.ID]++
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(e)
}

func (s *Scheduler) run(e *entry) {
	defer s.wg.Done()
	defer s.finish(e.job.ID)

	pool := s.pool
	if e.job.Isolated && s.isolated != nil {
		pool = s.isolated
	}
	if err := pool.Acquire(s.ctx, 1); err != nil {
		s.logger.Warn("job abandoned before start",
			"event", "scheduler_job_abandoned",
			"module", moduleName,
			"layer", "adapter",
			"job_id", e.job.ID,
			"job_name", e.job.Name,
			"error", err.Error(),
		)
		return
	}
	defer pool.Release(1)

	started := time.Now()
	if err := s.execute(e); err != nil {
		s.logger.Error("job failed",
			"event", "scheduler_job_failed",
			"module", moduleName,
			"layer", "adapter",
			"job_id", e.job.ID,
			"job_name", e.job.Name,
			"error", err.Error(),
		)
		return
	}
	s.logger.Info("job executed",
		"event", "scheduler_job_executed",
		"module", moduleName,
		"layer", "adapter",
		"job_id", e.job.ID,
		"job_name", e.job.Name,
		"duration", time.Since(started).String(),
	)
}

func (s *Scheduler) execute(e *entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return e.task(s.ctx)
}

func (s *Scheduler) finish(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running[jobID]--
	if s.running[jobID] <= 0 {
		delete(s.running, jobID)
	}
}
