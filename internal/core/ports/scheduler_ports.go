package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type Task func(ctx context.Context) error

type ScheduledJob struct {
	ID    string
	Name  string
	RunAt time.Time
	// Isolated routes the job to the separate pool reserved for heavier work.
	Isolated bool
}

// JobScheduler keeps at most one pending one-shot job per id.
type JobScheduler interface {
	// ScheduleAt fails with domain.ErrJobExists while a job with the same id is pending.
	ScheduleAt(job ScheduledJob, task Task) error
	Reschedule(job ScheduledJob, task Task)
	Cancel(jobID string) bool
	Lookup(jobID string) (ScheduledJob, bool)
}
