package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/voting/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

var errStorageDown = errors.New("storage unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeJob struct {
	job  ports.ScheduledJob
	task ports.Task
}

// fakeScheduler records the job table and runs tasks only when told to.
type fakeScheduler struct {
	mu   sync.Mutex
	jobs map[string]fakeJob
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{jobs: make(map[string]fakeJob)}
}

func (s *fakeScheduler) ScheduleAt(job ports.ScheduledJob, task ports.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; ok {
		return domain.ErrJobExists
	}
	s.jobs[job.ID] = fakeJob{job: job, task: task}
	return nil
}

func (s *fakeScheduler) Reschedule(job ports.ScheduledJob, task ports.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = fakeJob{job: job, task: task}
}

func (s *fakeScheduler) Cancel(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[jobID]
	delete(s.jobs, jobID)
	return ok
}

func (s *fakeScheduler) Lookup(jobID string) (ports.ScheduledJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	return j.job, ok
}

func (s *fakeScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *fakeScheduler) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Fire removes the pending job and runs its task, the way the real
// scheduler hands a due job to a worker.
func (s *fakeScheduler) Fire(t *testing.T, jobID string) error {
	t.Helper()
	s.mu.Lock()
	j, ok := s.jobs[jobID]
	delete(s.jobs, jobID)
	s.mu.Unlock()
	require.True(t, ok, "no pending job %s", jobID)
	return j.task(context.Background())
}

// Take removes the pending job and hands its task back without running it,
// leaving the caller to run it after the job table has moved on.
func (s *fakeScheduler) Take(t *testing.T, jobID string) ports.Task {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	require.True(t, ok, "no pending job %s", jobID)
	delete(s.jobs, jobID)
	return j.task
}

// flakyVotings fails the next failures status writes before delegating.
type flakyVotings struct {
	ports.VotingRepository

	mu       sync.Mutex
	failures int
	attempts int
	writes   map[domain.VotingStatus]int
}

func (r *flakyVotings) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VotingStatus) error {
	r.mu.Lock()
	r.attempts++
	if r.failures > 0 {
		r.failures--
		r.mu.Unlock()
		return errStorageDown
	}
	r.mu.Unlock()

	if err := r.VotingRepository.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writes == nil {
		r.writes = make(map[domain.VotingStatus]int)
	}
	r.writes[status]++
	return nil
}

// Writes counts the successful status writes of one status.
func (r *flakyVotings) Writes(status domain.VotingStatus) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes[status]
}

func (r *flakyVotings) SetFailures(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = n
	r.attempts = 0
}

func (r *flakyVotings) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

type recordingReports struct {
	mu      sync.Mutex
	reports []uuid.UUID
}

func (r *recordingReports) GenerateReport(_ context.Context, voting *domain.Voting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, voting.ID)
	return nil
}

type lifecycleFixture struct {
	store     *memory.Store
	votings   *flakyVotings
	clock     *fakeClock
	scheduler *fakeScheduler
	reports   *recordingReports
	lifecycle *LifecycleService
}

func newLifecycleFixture(t *testing.T, now time.Time) *lifecycleFixture {
	t.Helper()
	store := memory.NewStore()
	f := &lifecycleFixture{
		store:     store,
		votings:   &flakyVotings{VotingRepository: store},
		clock:     newFakeClock(now),
		scheduler: newFakeScheduler(),
		reports:   &recordingReports{},
	}
	updater := NewStatusUpdater(f.votings, 2, 0, discardLogger())
	f.lifecycle = NewLifecycleService(f.votings, f.scheduler, updater, f.reports, f.clock, LifecycleConfig{
		GenerateReportOnClose: true,
	}, discardLogger())
	return f
}

func (f *lifecycleFixture) addCandidate(t *testing.T, lastName string) *domain.Candidate {
	t.Helper()
	c := &domain.Candidate{
		ID:         uuid.New(),
		LastName:   lastName,
		FirstName:  "Anna",
		MiddleName: "Sergeevna",
		Age:        35,
		Photo:      domain.DefaultCandidatePhoto,
	}
	require.NoError(t, f.store.Candidates().Save(context.Background(), c))
	return c
}

// seedVoting stores a voting directly, bypassing validation.
func (f *lifecycleFixture) seedVoting(t *testing.T, status domain.VotingStatus, start, end time.Time, maxVotes int, candidates ...*domain.Candidate) *domain.Voting {
	t.Helper()
	ctx := context.Background()
	v := &domain.Voting{
		ID:        uuid.New(),
		Title:     "Seeded voting",
		StartDate: start,
		EndDate:   end,
		MaxVotes:  maxVotes,
		Status:    status,
	}
	require.NoError(t, f.store.Save(ctx, v))

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	require.NoError(t, f.store.SetCandidates(ctx, v.ID, ids))
	return v
}

func (f *lifecycleFixture) status(t *testing.T, id uuid.UUID) domain.VotingStatus {
	t.Helper()
	v, err := f.store.GetByID(context.Background(), id)
	require.NoError(t, err)
	return v.Status
}

func (f *lifecycleFixture) castVote(t *testing.T, votingID, candidateID uuid.UUID, ip string) {
	t.Helper()
	ctx := context.Background()
	pairing, err := f.store.GetPairing(ctx, votingID, candidateID)
	require.NoError(t, err)
	require.NoError(t, f.store.AppendVote(ctx, &domain.CastVote{
		ID:                uuid.New(),
		VotingCandidateID: pairing.ID,
		IPAddress:         ip,
		CreatedAt:         time.Now(),
	}))
}
