package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

const (
	jobRetryDelay      = time.Minute
	activationDeadline = 5 * time.Minute
	reportDelay        = time.Minute
)

type LifecycleConfig struct {
	MinVotingDuration     time.Duration
	GenerateReportOnClose bool
}

// LifecycleService owns the voting state machine. Every status change that
// happens later in time is routed through the job scheduler under the voting id.
type LifecycleService struct {
	votings   ports.VotingRepository
	scheduler ports.JobScheduler
	updater   ports.StatusUpdater
	reports   ports.ReportGenerator
	clock     ports.Clock
	cfg       LifecycleConfig
	logger    *slog.Logger
}

func NewLifecycleService(
	votings ports.VotingRepository,
	scheduler ports.JobScheduler,
	updater ports.StatusUpdater,
	reports ports.ReportGenerator,
	clock ports.Clock,
	cfg LifecycleConfig,
	logger *slog.Logger,
) *LifecycleService {
	if clock == nil {
		clock = SystemClock
	}
	if cfg.MinVotingDuration <= 0 {
		cfg.MinVotingDuration = DefaultMinVotingDuration
	}
	return &LifecycleService{
		votings:   votings,
		scheduler: scheduler,
		updater:   updater,
		reports:   reports,
		clock:     clock,
		cfg:       cfg,
		logger:    ResolveLogger(logger),
	}
}

func (s *LifecycleService) SaveVoting(ctx context.Context, input ports.SaveVotingInput) (*domain.Voting, error) {
	now := s.clock.Now()

	var persisted *domain.Voting
	voting := &domain.Voting{ID: uuid.New(), CreatedAt: now}
	if input.ID != nil {
		stored, err := s.votings.GetByID(ctx, *input.ID)
		if err != nil {
			return nil, err
		}
		persisted = stored
		clone := *stored
		voting = &clone
	}

	startDate, endDate := s.resolveDates(input, persisted, now)

	verr := validateVotingFields(input)
	status, err := ComputeTransition(TransitionInput{
		Persisted:   persisted,
		StartDate:   startDate,
		EndDate:     endDate,
		Draft:       input.Draft,
		Now:         now,
		MinDuration: s.cfg.MinVotingDuration,
	})
	if err != nil {
		var transitionErr *domain.ValidationError
		if !errors.As(err, &transitionErr) {
			return nil, err
		}
		verr.Errors = append(verr.Errors, transitionErr.Errors...)
	}
	if !verr.Empty() {
		return nil, verr
	}

	voting.Title = input.Title
	voting.Description = input.Description
	voting.StartDate = startDate
	voting.EndDate = endDate
	voting.MaxVotes = input.MaxVotes
	voting.Status = status
	voting.UpdatedAt = now

	if err := s.votings.Save(ctx, voting); err != nil {
		return nil, fmt.Errorf("failed to save voting: %w", err)
	}
	if input.CandidateIDs != nil {
		if err := s.votings.SetCandidates(ctx, voting.ID, input.CandidateIDs); err != nil {
			return nil, fmt.Errorf("failed to set voting candidates: %w", err)
		}
	}

	s.OnVotingSaved(voting)
	return voting, nil
}

func (s *LifecycleService) resolveDates(input ports.SaveVotingInput, persisted *domain.Voting, now time.Time) (time.Time, time.Time) {
	start, end := DefaultStartDate(now), DefaultEndDate(now)
	if persisted != nil {
		start, end = persisted.StartDate, persisted.EndDate
	}
	if input.StartDate != nil {
		start = *input.StartDate
	}
	if input.EndDate != nil {
		end = *input.EndDate
	}
	return start, end
}

func validateVotingFields(input ports.SaveVotingInput) *domain.ValidationError {
	verr := &domain.ValidationError{}
	titleLength := utf8.RuneCountInString(input.Title)
	if titleLength < minTitleLength {
		verr.Add("title", fmt.Sprintf("Title length must be greater or equal %d", minTitleLength))
	} else if titleLength > maxTitleLength {
		verr.Add("title", fmt.Sprintf("Title length must be less or equal %d", maxTitleLength))
	}
	if utf8.RuneCountInString(input.Description) > maxDescriptionLength {
		verr.Add("description", fmt.Sprintf("Description length must be less or equal %d", maxDescriptionLength))
	}
	if input.MaxVotes < 0 {
		verr.Add("max_votes", "Maximum votes number cannot be negative")
	}
	return verr
}

// OnVotingSaved keeps the job table in line with the stored status: drafts have
// no job, waiting votings have exactly one activation job at their start date.
func (s *LifecycleService) OnVotingSaved(voting *domain.Voting) {
	switch voting.Status {
	case domain.StatusDraft:
		s.scheduler.Cancel(jobID(voting))
	case domain.StatusWaitingBeginning:
		s.scheduler.Reschedule(ports.ScheduledJob{
			ID:    jobID(voting),
			Name:  jobName("ACTIVATE", voting),
			RunAt: s.notBeforeNow(voting.StartDate),
		}, s.activateTask(voting))
	}
}

func (s *LifecycleService) notBeforeNow(t time.Time) time.Time {
	if now := s.clock.Now(); now.After(t) {
		return now
	}
	return t
}

// Activate moves the voting to ACTIVE and arms its closing job. A failed
// update is retried a minute later unless the voting ends within five minutes.
func (s *LifecycleService) Activate(ctx context.Context, voting *domain.Voting) error {
	s.scheduler.Cancel(jobID(voting))

	if s.updater.TrySetStatus(ctx, voting, domain.StatusActive) {
		voting.Status = domain.StatusActive
		return s.schedule(ports.ScheduledJob{
			ID:    jobID(voting),
			Name:  jobName("CLOSE", voting),
			RunAt: voting.EndDate,
		}, s.closeTask(voting))
	}

	now := s.clock.Now()
	if voting.EndDate.Before(now.Add(activationDeadline)) {
		s.logger.Warn("voting activation dropped",
			"event", "voting_activation_dropped",
			"module", moduleName,
			"layer", "service",
			"voting_id", voting.ID.String(),
			"end_date", voting.EndDate,
		)
		return nil
	}

	return s.schedule(ports.ScheduledJob{
		ID:    jobID(voting),
		Name:  jobName("RETRY ACTIVATE", voting),
		RunAt: now.Add(jobRetryDelay),
	}, s.activateTask(voting))
}

// Close moves the voting to FINISHED. Closing never gives up: a failed update
// is retried a minute later for as long as it takes.
func (s *LifecycleService) Close(ctx context.Context, voting *domain.Voting) error {
	s.scheduler.Cancel(jobID(voting))
	now := s.clock.Now()

	if !s.updater.TrySetStatus(ctx, voting, domain.StatusFinished) {
		return s.schedule(ports.ScheduledJob{
			ID:    jobID(voting),
			Name:  jobName("RETRY CLOSE", voting),
			RunAt: now.Add(jobRetryDelay),
		}, s.closeTask(voting))
	}
	voting.Status = domain.StatusFinished

	if !s.cfg.GenerateReportOnClose || s.reports == nil {
		return nil
	}

	snapshot := *voting
	return s.schedule(ports.ScheduledJob{
		ID:       jobID(voting),
		Name:     fmt.Sprintf("CREATE REPORT for '%s' voting[%s]", voting.Title, voting.ID),
		RunAt:    now.Add(reportDelay),
		Isolated: true,
	}, func(ctx context.Context) error {
		return s.reports.GenerateReport(ctx, &snapshot)
	})
}

func (s *LifecycleService) schedule(job ports.ScheduledJob, task ports.Task) error {
	if err := s.scheduler.ScheduleAt(job, task); err != nil {
		s.logger.Error("voting job not scheduled",
			"event", "voting_job_schedule_failed",
			"module", moduleName,
			"layer", "service",
			"job_id", job.ID,
			"job_name", job.Name,
			"error", err.Error(),
		)
		return fmt.Errorf("failed to schedule %q: %w", job.Name, err)
	}
	return nil
}

func (s *LifecycleService) activateTask(voting *domain.Voting) ports.Task {
	snapshot := *voting
	return func(ctx context.Context) error {
		if s.superseded(&snapshot, "ACTIVATE") {
			return nil
		}
		return s.Activate(ctx, &snapshot)
	}
}

func (s *LifecycleService) closeTask(voting *domain.Voting) ports.Task {
	snapshot := *voting
	return func(ctx context.Context) error {
		if s.superseded(&snapshot, "CLOSE") {
			return nil
		}
		return s.Close(ctx, &snapshot)
	}
}

// superseded reports whether another job was scheduled under the voting id
// after the running one left the job table. The newer job wins.
func (s *LifecycleService) superseded(voting *domain.Voting, action string) bool {
	pending, ok := s.scheduler.Lookup(jobID(voting))
	if !ok {
		return false
	}
	s.logger.Info("voting job superseded",
		"event", "voting_job_superseded",
		"module", moduleName,
		"layer", "service",
		"voting_id", voting.ID.String(),
		"action", action,
		"pending_job", pending.Name,
	)
	return true
}

func jobID(voting *domain.Voting) string {
	return voting.ID.String()
}

func jobName(action string, voting *domain.Voting) string {
	return fmt.Sprintf("%s '%s' voting[%s]", action, voting.Title, voting.ID)
}
