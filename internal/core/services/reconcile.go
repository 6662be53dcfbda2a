package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

var byEndDateDesc = []ports.SortField{{Column: "end_date", Desc: true}}

// Reconcile repairs drift between stored statuses and the job table after a
// restart. Scans run in descending end date order, so the first lapsed voting
// means every following one has lapsed as well.
func (s *LifecycleService) Reconcile(ctx context.Context) (ports.ReconcileReport, error) {
	var report ports.ReconcileReport

	waiting, err := s.votings.Filter(ctx, ports.VotingFilter{
		Statuses: []domain.VotingStatus{domain.StatusWaitingBeginning},
		Sort:     byEndDateDesc,
	})
	if err != nil {
		return report, fmt.Errorf("failed to list waiting votings: %w", err)
	}

	for i, voting := range waiting {
		now := s.clock.Now()
		if !voting.EndDate.After(now) {
			ids := votingIDs(waiting[i:])
			if err := s.votings.BulkUpdateStatus(ctx, ids, domain.StatusExpired); err != nil {
				return report, fmt.Errorf("failed to expire votings: %w", err)
			}
			report.Expired = len(ids)
			s.logBulk(domain.StatusExpired, len(ids))
			break
		}

		s.scheduler.Reschedule(ports.ScheduledJob{
			ID:    jobID(voting),
			Name:  jobName("ACTIVATE", voting),
			RunAt: s.notBeforeNow(voting.StartDate),
		}, s.activateTask(voting))
		report.ActivationsScheduled++
	}

	now := s.clock.Now()
	lapsedWithVotes, err := s.votings.Filter(ctx, ports.VotingFilter{
		Statuses:      []domain.VotingStatus{domain.StatusActive},
		EndTo:         &now,
		WithVotesOnly: true,
	})
	if err != nil {
		return report, fmt.Errorf("failed to list lapsed active votings: %w", err)
	}
	if len(lapsedWithVotes) > 0 {
		ids := votingIDs(lapsedWithVotes)
		if err := s.votings.BulkUpdateStatus(ctx, ids, domain.StatusFinished); err != nil {
			return report, fmt.Errorf("failed to finish votings: %w", err)
		}
		for _, id := range ids {
			s.scheduler.Cancel(id.String())
		}
		report.Finished = len(ids)
		s.logBulk(domain.StatusFinished, len(ids))
	}

	active, err := s.votings.Filter(ctx, ports.VotingFilter{
		Statuses: []domain.VotingStatus{domain.StatusActive},
		Sort:     byEndDateDesc,
	})
	if err != nil {
		return report, fmt.Errorf("failed to list active votings: %w", err)
	}

	for i, voting := range active {
		if !voting.EndDate.After(s.clock.Now()) {
			ids := votingIDs(active[i:])
			if err := s.votings.BulkUpdateStatus(ctx, ids, domain.StatusFinishedWithoutVoters); err != nil {
				return report, fmt.Errorf("failed to finish votings without voters: %w", err)
			}
			for _, id := range ids {
				s.scheduler.Cancel(id.String())
			}
			report.FinishedWithoutVoters = len(ids)
			s.logBulk(domain.StatusFinishedWithoutVoters, len(ids))
			break
		}

		s.scheduler.Reschedule(ports.ScheduledJob{
			ID:    jobID(voting),
			Name:  jobName("CLOSE", voting),
			RunAt: voting.EndDate,
		}, s.closeTask(voting))
		report.ClosingsScheduled++
	}

	s.logger.Info("voting reconciliation completed",
		"event", "voting_reconcile_completed",
		"module", moduleName,
		"layer", "service",
		"activations_scheduled", report.ActivationsScheduled,
		"closings_scheduled", report.ClosingsScheduled,
		"expired", report.Expired,
		"finished", report.Finished,
		"finished_without_voters", report.FinishedWithoutVoters,
	)
	return report, nil
}

func (s *LifecycleService) logBulk(status domain.VotingStatus, count int) {
	s.logger.Info("votings moved in bulk",
		"event", "voting_bulk_status_updated",
		"module", moduleName,
		"layer", "service",
		"status", status.String(),
		"count", count,
	)
}

func votingIDs(votings []*domain.Voting) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(votings))
	for _, v := range votings {
		ids = append(ids, v.ID)
	}
	return ids
}
