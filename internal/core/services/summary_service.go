package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

type summaryService struct {
	votingRepo ports.VotingRepository
	resultRepo ports.VotingResultRepository
	logger     *slog.Logger
}

func NewSummaryService(votingRepo ports.VotingRepository, resultRepo ports.VotingResultRepository, logger *slog.Logger) ports.SummaryService {
	return &summaryService{
		votingRepo: votingRepo,
		resultRepo: resultRepo,
		logger:     ResolveLogger(logger),
	}
}

// GenerateReport stores per-candidate totals of a finished voting.
func (s *summaryService) GenerateReport(ctx context.Context, voting *domain.Voting) error {
	if err := s.resultRepo.SummarizeVotes(ctx, voting.ID); err != nil {
		return err
	}

	results, err := s.resultRepo.GetResults(ctx, voting.ID)
	if err != nil {
		return fmt.Errorf("failed to read results of voting %s: %w", voting.ID, err)
	}

	var total int64
	var leader *domain.VotingResult
	for i := range results {
		total += results[i].VoteCount
		if leader == nil || results[i].VoteCount > leader.VoteCount {
			leader = &results[i]
		}
	}

	attrs := []any{
		"event", "voting_report_generated",
		"module", moduleName,
		"layer", "service",
		"voting_id", voting.ID.String(),
		"title", voting.Title,
		"total_votes", total,
	}
	if leader != nil {
		attrs = append(attrs, "leader_candidate_id", leader.CandidateID.String(), "leader_votes", leader.VoteCount)
	}
	s.logger.Info("voting report generated", attrs...)
	return nil
}

func (s *summaryService) SummarizeAllFinished(ctx context.Context) error {
	votings, err := s.votingRepo.Filter(ctx, ports.VotingFilter{
		Statuses: []domain.VotingStatus{domain.StatusFinished},
	})
	if err != nil {
		return fmt.Errorf("failed to fetch finished votings: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(votings))

	for _, voting := range votings {
		wg.Add(1)
		go func(v *domain.Voting) {
			defer wg.Done()
			if err := s.GenerateReport(ctx, v); err != nil {
				errChan <- fmt.Errorf("failed to summarize voting %s: %w", v.ID, err)
			}
		}(voting)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}

	return nil
}
