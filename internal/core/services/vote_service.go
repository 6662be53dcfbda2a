package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

type voteService struct {
	votingRepo ports.VotingRepository
	voteRepo   ports.VoteRepository
	closer     ports.VotingCloser
	checkIP    bool
	logger     *slog.Logger

	// capMu serializes the count/append/close sequence of capped votings.
	capMu sync.Mutex
}

func NewVoteService(
	votingRepo ports.VotingRepository,
	voteRepo ports.VoteRepository,
	closer ports.VotingCloser,
	checkIP bool,
	logger *slog.Logger,
) ports.VoteService {
	return &voteService{
		votingRepo: votingRepo,
		voteRepo:   voteRepo,
		closer:     closer,
		checkIP:    checkIP,
		logger:     ResolveLogger(logger),
	}
}

func (s *voteService) SubmitVote(ctx context.Context, input ports.VoteInput) (ports.VoteResult, error) {
	pairing, err := s.voteRepo.GetPairing(ctx, input.VotingID, input.CandidateID)
	if err != nil {
		return ports.VoteResult{}, err
	}

	voting, err := s.votingRepo.GetByID(ctx, input.VotingID)
	if err != nil {
		return ports.VoteResult{}, err
	}
	if voting.Status != domain.StatusActive {
		return ports.VoteResult{Outcome: domain.VoteAlreadyOver, Voting: voting}, nil
	}

	if s.checkIP {
		voted, err := s.voteRepo.VoteExistsForIP(ctx, input.VotingID, input.VoterIP)
		if err != nil {
			return ports.VoteResult{}, err
		}
		if voted {
			return ports.VoteResult{Outcome: domain.VoteDuplicateVoter, Voting: voting}, nil
		}
	}

	if !voting.HasCap() {
		if err := s.appendVote(ctx, pairing, input.VoterIP); err != nil {
			return ports.VoteResult{}, err
		}
		return ports.VoteResult{Outcome: domain.VoteRecorded, Voting: voting}, nil
	}

	return s.submitCapped(ctx, pairing, input)
}

// submitCapped records the vote that reaches the cap before closing, and
// nothing after it.
func (s *voteService) submitCapped(ctx context.Context, pairing *domain.VotingCandidate, input ports.VoteInput) (ports.VoteResult, error) {
	s.capMu.Lock()
	defer s.capMu.Unlock()

	voting, err := s.votingRepo.GetByID(ctx, input.VotingID)
	if err != nil {
		return ports.VoteResult{}, err
	}
	if voting.Status != domain.StatusActive {
		return ports.VoteResult{Outcome: domain.VoteAlreadyOver, Voting: voting}, nil
	}
	if !voting.HasCap() {
		// cap lifted while waiting for the lock
		if err := s.appendVote(ctx, pairing, input.VoterIP); err != nil {
			return ports.VoteResult{}, err
		}
		return ports.VoteResult{Outcome: domain.VoteRecorded, Voting: voting}, nil
	}

	count, err := s.voteRepo.CountVotes(ctx, input.VotingID, input.CandidateID)
	if err != nil {
		return ports.VoteResult{}, err
	}
	if count >= voting.MaxVotes {
		s.closeOnCap(ctx, voting, count)
		return ports.VoteResult{Outcome: domain.VoteAlreadyOver, Voting: voting}, nil
	}

	if err := s.appendVote(ctx, pairing, input.VoterIP); err != nil {
		return ports.VoteResult{}, err
	}
	if count+1 >= voting.MaxVotes {
		s.closeOnCap(ctx, voting, count+1)
	}
	return ports.VoteResult{Outcome: domain.VoteRecorded, Voting: voting}, nil
}

func (s *voteService) closeOnCap(ctx context.Context, voting *domain.Voting, count int) {
	s.logger.Info("voting cap reached",
		"event", "voting_cap_reached",
		"module", moduleName,
		"layer", "service",
		"voting_id", voting.ID.String(),
		"max_votes", voting.MaxVotes,
		"votes", count,
	)
	// a failed close reschedules itself, the vote outcome stands either way
	if err := s.closer.Close(ctx, voting); err != nil {
		s.logger.Error("closing capped voting failed",
			"event", "voting_cap_close_failed",
			"module", moduleName,
			"layer", "service",
			"voting_id", voting.ID.String(),
			"error", err.Error(),
		)
	}
}

func (s *voteService) appendVote(ctx context.Context, pairing *domain.VotingCandidate, ip string) error {
	vote := &domain.CastVote{
		ID:                uuid.New(),
		VotingCandidateID: pairing.ID,
		IPAddress:         ip,
		CreatedAt:         time.Now(),
	}
	if err := s.voteRepo.AppendVote(ctx, vote); err != nil {
		return fmt.Errorf("failed to record vote: %w", err)
	}
	return nil
}
