package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
)

type VoteRepository interface {
	GetPairing(ctx context.Context, votingID, candidateID uuid.UUID) (*domain.VotingCandidate, error)
	CountVotes(ctx context.Context, votingID, candidateID uuid.UUID) (int, error)
	AppendVote(ctx context.Context, vote *domain.CastVote) error
	// VoteExistsForIP matches stored addresses containing ip, not only equal ones.
	VoteExistsForIP(ctx context.Context, votingID uuid.UUID, ip string) (bool, error)
}

type VoteInput struct {
	VotingID    uuid.UUID
	CandidateID uuid.UUID
	VoterIP     string
}

type VoteResult struct {
	Outcome domain.VoteOutcome
	Voting  *domain.Voting
}

type VoteService interface {
	SubmitVote(ctx context.Context, input VoteInput) (VoteResult, error)
}
