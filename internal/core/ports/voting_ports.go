package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
)

type SortField struct {
	Column string
	Desc   bool
}

// VotingFilter narrows a voting query. Zero values mean "no restriction".
type VotingFilter struct {
	Statuses []domain.VotingStatus
	// StartFrom keeps votings starting at or after the instant.
	StartFrom *time.Time
	// EndTo keeps votings ending at or before the instant.
	EndTo *time.Time
	// WithVotesOnly keeps votings that received at least one cast vote.
	WithVotesOnly bool
	Sort          []SortField
	Limit         int
}

type VotingRepository interface {
	Save(ctx context.Context, voting *domain.Voting) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Voting, error)
	Filter(ctx context.Context, filter VotingFilter) ([]*domain.Voting, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VotingStatus) error
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.VotingStatus) error
	SetCandidates(ctx context.Context, votingID uuid.UUID, candidateIDs []uuid.UUID) error
}

type SaveVotingInput struct {
	ID           *uuid.UUID
	Title        string
	Description  string
	StartDate    *time.Time
	EndDate      *time.Time
	MaxVotes     int
	Draft        bool
	CandidateIDs []uuid.UUID
}

type VotingQueryInput struct {
	Statuses       []string
	From           string
	To             string
	Sort           string
	RestrictStatus bool
}

// LifecycleService drives voting status transitions and their scheduled jobs.
type LifecycleService interface {
	SaveVoting(ctx context.Context, input SaveVotingInput) (*domain.Voting, error)
	OnVotingSaved(voting *domain.Voting)
	Activate(ctx context.Context, voting *domain.Voting) error
	Close(ctx context.Context, voting *domain.Voting) error
	Reconcile(ctx context.Context) (ReconcileReport, error)
}

// VotingCloser is the part of the lifecycle the vote gate depends on.
type VotingCloser interface {
	Close(ctx context.Context, voting *domain.Voting) error
}

type ReconcileReport struct {
	ActivationsScheduled  int
	ClosingsScheduled     int
	Expired               int
	Finished              int
	FinishedWithoutVoters int
}

type VotingQueryService interface {
	ListVotings(ctx context.Context, input VotingQueryInput) ([]*domain.Voting, error)
	GetVotingDetails(ctx context.Context, id string) (*domain.VotingDetails, error)
}

type StatusUpdater interface {
	TrySetStatus(ctx context.Context, voting *domain.Voting, status domain.VotingStatus) bool
}
