package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
)

type CandidateRepository interface {
	Save(ctx context.Context, candidate *domain.Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error)
	ListStandings(ctx context.Context, votingID uuid.UUID) ([]domain.CandidateStanding, error)
}

type CreateCandidateInput struct {
	LastName   string
	FirstName  string
	MiddleName string
	Age        int
	Biography  string
	Photo      string
}

type CandidateService interface {
	CreateCandidate(ctx context.Context, input CreateCandidateInput) (*domain.Candidate, error)
}
