package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
)

type VotingResultRepository interface {
	SummarizeVotes(ctx context.Context, votingID uuid.UUID) error
	GetResults(ctx context.Context, votingID uuid.UUID) ([]domain.VotingResult, error)
}

// ReportGenerator is invoked fire-and-forget once a voting is finished.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, voting *domain.Voting) error
}

type SummaryService interface {
	ReportGenerator
	SummarizeAllFinished(ctx context.Context) error
}
