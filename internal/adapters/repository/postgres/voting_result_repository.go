package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

type votingResultRepository struct {
	db *sql.DB
}

func NewVotingResultRepository(db *sql.DB) ports.VotingResultRepository {
	return &votingResultRepository{
		db: db,
	}
}

func (r *votingResultRepository) SummarizeVotes(ctx context.Context, votingID uuid.UUID) error {
	query := `
		INSERT INTO voting_results (voting_id, candidate_id, vote_count, last_updated_at)
		SELECT vc.voting_id, vc.candidate_id, COUNT(*), NOW()
		FROM candidate_votes cv
		JOIN voting_candidates vc ON vc.id = cv.voting_candidate_id
		WHERE vc.voting_id = $1
		GROUP BY vc.voting_id, vc.candidate_id
		ON CONFLICT (voting_id, candidate_id) DO UPDATE
		SET vote_count = EXCLUDED.vote_count,
		    last_updated_at = NOW();
	`

	_, err := r.db.ExecContext(ctx, query, votingID)
	if err != nil {
		return fmt.Errorf("failed to summarize votes for voting %s: %w", votingID, err)
	}

	return nil
}

func (r *votingResultRepository) GetResults(ctx context.Context, votingID uuid.UUID) ([]domain.VotingResult, error) {
	query := `
		SELECT voting_id, candidate_id, vote_count, last_updated_at
		FROM voting_results
		WHERE voting_id = $1
		ORDER BY vote_count DESC
	`

	rows, err := r.db.QueryContext(ctx, query, votingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voting results: %w", err)
	}
	defer rows.Close()

	var results []domain.VotingResult
	for rows.Next() {
		var res domain.VotingResult
		if err := rows.Scan(&res.VotingID, &res.CandidateID, &res.VoteCount, &res.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan voting result: %w", err)
		}
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voting results: %w", err)
	}

	return results, nil
}
