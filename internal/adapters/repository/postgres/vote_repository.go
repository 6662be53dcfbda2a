package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) GetPairing(ctx context.Context, votingID, candidateID uuid.UUID) (*domain.VotingCandidate, error) {
	query := `
		SELECT id, voting_id, candidate_id
		FROM voting_candidates
		WHERE voting_id = $1 AND candidate_id = $2
	`
	var p domain.VotingCandidate
	err := r.db.QueryRowContext(ctx, query, votingID, candidateID).Scan(&p.ID, &p.VotingID, &p.CandidateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPairingNotFound
		}
		return nil, fmt.Errorf("failed to get voting candidate: %w", err)
	}
	return &p, nil
}

func (r *voteRepository) CountVotes(ctx context.Context, votingID, candidateID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(cv.id)
		FROM candidate_votes cv
		JOIN voting_candidates vc ON vc.id = cv.voting_candidate_id
		WHERE vc.voting_id = $1 AND vc.candidate_id = $2
	`
	var count int
	if err := r.db.QueryRowContext(ctx, query, votingID, candidateID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

func (r *voteRepository) AppendVote(ctx context.Context, vote *domain.CastVote) error {
	query := `
		INSERT INTO candidate_votes (id, voting_candidate_id, ip_address, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, vote.ID, vote.VotingCandidateID, vote.IPAddress, vote.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return domain.ErrPairingNotFound
		}
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}

func (r *voteRepository) VoteExistsForIP(ctx context.Context, votingID uuid.UUID, ip string) (bool, error) {
	query := `
		SELECT 1
		FROM candidate_votes cv
		JOIN voting_candidates vc ON vc.id = cv.voting_candidate_id
		WHERE vc.voting_id = $1 AND strpos(cv.ip_address, $2) > 0
		LIMIT 1
	`
	var exists int
	err := r.db.QueryRowContext(ctx, query, votingID, ip).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}
