package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

type candidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) ports.CandidateRepository {
	return &candidateRepository{
		db: db,
	}
}

func (r *candidateRepository) Save(ctx context.Context, candidate *domain.Candidate) error {
	query := `
		INSERT INTO candidates (id, last_name, first_name, middle_name, age, biography, photo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET last_name = EXCLUDED.last_name,
		    first_name = EXCLUDED.first_name,
		    middle_name = EXCLUDED.middle_name,
		    age = EXCLUDED.age,
		    biography = EXCLUDED.biography,
		    photo = EXCLUDED.photo,
		    updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query,
		candidate.ID, candidate.LastName, candidate.FirstName, candidate.MiddleName,
		candidate.Age, candidate.Biography, candidate.Photo,
	)
	if err != nil {
		return fmt.Errorf("failed to save candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	query := `
		SELECT id, last_name, first_name, middle_name, age, biography, photo, created_at, updated_at
		FROM candidates
		WHERE id = $1
	`
	candidate, err := scanCandidate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return candidate, nil
}

func (r *candidateRepository) ListStandings(ctx context.Context, votingID uuid.UUID) ([]domain.CandidateStanding, error) {
	query := `
		SELECT c.id, c.last_name, c.first_name, c.middle_name, c.age, c.biography, c.photo, c.created_at, c.updated_at,
		       COUNT(cv.id)
		FROM voting_candidates vc
		JOIN candidates c ON c.id = vc.candidate_id
		LEFT JOIN candidate_votes cv ON cv.voting_candidate_id = vc.id
		WHERE vc.voting_id = $1
		GROUP BY c.id
		ORDER BY c.last_name, c.first_name, c.middle_name
	`
	rows, err := r.db.QueryContext(ctx, query, votingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	defer rows.Close()

	var standings []domain.CandidateStanding
	for rows.Next() {
		var s domain.CandidateStanding
		c := &s.Candidate
		err := rows.Scan(
			&c.ID, &c.LastName, &c.FirstName, &c.MiddleName, &c.Age, &c.Biography, &c.Photo,
			&c.CreatedAt, &c.UpdatedAt, &s.VotesCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standings: %w", err)
	}
	return standings, nil
}

func scanCandidate(row rowScanner) (*domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(
		&c.ID, &c.LastName, &c.FirstName, &c.MiddleName, &c.Age, &c.Biography, &c.Photo,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
