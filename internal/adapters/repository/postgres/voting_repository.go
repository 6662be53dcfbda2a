package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

const foreignKeyViolation = "23503"

var sortColumns = map[string]string{
	"id":          "v.id",
	"title":       "v.title",
	"description": "v.description",
	"start_date":  "v.start_date",
	"end_date":    "v.end_date",
	"max_votes":   "v.max_votes",
	"status":      "v.status",
	"created":     "v.created_at",
	"modified":    "v.updated_at",
}

type votingRepository struct {
	db *sql.DB
}

func NewVotingRepository(db *sql.DB) ports.VotingRepository {
	return &votingRepository{
		db: db,
	}
}

func (r *votingRepository) Save(ctx context.Context, voting *domain.Voting) error {
	query := `
		INSERT INTO votings (id, title, description, start_date, end_date, max_votes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()), NOW())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    start_date = EXCLUDED.start_date,
		    end_date = EXCLUDED.end_date,
		    max_votes = EXCLUDED.max_votes,
		    status = EXCLUDED.status,
		    updated_at = NOW()
	`
	var createdAt sql.NullTime
	if !voting.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: voting.CreatedAt, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		voting.ID, voting.Title, voting.Description, voting.StartDate, voting.EndDate,
		voting.MaxVotes, int(voting.Status), createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save voting: %w", err)
	}
	return nil
}

func (r *votingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Voting, error) {
	query := `
		SELECT v.id, v.title, v.description, v.start_date, v.end_date, v.max_votes, v.status, v.created_at, v.updated_at
		FROM votings v
		WHERE v.id = $1
	`

	voting, err := scanVoting(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVotingNotFound
		}
		return nil, fmt.Errorf("failed to get voting: %w", err)
	}

	candidates, err := r.fetchCandidates(ctx, voting.ID)
	if err != nil {
		return nil, err
	}
	voting.Candidates = candidates

	return voting, nil
}

func (r *votingRepository) Filter(ctx context.Context, filter ports.VotingFilter) ([]*domain.Voting, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]int64, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, int64(s))
		}
		conditions = append(conditions, "v.status = ANY("+arg(pq.Array(statuses))+")")
	}
	if filter.StartFrom != nil {
		conditions = append(conditions, "v.start_date >= "+arg(*filter.StartFrom))
	}
	if filter.EndTo != nil {
		conditions = append(conditions, "v.end_date <= "+arg(*filter.EndTo))
	}
	if filter.WithVotesOnly {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM candidate_votes cv
			JOIN voting_candidates vc ON vc.id = cv.voting_candidate_id
			WHERE vc.voting_id = v.id
		)`)
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT v.id, v.title, v.description, v.start_date, v.end_date, v.max_votes, v.status, v.created_at, v.updated_at
		FROM votings v`)
	if len(conditions) > 0 {
		sb.WriteString("\n\t\tWHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	order := make([]string, 0, len(filter.Sort)+1)
	for _, field := range filter.Sort {
		column, ok := sortColumns[field.Column]
		if !ok {
			return nil, fmt.Errorf("unknown sort column %q", field.Column)
		}
		if field.Desc {
			column += " DESC"
		}
		order = append(order, column)
	}
	order = append(order, "v.id")
	sb.WriteString("\n\t\tORDER BY ")
	sb.WriteString(strings.Join(order, ", "))

	if filter.Limit > 0 {
		sb.WriteString("\n\t\tLIMIT " + arg(filter.Limit))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter votings: %w", err)
	}
	defer rows.Close()

	var votings []*domain.Voting
	for rows.Next() {
		voting, err := scanVoting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voting: %w", err)
		}
		votings = append(votings, voting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votings: %w", err)
	}
	return votings, nil
}

func (r *votingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VotingStatus) error {
	query := `UPDATE votings SET status = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, int(status), id)
	if err != nil {
		return fmt.Errorf("failed to update voting status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update voting status: %w", err)
	}
	if affected == 0 {
		return domain.ErrVotingNotFound
	}
	return nil
}

func (r *votingRepository) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.VotingStatus) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE votings SET status = $1, updated_at = NOW() WHERE id = ANY($2::uuid[])`
	_, err := r.db.ExecContext(ctx, query, int(status), pq.Array(uuidStrings(ids)))
	if err != nil {
		return fmt.Errorf("failed to bulk update voting status: %w", err)
	}
	return nil
}

func (r *votingRepository) SetCandidates(ctx context.Context, votingID uuid.UUID, candidateIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM voting_candidates
		WHERE voting_id = $1 AND NOT (candidate_id = ANY($2::uuid[]))
	`, votingID, pq.Array(uuidStrings(candidateIDs)))
	if err != nil {
		return fmt.Errorf("failed to remove voting candidates: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO voting_candidates (id, voting_id, candidate_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (voting_id, candidate_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare candidate statement: %w", err)
	}
	defer stmt.Close()

	for _, candidateID := range candidateIDs {
		if _, err := stmt.ExecContext(ctx, uuid.New(), votingID, candidateID); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
				if pqErr.Constraint == "voting_candidates_voting_id_fkey" {
					return domain.ErrVotingNotFound
				}
				return domain.ErrCandidateNotFound
			}
			return fmt.Errorf("failed to insert voting candidate: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *votingRepository) fetchCandidates(ctx context.Context, votingID uuid.UUID) ([]domain.Candidate, error) {
	query := `
		SELECT c.id, c.last_name, c.first_name, c.middle_name, c.age, c.biography, c.photo, c.created_at, c.updated_at
		FROM candidates c
		JOIN voting_candidates vc ON vc.candidate_id = c.id
		WHERE vc.voting_id = $1
		ORDER BY c.last_name, c.first_name, c.middle_name
	`
	rows, err := r.db.QueryContext(ctx, query, votingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get voting candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return candidates, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVoting(row rowScanner) (*domain.Voting, error) {
	var (
		voting domain.Voting
		status int
	)
	err := row.Scan(
		&voting.ID, &voting.Title, &voting.Description, &voting.StartDate, &voting.EndDate,
		&voting.MaxVotes, &status, &voting.CreatedAt, &voting.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	voting.Status = domain.VotingStatus(status)
	return &voting, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
