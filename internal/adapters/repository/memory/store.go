package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

// Store keeps votings, candidates and cast votes in process memory. It backs
// the development storage driver and the service tests.
type Store struct {
	mu         sync.RWMutex
	votings    map[uuid.UUID]domain.Voting
	candidates map[uuid.UUID]domain.Candidate
	pairings   map[uuid.UUID]domain.VotingCandidate
	votes      []domain.CastVote
	results    map[uuid.UUID][]domain.VotingResult
}

var (
	_ ports.VotingRepository       = (*Store)(nil)
	_ ports.VoteRepository         = (*Store)(nil)
	_ ports.CandidateRepository    = (*CandidateStore)(nil)
	_ ports.VotingResultRepository = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		votings:    make(map[uuid.UUID]domain.Voting),
		candidates: make(map[uuid.UUID]domain.Candidate),
		pairings:   make(map[uuid.UUID]domain.VotingCandidate),
		results:    make(map[uuid.UUID][]domain.VotingResult),
	}
}

func (s *Store) Save(_ context.Context, voting *domain.Voting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *voting
	stored.Candidates = nil
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = time.Now()
	s.votings[voting.ID] = stored
	return nil
}

func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*domain.Voting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	voting, ok := s.votings[id]
	if !ok {
		return nil, domain.ErrVotingNotFound
	}
	voting.Candidates = s.candidatesOf(id)
	return &voting, nil
}

func (s *Store) Filter(_ context.Context, filter ports.VotingFilter) ([]*domain.Voting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make(map[domain.VotingStatus]bool, len(filter.Statuses))
	for _, status := range filter.Statuses {
		statuses[status] = true
	}

	var out []*domain.Voting
	for _, v := range s.votings {
		if len(statuses) > 0 && !statuses[v.Status] {
			continue
		}
		if filter.StartFrom != nil && v.StartDate.Before(*filter.StartFrom) {
			continue
		}
		if filter.EndTo != nil && v.EndDate.After(*filter.EndTo) {
			continue
		}
		if filter.WithVotesOnly && s.countVotes(v.ID, uuid.Nil) == 0 {
			continue
		}
		voting := v
		out = append(out, &voting)
	}

	sort.SliceStable(out, func(i, j int) bool {
		for _, field := range filter.Sort {
			c := compareColumn(out[i], out[j], field.Column)
			if c == 0 {
				continue
			}
			if field.Desc {
				return c > 0
			}
			return c < 0
		}
		return out[i].ID.String() < out[j].ID.String()
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func compareColumn(a, b *domain.Voting, column string) int {
	switch column {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "description":
		return strings.Compare(a.Description, b.Description)
	case "start_date":
		return a.StartDate.Compare(b.StartDate)
	case "end_date":
		return a.EndDate.Compare(b.EndDate)
	case "max_votes":
		return a.MaxVotes - b.MaxVotes
	case "status":
		return int(a.Status) - int(b.Status)
	case "created":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "modified":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return strings.Compare(a.ID.String(), b.ID.String())
	}
}

func (s *Store) UpdateStatus(_ context.Context, id uuid.UUID, status domain.VotingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	voting, ok := s.votings[id]
	if !ok {
		return domain.ErrVotingNotFound
	}
	voting.Status = status
	voting.UpdatedAt = time.Now()
	s.votings[id] = voting
	return nil
}

func (s *Store) BulkUpdateStatus(_ context.Context, ids []uuid.UUID, status domain.VotingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, id := range ids {
		if voting, ok := s.votings[id]; ok {
			voting.Status = status
			voting.UpdatedAt = now
			s.votings[id] = voting
		}
	}
	return nil
}

// SetCandidates replaces memberships, keeping pairing ids of candidates that stay.
func (s *Store) SetCandidates(_ context.Context, votingID uuid.UUID, candidateIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.votings[votingID]; !ok {
		return domain.ErrVotingNotFound
	}
	wanted := make(map[uuid.UUID]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		if _, ok := s.candidates[id]; !ok {
			return domain.ErrCandidateNotFound
		}
		wanted[id] = true
	}

	for id, p := range s.pairings {
		if p.VotingID != votingID {
			continue
		}
		if wanted[p.CandidateID] {
			delete(wanted, p.CandidateID)
			continue
		}
		delete(s.pairings, id)
		s.dropVotes(id)
	}
	for _, candidateID := range candidateIDs {
		if !wanted[candidateID] {
			continue
		}
		delete(wanted, candidateID)
		pairing := domain.VotingCandidate{ID: uuid.New(), VotingID: votingID, CandidateID: candidateID}
		s.pairings[pairing.ID] = pairing
	}
	return nil
}

func (s *Store) dropVotes(pairingID uuid.UUID) {
	kept := s.votes[:0]
	for _, v := range s.votes {
		if v.VotingCandidateID != pairingID {
			kept = append(kept, v)
		}
	}
	s.votes = kept
}

func (s *Store) candidatesOf(votingID uuid.UUID) []domain.Candidate {
	var out []domain.Candidate
	for _, p := range s.pairings {
		if p.VotingID == votingID {
			out = append(out, s.candidates[p.CandidateID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName() < out[j].FullName() })
	return out
}

func (s *Store) pairingFor(votingID, candidateID uuid.UUID) (domain.VotingCandidate, bool) {
	for _, p := range s.pairings {
		if p.VotingID == votingID && p.CandidateID == candidateID {
			return p, true
		}
	}
	return domain.VotingCandidate{}, false
}

// countVotes counts votes of one pairing, or of the whole voting when
// candidateID is uuid.Nil. Callers hold s.mu.
func (s *Store) countVotes(votingID, candidateID uuid.UUID) int {
	count := 0
	for _, v := range s.votes {
		p := s.pairings[v.VotingCandidateID]
		if p.VotingID != votingID {
			continue
		}
		if candidateID != uuid.Nil && p.CandidateID != candidateID {
			continue
		}
		count++
	}
	return count
}
