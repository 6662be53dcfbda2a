package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
)

func (s *Store) GetPairing(_ context.Context, votingID, candidateID uuid.UUID) (*domain.VotingCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pairing, ok := s.pairingFor(votingID, candidateID)
	if !ok {
		return nil, domain.ErrPairingNotFound
	}
	return &pairing, nil
}

func (s *Store) CountVotes(_ context.Context, votingID, candidateID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.countVotes(votingID, candidateID), nil
}

func (s *Store) AppendVote(_ context.Context, vote *domain.CastVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pairings[vote.VotingCandidateID]; !ok {
		return domain.ErrPairingNotFound
	}
	s.votes = append(s.votes, *vote)
	return nil
}

func (s *Store) VoteExistsForIP(_ context.Context, votingID uuid.UUID, ip string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.votes {
		if s.pairings[v.VotingCandidateID].VotingID == votingID && strings.Contains(v.IPAddress, ip) {
			return true, nil
		}
	}
	return false, nil
}

// Votes returns a copy of every cast vote of a voting.
func (s *Store) Votes(votingID uuid.UUID) []domain.CastVote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CastVote
	for _, v := range s.votes {
		if s.pairings[v.VotingCandidateID].VotingID == votingID {
			out = append(out, v)
		}
	}
	return out
}

// CandidateStore is the candidate view of a Store.
type CandidateStore struct {
	s *Store
}

func (s *Store) Candidates() *CandidateStore {
	return &CandidateStore{s: s}
}

func (c *CandidateStore) Save(_ context.Context, candidate *domain.Candidate) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	stored := *candidate
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = time.Now()
	c.s.candidates[candidate.ID] = stored
	return nil
}

func (c *CandidateStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Candidate, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	candidate, ok := c.s.candidates[id]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	return &candidate, nil
}

func (c *CandidateStore) ListStandings(_ context.Context, votingID uuid.UUID) ([]domain.CandidateStanding, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	if _, ok := c.s.votings[votingID]; !ok {
		return nil, domain.ErrVotingNotFound
	}
	var standings []domain.CandidateStanding
	for _, p := range c.s.pairings {
		if p.VotingID != votingID {
			continue
		}
		standings = append(standings, domain.CandidateStanding{
			Candidate:  c.s.candidates[p.CandidateID],
			VotesCount: int64(c.s.countVotes(votingID, p.CandidateID)),
		})
	}
	sort.Slice(standings, func(i, j int) bool {
		return standings[i].Candidate.FullName() < standings[j].Candidate.FullName()
	})
	return standings, nil
}

func (s *Store) SummarizeVotes(_ context.Context, votingID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var results []domain.VotingResult
	for _, p := range s.pairings {
		if p.VotingID != votingID {
			continue
		}
		count := s.countVotes(votingID, p.CandidateID)
		if count == 0 {
			continue
		}
		results = append(results, domain.VotingResult{
			VotingID:      votingID,
			CandidateID:   p.CandidateID,
			VoteCount:     int64(count),
			LastUpdatedAt: now,
		})
	}
	s.results[votingID] = results
	return nil
}

func (s *Store) GetResults(_ context.Context, votingID uuid.UUID) ([]domain.VotingResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.VotingResult(nil), s.results[votingID]...), nil
}
