package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

const DefaultMaxRowsPerRequest = 1000

type votingService struct {
	votingRepo    ports.VotingRepository
	candidateRepo ports.CandidateRepository
	maxRows       int
}

func NewVotingService(votingRepo ports.VotingRepository, candidateRepo ports.CandidateRepository, maxRows int) ports.VotingQueryService {
	if maxRows <= 0 {
		maxRows = DefaultMaxRowsPerRequest
	}
	return &votingService{
		votingRepo:    votingRepo,
		candidateRepo: candidateRepo,
		maxRows:       maxRows,
	}
}

func (s *votingService) ListVotings(ctx context.Context, input ports.VotingQueryInput) ([]*domain.Voting, error) {
	filter, err := ParseVotingQuery(input)
	if err != nil {
		return nil, err
	}
	if len(filter.Sort) == 0 {
		filter.Sort = []ports.SortField{{Column: "start_date"}}
	}
	filter.Limit = s.maxRows

	return s.votingRepo.Filter(ctx, filter)
}

func (s *votingService) GetVotingDetails(ctx context.Context, id string) (*domain.VotingDetails, error) {
	votingID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidVotingID
	}

	voting, err := s.votingRepo.GetByID(ctx, votingID)
	if err != nil {
		return nil, err
	}

	standings, err := s.candidateRepo.ListStandings(ctx, votingID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].VotesCount > standings[j].VotesCount
	})

	return &domain.VotingDetails{Voting: voting, Standings: standings}, nil
}
