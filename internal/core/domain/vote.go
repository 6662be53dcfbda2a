package domain

import (
	"time"

	"github.com/google/uuid"
)

type CastVote struct {
	ID                uuid.UUID `json:"id"`
	VotingCandidateID uuid.UUID `json:"voting_candidate_id"`
	IPAddress         string    `json:"ip_address"`
	CreatedAt         time.Time `json:"created_at"`
}

type VoteOutcome int

const (
	VoteRecorded VoteOutcome = iota
	VoteAlreadyOver
	VoteDuplicateVoter
)

func (o VoteOutcome) String() string {
	switch o {
	case VoteRecorded:
		return "recorded"
	case VoteAlreadyOver:
		return "already_over"
	case VoteDuplicateVoter:
		return "duplicate_voter"
	default:
		return "unknown"
	}
}
