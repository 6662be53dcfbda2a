package domain

import (
	"time"

	"github.com/google/uuid"
)

type VotingResult struct {
	VotingID      uuid.UUID
	CandidateID   uuid.UUID
	VoteCount     int64
	LastUpdatedAt time.Time
}
