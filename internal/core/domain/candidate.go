package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultCandidatePhoto = "candidates_photo/without_photo.png"

type Candidate struct {
	ID         uuid.UUID `json:"id"`
	LastName   string    `json:"last_name"`
	FirstName  string    `json:"first_name"`
	MiddleName string    `json:"middle_name"`
	Age        int       `json:"age"`
	Biography  string    `json:"biography"`
	Photo      string    `json:"photo"`
	CreatedAt  time.Time `json:"created"`
	UpdatedAt  time.Time `json:"modified"`
}

func (c *Candidate) FullName() string {
	return strings.Join([]string{c.LastName, c.FirstName, c.MiddleName}, " ")
}

// VotingCandidate is the membership of a candidate in a voting. Cast votes
// reference the pairing, never the voting or candidate directly.
type VotingCandidate struct {
	ID          uuid.UUID `json:"id"`
	VotingID    uuid.UUID `json:"voting_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
}

type CandidateStanding struct {
	Candidate  Candidate `json:"candidate"`
	VotesCount int64     `json:"votes_count"`
}
