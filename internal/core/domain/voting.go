package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type VotingStatus int

const (
	StatusUnknown VotingStatus = iota
	StatusDraft
	StatusWaitingBeginning
	StatusActive
	StatusFinished
	StatusFinishedWithoutVoters
	StatusExpired
)

var statusNames = map[VotingStatus]string{
	StatusUnknown:               "UNKNOWN",
	StatusDraft:                 "DRAFT",
	StatusWaitingBeginning:      "WAITING",
	StatusActive:                "ACTIVE",
	StatusFinished:              "FINISHED",
	StatusFinishedWithoutVoters: "FINISHED WITHOUT VOTERS",
	StatusExpired:               "EXPIRED",
}

// AllStatuses lists every status in code order.
func AllStatuses() []VotingStatus {
	return []VotingStatus{
		StatusUnknown,
		StatusDraft,
		StatusWaitingBeginning,
		StatusActive,
		StatusFinished,
		StatusFinishedWithoutVoters,
		StatusExpired,
	}
}

func (s VotingStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[StatusUnknown]
}

func (s VotingStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Live reports whether the voting has started or already finished, after
// which neither draft mode nor a new start date is accepted.
func (s VotingStatus) Live() bool {
	return s == StatusActive || s == StatusFinished
}

// StatusByName resolves a normalized display name such as "FINISHED WITHOUT VOTERS".
func StatusByName(name string) (VotingStatus, bool) {
	for status, n := range statusNames {
		if n == name {
			return status, true
		}
	}
	return StatusUnknown, false
}

type Voting struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	MaxVotes    int          `json:"max_votes"`
	Status      VotingStatus `json:"status"`
	Candidates  []Candidate  `json:"candidates,omitempty"`
	CreatedAt   time.Time    `json:"created"`
	UpdatedAt   time.Time    `json:"modified"`
}

// HasCap reports whether reaching MaxVotes closes the voting early.
func (v *Voting) HasCap() bool {
	return v.MaxVotes > 0
}

type VotingDetails struct {
	Voting    *Voting             `json:"voting"`
	Standings []CandidateStanding `json:"standings"`
}

func (s VotingStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *VotingStatus) UnmarshalText(text []byte) error {
	status, ok := StatusByName(string(text))
	if !ok {
		return fmt.Errorf("unknown voting status %q", text)
	}
	*s = status
	return nil
}
