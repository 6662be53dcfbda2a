package services

import (
	"fmt"
	"time"

	"github.com/vncsmyrnk/voting/internal/core/domain"
)

const (
	DefaultMinVotingDuration = time.Hour

	minStartLead         = time.Minute
	minTitleLength       = 5
	maxTitleLength       = 30
	maxDescriptionLength = 1024
	displayTimeLayout    = "2006-01-02 15:04:05"
)

type TransitionInput struct {
	// Persisted is the stored record, nil when the voting is new.
	Persisted   *domain.Voting
	StartDate   time.Time
	EndDate     time.Time
	Draft       bool
	Now         time.Time
	MinDuration time.Duration
}

// ComputeTransition decides the status a voting is saved with. It has no side
// effects: persistence and job scheduling happen afterwards in SaveVoting.
// On failure the previous status is returned with a *domain.ValidationError.
func ComputeTransition(in TransitionInput) (domain.VotingStatus, error) {
	previous := domain.StatusUnknown
	if in.Persisted != nil {
		previous = in.Persisted.Status
	}

	if in.Draft {
		if previous.Live() {
			return previous, nonFieldError(fmt.Sprintf("Cannot change %s voting to DRAFT", previous))
		}
		return domain.StatusDraft, nil
	}

	status := previous
	if status == domain.StatusUnknown {
		status = domain.StatusWaitingBeginning
	}

	checkStart := true
	if in.Persisted != nil {
		switch {
		case status == domain.StatusDraft:
			status = domain.StatusWaitingBeginning
		case in.StartDate.Equal(in.Persisted.StartDate):
			checkStart = false
		case status.Live():
			return previous, nonFieldError(fmt.Sprintf("Cannot change start date for %s voting", status))
		default:
			status = domain.StatusWaitingBeginning
		}
	}

	verr := &domain.ValidationError{}
	if checkStart {
		minimum := in.Now.Add(minStartLead)
		if in.StartDate.Before(minimum) {
			verr.Add("start_date", fmt.Sprintf("Voting's start date must be greater than %s (now + 1 min)",
				minimum.Format(displayTimeLayout)))
		}
	}

	if in.EndDate.Before(in.StartDate) {
		verr.Add("end_date", "Voting's end date must be greater than start date")
	} else if in.EndDate.Before(in.StartDate.Add(in.MinDuration)) {
		verr.Add("end_date", fmt.Sprintf("Voting's duration cannot be less than %s", in.MinDuration))
	}

	if !verr.Empty() {
		return previous, verr
	}
	return status, nil
}

func nonFieldError(message string) *domain.ValidationError {
	verr := &domain.ValidationError{}
	verr.Add(domain.NonFieldErrors, message)
	return verr
}

// DefaultStartDate is the next full hour (two hours ahead past minute 50),
// moved into the 08:00-22:00 window.
func DefaultStartDate(now time.Time) time.Time {
	hour := now.Hour() + 1
	if now.Minute() >= 50 {
		hour = now.Hour() + 2
	}

	day := now
	if hour < 8 || hour >= 22 {
		if hour >= 22 {
			day = day.AddDate(0, 0, 1)
		}
		hour = 8
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, now.Location())
}

func DefaultEndDate(now time.Time) time.Time {
	return DefaultStartDate(now).AddDate(0, 0, 1)
}
