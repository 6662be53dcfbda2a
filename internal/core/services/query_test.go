package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

func invalidInput(t *testing.T, err error) *domain.InvalidInputError {
	t.Helper()
	var inputErr *domain.InvalidInputError
	require.True(t, errors.As(err, &inputErr), "expected invalid input error, got %v", err)
	return inputErr
}

func TestParseVotingQueryStatuses(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []domain.VotingStatus
	}{
		{"empty means all", nil, domain.AllStatuses()},
		{"codes", []string{"3,4"}, []domain.VotingStatus{domain.StatusActive, domain.StatusFinished}},
		{"names", []string{"active", "Waiting"}, []domain.VotingStatus{domain.StatusActive, domain.StatusWaitingBeginning}},
		{"separators collapse", []string{"finished_without  voters"}, []domain.VotingStatus{domain.StatusFinishedWithoutVoters}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := ParseVotingQuery(ports.VotingQueryInput{Statuses: tt.raw})
			require.NoError(t, err)
			assert.Equal(t, tt.want, filter.Statuses)
		})
	}

	t.Run("unknown token", func(t *testing.T) {
		_, err := ParseVotingQuery(ports.VotingQueryInput{Statuses: []string{"active,closed"}})
		inputErr := invalidInput(t, err)
		assert.Equal(t, "status", inputErr.Field)
	})

	t.Run("code out of range", func(t *testing.T) {
		_, err := ParseVotingQuery(ports.VotingQueryInput{Statuses: []string{"7"}})
		invalidInput(t, err)
	})

	t.Run("blank tokens", func(t *testing.T) {
		_, err := ParseVotingQuery(ports.VotingQueryInput{Statuses: []string{" , "}})
		inputErr := invalidInput(t, err)
		assert.Equal(t, "required argument not supplied", inputErr.Message)
	})

	t.Run("restricted to public statuses", func(t *testing.T) {
		_, err := ParseVotingQuery(ports.VotingQueryInput{Statuses: []string{"draft"}, RestrictStatus: true})
		inputErr := invalidInput(t, err)
		assert.Equal(t, "ACTIVE[3] or FINISHED[4]", inputErr.Details["must be"])
		assert.Equal(t, false, inputErr.ToMap()["status"])
	})
}

func TestParseVotingQueryDates(t *testing.T) {
	filter, err := ParseVotingQuery(ports.VotingQueryInput{From: "2026-03-01 10:00", To: "2026-03-31"})
	require.NoError(t, err)
	require.NotNil(t, filter.StartFrom)
	require.NotNil(t, filter.EndTo)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *filter.StartFrom)
	assert.Equal(t, time.Date(2026, 3, 31, 23, 59, 59, 999999000, time.UTC), *filter.EndTo)

	t.Run("bad format", func(t *testing.T) {
		_, err := ParseVotingQuery(ports.VotingQueryInput{From: "01/03/2026"})
		inputErr := invalidInput(t, err)
		assert.Equal(t, "from", inputErr.Field)
		assert.Equal(t, "2006-01-02", inputErr.Details["format"])
	})

	t.Run("from after to", func(t *testing.T) {
		_, err := ParseVotingQuery(ports.VotingQueryInput{From: "2026-04-01", To: "2026-03-01"})
		inputErr := invalidInput(t, err)
		assert.Equal(t, "to", inputErr.Field)
		assert.Equal(t, "must be less or equal from", inputErr.Message)
	})

	t.Run("same day", func(t *testing.T) {
		_, err := ParseVotingQuery(ports.VotingQueryInput{From: "2026-03-01", To: "2026-03-01"})
		assert.NoError(t, err)
	})
}

func TestParseVotingQuerySort(t *testing.T) {
	filter, err := ParseVotingQuery(ports.VotingQueryInput{Sort: "-end_date, title,+created"})
	require.NoError(t, err)
	assert.Equal(t, []ports.SortField{
		{Column: "end_date", Desc: true},
		{Column: "title"},
		{Column: "created"},
	}, filter.Sort)

	_, err = ParseVotingQuery(ports.VotingQueryInput{Sort: "votes"})
	inputErr := invalidInput(t, err)
	assert.Equal(t, "sort", inputErr.Field)
	assert.Equal(t, "invalid argument value[votes]", inputErr.Message)
}
