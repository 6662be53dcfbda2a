package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

func TestListVotings(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t, lifecycleNow)
	svc := NewVotingService(f.store, f.store.Candidates(), 2)

	later := f.seedVoting(t, domain.StatusActive, lifecycleNow.Add(-time.Hour), lifecycleNow.Add(time.Hour), 0)
	earlier := f.seedVoting(t, domain.StatusActive, lifecycleNow.Add(-2*time.Hour), lifecycleNow.Add(2*time.Hour), 0)
	finished := f.seedVoting(t, domain.StatusFinished, lifecycleNow.Add(-3*time.Hour), lifecycleNow.Add(-time.Hour), 0)
	f.seedVoting(t, domain.StatusDraft, lifecycleNow, lifecycleNow.Add(time.Hour), 0)

	t.Run("ordered by start date", func(t *testing.T) {
		votings, err := svc.ListVotings(ctx, ports.VotingQueryInput{Statuses: []string{"active"}})
		require.NoError(t, err)
		require.Len(t, votings, 2)
		assert.Equal(t, earlier.ID, votings[0].ID)
		assert.Equal(t, later.ID, votings[1].ID)
	})

	t.Run("limited to max rows", func(t *testing.T) {
		votings, err := svc.ListVotings(ctx, ports.VotingQueryInput{Statuses: []string{"3,4"}, Sort: "-end_date"})
		require.NoError(t, err)
		require.Len(t, votings, 2)
		assert.Equal(t, earlier.ID, votings[0].ID)
		assert.Equal(t, later.ID, votings[1].ID)
	})

	t.Run("finished only", func(t *testing.T) {
		votings, err := svc.ListVotings(ctx, ports.VotingQueryInput{Statuses: []string{"FINISHED"}, RestrictStatus: true})
		require.NoError(t, err)
		require.Len(t, votings, 1)
		assert.Equal(t, finished.ID, votings[0].ID)
	})

	t.Run("invalid input never reaches storage", func(t *testing.T) {
		_, err := svc.ListVotings(ctx, ports.VotingQueryInput{Statuses: []string{"draft"}, RestrictStatus: true})
		invalidInput(t, err)
	})
}

func TestGetVotingDetails(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t, lifecycleNow)
	svc := NewVotingService(f.store, f.store.Candidates(), 0)

	alice := f.addCandidate(t, "Alekseeva")
	boris := f.addCandidate(t, "Borisov")
	voting := f.seedVoting(t, domain.StatusActive, lifecycleNow.Add(-time.Hour), lifecycleNow.Add(time.Hour), 0, alice, boris)
	f.castVote(t, voting.ID, boris.ID, "10.0.0.1")
	f.castVote(t, voting.ID, boris.ID, "10.0.0.2")
	f.castVote(t, voting.ID, alice.ID, "10.0.0.3")

	details, err := svc.GetVotingDetails(ctx, voting.ID.String())
	require.NoError(t, err)
	assert.Equal(t, voting.ID, details.Voting.ID)
	require.Len(t, details.Standings, 2)
	assert.Equal(t, boris.ID, details.Standings[0].Candidate.ID)
	assert.Equal(t, int64(2), details.Standings[0].VotesCount)
	assert.Equal(t, int64(1), details.Standings[1].VotesCount)

	_, err = svc.GetVotingDetails(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidVotingID)

	_, err = svc.GetVotingDetails(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrVotingNotFound)
}
