package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/voting/internal/core/domain"
)

func TestSummaryService(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t, lifecycleNow)
	svc := NewSummaryService(f.store, f.store, discardLogger())

	alice := f.addCandidate(t, "Alekseeva")
	boris := f.addCandidate(t, "Borisov")
	first := f.seedVoting(t, domain.StatusFinished, lifecycleNow.Add(-3*time.Hour), lifecycleNow.Add(-time.Hour), 0, alice, boris)
	second := f.seedVoting(t, domain.StatusFinished, lifecycleNow.Add(-3*time.Hour), lifecycleNow.Add(-time.Hour), 0, alice)
	active := f.seedVoting(t, domain.StatusActive, lifecycleNow.Add(-time.Hour), lifecycleNow.Add(time.Hour), 0, alice)

	f.castVote(t, first.ID, alice.ID, "10.0.0.1")
	f.castVote(t, first.ID, boris.ID, "10.0.0.2")
	f.castVote(t, first.ID, boris.ID, "10.0.0.3")
	f.castVote(t, second.ID, alice.ID, "10.0.0.1")
	f.castVote(t, active.ID, alice.ID, "10.0.0.1")

	t.Run("single report", func(t *testing.T) {
		require.NoError(t, svc.GenerateReport(ctx, first))

		results, err := f.store.GetResults(ctx, first.ID)
		require.NoError(t, err)
		counts := make(map[string]int64)
		for _, r := range results {
			counts[r.CandidateID.String()] = r.VoteCount
		}
		assert.Equal(t, int64(1), counts[alice.ID.String()])
		assert.Equal(t, int64(2), counts[boris.ID.String()])
	})

	t.Run("all finished votings", func(t *testing.T) {
		require.NoError(t, svc.SummarizeAllFinished(ctx))

		results, err := f.store.GetResults(ctx, second.ID)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, int64(1), results[0].VoteCount)

		results, err = f.store.GetResults(ctx, active.ID)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
