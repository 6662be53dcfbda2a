package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/voting/internal/core/domain"
)

func TestStatusUpdaterRetries(t *testing.T) {
	now := time.Now()
	f := newLifecycleFixture(t, now)
	voting := f.seedVoting(t, domain.StatusWaitingBeginning, now, now.Add(time.Hour), 0)

	t.Run("succeeds after transient failures", func(t *testing.T) {
		f.votings.SetFailures(2)
		updater := NewStatusUpdater(f.votings, 5, time.Millisecond, discardLogger())

		ok := updater.TrySetStatus(context.Background(), voting, domain.StatusActive)
		assert.True(t, ok)
		assert.Equal(t, 3, f.votings.Attempts())
		assert.Equal(t, domain.StatusActive, f.status(t, voting.ID))
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		f.votings.SetFailures(10)
		updater := NewStatusUpdater(f.votings, 2, time.Millisecond, discardLogger())

		ok := updater.TrySetStatus(context.Background(), voting, domain.StatusFinished)
		assert.False(t, ok)
		assert.Equal(t, 3, f.votings.Attempts())
		assert.Equal(t, domain.StatusActive, f.status(t, voting.ID))
	})

	t.Run("zero retries means a single attempt", func(t *testing.T) {
		f.votings.SetFailures(1)
		updater := NewStatusUpdater(f.votings, 0, time.Millisecond, nil)

		assert.False(t, updater.TrySetStatus(context.Background(), voting, domain.StatusFinished))
		assert.Equal(t, 1, f.votings.Attempts())
	})

	t.Run("stops waiting when the context ends", func(t *testing.T) {
		f.votings.SetFailures(10)
		updater := NewStatusUpdater(f.votings, 5, time.Hour, discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		started := time.Now()
		assert.False(t, updater.TrySetStatus(ctx, voting, domain.StatusFinished))
		assert.Less(t, time.Since(started), time.Minute)
		assert.Equal(t, 1, f.votings.Attempts())
	})
}

func TestSleepContext(t *testing.T) {
	require.True(t, sleepContext(context.Background(), 0))
	require.True(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.False(t, sleepContext(ctx, time.Hour))
}
