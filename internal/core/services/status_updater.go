package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

const (
	DefaultStatusRetryCount = 5
	DefaultStatusRetryDelay = 5 * time.Second
)

type statusUpdater struct {
	repo    ports.VotingRepository
	retries int
	delay   time.Duration
	logger  *slog.Logger
}

// NewStatusUpdater retries a failed status write up to retries more times,
// sleeping delay between attempts. It must only run on job workers.
func NewStatusUpdater(repo ports.VotingRepository, retries int, delay time.Duration, logger *slog.Logger) ports.StatusUpdater {
	if retries < 0 {
		retries = 0
	}
	return &statusUpdater{
		repo:    repo,
		retries: retries,
		delay:   delay,
		logger:  logger,
	}
}

func (u *statusUpdater) TrySetStatus(ctx context.Context, voting *domain.Voting, status domain.VotingStatus) bool {
	logger := ResolveLogger(u.logger)

	for attempt := 0; attempt <= u.retries; attempt++ {
		if attempt > 0 && !sleepContext(ctx, u.delay) {
			logger.Warn("voting status retries interrupted",
				"event", "voting_status_update_interrupted",
				"module", moduleName,
				"layer", "service",
				"voting_id", voting.ID.String(),
				"status", status.String(),
				"attempt", attempt,
			)
			return false
		}

		err := u.repo.UpdateStatus(ctx, voting.ID, status)
		if err == nil {
			logger.Info("voting status updated",
				"event", "voting_status_updated",
				"module", moduleName,
				"layer", "service",
				"voting_id", voting.ID.String(),
				"title", voting.Title,
				"status", status.String(),
				"attempt", attempt,
			)
			return true
		}

		logger.Error("unable to set voting status",
			"event", "voting_status_update_failed",
			"module", moduleName,
			"layer", "service",
			"voting_id", voting.ID.String(),
			"title", voting.Title,
			"status", status.String(),
			"attempt", attempt,
			"error", err.Error(),
		)
	}

	return false
}
