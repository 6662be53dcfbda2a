package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/voting/internal/adapters/handler/http"
	"github.com/vncsmyrnk/voting/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/voting/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/voting/internal/adapters/scheduler"
	"github.com/vncsmyrnk/voting/internal/config"
	"github.com/vncsmyrnk/voting/internal/core/ports"
	"github.com/vncsmyrnk/voting/internal/core/services"
)

const moduleName = "cmd/server"

type repositories struct {
	votings    ports.VotingRepository
	votes      ports.VoteRepository
	candidates ports.CandidateRepository
	results    ports.VotingResultRepository
	close      func() error
}

func openRepositories(cfg config.Config) (*repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		store := memory.NewStore()
		return &repositories{
			votings:    store,
			votes:      store,
			candidates: store.Candidates(),
			results:    store,
			close:      func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &repositories{
		votings:    postgres.NewVotingRepository(db),
		votes:      postgres.NewVoteRepository(db),
		candidates: postgres.NewCandidateRepository(db),
		results:    postgres.NewVotingResultRepository(db),
		close:      db.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	repos, err := openRepositories(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer repos.close()

	jobs := scheduler.Shared(scheduler.Options{
		WorkerCount:         cfg.Scheduler.ThreadWorkerCount,
		IsolatedPool:        cfg.Scheduler.ProcessPoolEnabled,
		IsolatedWorkerCount: cfg.Scheduler.ProcessWorkerCount,
		MisfireGrace:        cfg.Scheduler.MisfireGrace(),
		MaxInstances:        cfg.Scheduler.MaxInstances,
		Logger:              logger,
	})

	updater := services.NewStatusUpdater(repos.votings, cfg.Voting.ActivateCloseRetryCount, cfg.Voting.StatusRetryDelay, logger)
	summary := services.NewSummaryService(repos.votings, repos.results, logger)
	lifecycle := services.NewLifecycleService(repos.votings, jobs, updater, summary, services.SystemClock, services.LifecycleConfig{
		MinVotingDuration:     cfg.Voting.MinVotingDuration,
		GenerateReportOnClose: cfg.Voting.GenerateReportOnClose,
	}, logger)
	voteService := services.NewVoteService(repos.votings, repos.votes, lifecycle, cfg.Voting.CheckIPAddress, logger)
	queryService := services.NewVotingService(repos.votings, repos.candidates, cfg.Voting.MaxRowsPerRequest)
	candidateService := services.NewCandidateService(repos.candidates)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := lifecycle.Reconcile(ctx); err != nil {
		logger.Error("startup reconciliation failed",
			"event", "voting_reconcile_failed",
			"module", moduleName,
			"layer", "cmd",
			"error", err.Error(),
		)
	}

	handler := http.NewHandler(
		http.NewVotingHandler(queryService, lifecycle),
		http.NewVoteHandler(voteService),
		http.NewCandidateHandler(candidateService),
	)
	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: handler}

	go func() {
		logger.Info("http server starting",
			"event", "http_server_starting",
			"module", moduleName,
			"layer", "cmd",
			"addr", cfg.HTTPAddr,
			"storage", cfg.StorageDriver,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down",
		"event", "http_server_stopping",
		"module", moduleName,
		"layer", "cmd",
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
	if err := jobs.Shutdown(shutdownCtx); err != nil {
		logger.Warn("scheduler did not stop in time",
			"event", "scheduler_shutdown_timeout",
			"module", moduleName,
			"layer", "cmd",
			"error", err.Error(),
		)
	}
}
