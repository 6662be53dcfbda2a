package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/voting/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/voting/internal/config"
	"github.com/vncsmyrnk/voting/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.Postgres.Host, "db-host", cfg.Postgres.Host, "Database host")
	flag.StringVar(&cfg.Postgres.Port, "db-port", cfg.Postgres.Port, "Database port")
	flag.StringVar(&cfg.Postgres.User, "db-user", cfg.Postgres.User, "Database user")
	flag.StringVar(&cfg.Postgres.Password, "db-pass", cfg.Postgres.Password, "Database password")
	flag.StringVar(&cfg.Postgres.DB, "db-name", cfg.Postgres.DB, "Database name")
	timeout := flag.Duration("timeout", 5*time.Minute, "Job timeout")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	votingRepo := postgres.NewVotingRepository(db)
	resultRepo := postgres.NewVotingResultRepository(db)
	summaryService := services.NewSummaryService(votingRepo, resultRepo, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	logger.Info("voting report job starting",
		"event", "voting_report_job_starting",
		"module", "cmd/votingreport",
		"layer", "cmd",
	)

	if err := summaryService.SummarizeAllFinished(ctx); err != nil {
		log.Fatalf("Error generating voting reports: %v", err)
	}

	logger.Info("voting report job completed",
		"event", "voting_report_job_completed",
		"module", "cmd/votingreport",
		"layer", "cmd",
	)
}
