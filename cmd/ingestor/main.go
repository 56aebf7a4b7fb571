package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_block/internal/adapters/observability"
	"review_block/internal/adapters/opentech"
	redisad "review_block/internal/adapters/redis"
	"review_block/internal/app"
	"review_block/internal/shared"
	mysqlrepo "review_block/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.OpentechBase).
		Int("workers", cfg.Workers).
		Int("submissions", len(cfg.SubmissionIDs)).
		Msg("ingestor starting")
	if len(cfg.SubmissionIDs) == 0 {
		log.Warn().Msg("INGEST_SUBMISSION_IDS is empty; nothing to do")
		return
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := opentech.New(cfg.OpentechBase, cfg.OpentechKey, cfg.OpentechRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize opentech client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	ing := app.NewIngestionService(client, repo, cache)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range cfg.SubmissionIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("stopping: context done")
			break
		}

		wg.Add(1)
		go func(submissionID int64) {
			defer wg.Done()
			defer sem.Release(1)

			if err := ing.IngestSubmission(ctx, submissionID); err != nil {
				log.Warn().Int64("submission", submissionID).Err(err).Msg("ingest failed")
				return
			}
			log.Info().Int64("submission", submissionID).Msg("ingest ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}
