package main

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hostal_ops/internal/adapters/observability"
	redisad "hostal_ops/internal/adapters/redis"
	"hostal_ops/internal/app"
	"hostal_ops/internal/shared"
	mysqlrepo "hostal_ops/internal/storage/mysql"
)

// planner regenerates the cleaning schedule for every hotel over the
// configured horizon. Meant to run nightly from cron.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Strs("hotels", cfg.Hotels).
		Int("workers", cfg.Workers).
		Int("days", cfg.PlanDays).
		Msg("planner starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	plan := app.NewPlanService(repo, repo, cache, cfg.CacheTTL)

	from := time.Now().UTC().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, cfg.PlanDays)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, hotel := range cfg.Hotels {
		hotel := hotel

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotel string) {
			defer wg.Done()
			defer sem.Release(int64(1))

			n, err := plan.GenerateForRange(ctx, hotel, from, to)
			if err != nil {
				log.Warn().Str("hotel", hotel).Err(err).Msg("generation failed")
				return
			}
			log.Info().Str("hotel", hotel).Int("rows", n).Msg("generation ok")
		}(hotel)
	}

	wg.Wait()
	log.Info().Msg("planning completed")
}
