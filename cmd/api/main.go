package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hostal_ops/internal/adapters/auth"
	server "hostal_ops/internal/adapters/http_server"
	"hostal_ops/internal/adapters/observability"
	redisad "hostal_ops/internal/adapters/redis"
	"hostal_ops/internal/app"
	"hostal_ops/internal/shared"
	mysqlrepo "hostal_ops/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, responses will not be cached")
	}

	tokens := auth.New(cfg.AuthSecret, cfg.TokenTTL, repo)
	if err := tokens.EnsureAdmin(context.Background(), cfg.AdminUser, cfg.AdminPass); err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin failed")
	}

	perms := app.NewPermissionResolver(cfg.PermTTL,
		app.StorePermissions{Repo: repo},
		app.SnapshotPermissions{Path: cfg.PermSnapshot},
		app.DefaultsPermissions{},
	)

	plan := app.NewPlanService(repo, repo, cache, cfg.CacheTTL)
	loans := app.NewLoanService(repo, cache, cfg.CacheTTL)
	stock := app.NewStockService(repo)
	staff := app.NewStaffService(repo)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Auth:      tokens,
		Perms:     perms,
		Plan:      plan,
		Loans:     loans,
		Stock:     stock,
		Staff:     staff,
		PermStore: repo,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
