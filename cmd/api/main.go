package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "github.com/Moowses/stay-engine/internal/adapters/http_server"
	"github.com/Moowses/stay-engine/internal/adapters/observability"
	"github.com/Moowses/stay-engine/internal/adapters/pms"
	redisad "github.com/Moowses/stay-engine/internal/adapters/redis"
	"github.com/Moowses/stay-engine/internal/app"
	"github.com/Moowses/stay-engine/internal/domain"
	"github.com/Moowses/stay-engine/internal/shared"
	mysqlrepo "github.com/Moowses/stay-engine/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// optional telemetry sink
	var sink domain.TelemetrySink = app.NoopTelemetry{}
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		repo := mysqlrepo.New(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("telemetry schema setup failed")
		}
		sink = repo
		log.Info().Msg("telemetry sink ready")
	}

	// deps
	client, err := pms.New(cfg.PMSBase, cfg.PMSKey, cfg.PMSRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PMS client")
	}
	svc := app.NewService(client, sink, cfg.DefaultCurrency)
	sessions := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Svc: svc, Sessions: sessions, SessionTTL: cfg.SessionTTL})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
