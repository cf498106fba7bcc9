package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "vayada_admin/internal/adapters/http_server"
	"vayada_admin/internal/adapters/observability"
	redisad "vayada_admin/internal/adapters/redis"
	"vayada_admin/internal/adapters/vayada"
	"vayada_admin/internal/app"
	"vayada_admin/internal/domain"
	"vayada_admin/internal/shared"
	mysqlrepo "vayada_admin/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

	client, err := vayada.New(cfg.APIURL,
		vayada.WithRateLimit(cfg.APIRPS),
		vayada.WithRetries(cfg.APIRetries),
		vayada.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backend client")
	}

	// audit journal is optional
	var audit *app.Auditor
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		audit = app.NewAuditor(mysqlrepo.New(db), nil)
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}

	users := app.NewUsersService(client, audit)
	h := &server.Handlers{
		Users:          users,
		Collaborations: app.NewCollaborationsService(client),
		Marketplace:    app.NewMarketplaceService(client, cache, cfg.CacheTTL),
		Stats:          app.NewStatsService(users),
		Audit:          audit,
		PageSize:       cfg.PageSize,
	}

	// http
	srv := server.New(cfg.APITimeout + 5*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(h)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.APIURL).Msg("gateway listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("gateway stopped")
}
