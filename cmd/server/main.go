package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "procure-to-pay/internal/adapters/web"
	"procure-to-pay/internal/api"
	"procure-to-pay/internal/app"
	"procure-to-pay/internal/config"
	"procure-to-pay/internal/db"
	"procure-to-pay/internal/logger"
	"procure-to-pay/internal/store"
	"procure-to-pay/migrations"
)

func main() {
	boot := logger.WithComponent("server")
	cfg, err := config.Load()
	if err != nil {
		boot.Fatal().Err(err).Msg("config")
	}
	base, err := logger.Setup(cfg.LoggerConfig())
	if err != nil {
		boot.Fatal().Err(err).Msg("logger")
	}
	log := base.With().Str("component", "server").Logger()
	if err := cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	client := api.NewClient(api.Config{
		BaseURL: cfg.BackendURL,
		Token:   cfg.BackendToken,
		Timeout: cfg.BackendTimeout,
	})

	var svc app.ApplicationService
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL is not set; draft conflicts are checked against the backend only")
		svc = app.NewAppService(client, nil)
	} else {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("database")
		}
		defer pool.Close()
		if err := store.Migrate(ctx, pool, migrations.FS); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
		svc = app.NewAppService(client, store.New(pool))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           webAdapter.NewHandler(svc, base, cfg.AllowedOrigins, cfg.JWTSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.BackendURL).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}
}
