package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"procure-to-pay/internal/adapters/cli"
	"procure-to-pay/internal/api"
	"procure-to-pay/internal/app"
	"procure-to-pay/internal/config"
	"procure-to-pay/internal/db"
	"procure-to-pay/internal/logger"
	"procure-to-pay/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	deps := func() (*cli.Deps, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		log, err := logger.Setup(cfg.LoggerConfig())
		if err != nil {
			return nil, err
		}
		// Commands run on cmd.Context(), which carries no logger of its own.
		cliLog := log.With().Str("component", "cli").Logger()
		zerolog.DefaultContextLogger = &cliLog

		client := api.NewClient(api.Config{
			BaseURL: cfg.BackendURL,
			Token:   cfg.BackendToken,
			Timeout: cfg.BackendTimeout,
		})
		d := &cli.Deps{Finder: client}

		if cfg.DatabaseURL == "" {
			d.Service = app.NewAppService(client, nil)
			return d, nil
		}
		pool, err = db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st := store.New(pool)
		d.Service = app.NewAppService(client, st)
		d.History = st
		log.Debug().Msg("local store enabled")
		return d, nil
	}

	root := cli.NewRootCommand(deps)
	err := root.ExecuteContext(ctx)
	if pool != nil {
		pool.Close()
	}
	if err != nil {
		l := logger.WithComponent("cli")
		l.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
