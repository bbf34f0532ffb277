package main

import (
	"context"
	"errors"
	"net/http"

	"tourism/internal/api"
	"tourism/internal/app"
	"tourism/internal/config"
	"tourism/internal/env"
	"tourism/internal/logging"
	"tourism/pkg/graceful"
)

func main() {
	env.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	svc, err := app.NewService(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build recommend service")
	}

	opts := api.Options{
		CORSOrigins:       cfg.Server.CORSOrigins,
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
	}
	if cfg.Archive.Enabled {
		archive, err := app.NewArchive(ctx, cfg.Archive)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to connect to archive")
		}
		opts.Archive = archive
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(svc, opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Bool("archive", cfg.Archive.Enabled).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("http server failed")
		}
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("http server shutdown failed")
	}
	logging.Info().Msg("server stopped")
}
