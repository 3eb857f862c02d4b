package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groovebox/internal/logging"
	"groovebox/internal/store"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fallback := logging.New(logging.Config{})
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	dataStore, err := store.New(cfg.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open data store")
	}

	if err := bootstrapDemoUser(dataStore, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to bootstrap demo user")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepBlocklist(ctx, dataStore, cfg.SweepInterval, logger)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: newHTTPHandler(cfg, dataStore, logger),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	logger.Info().Str("addr", cfg.Addr).Msg("API listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}
}

// sweepBlocklist periodically drops expired token-blocklist entries.
func sweepBlocklist(ctx context.Context, dataStore *store.Store, interval time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := dataStore.SweepExpiredTokens(time.Now().UTC())
			if err != nil {
				logger.Error().Err(err).Msg("blocklist sweep failed")
				continue
			}
			if removed > 0 {
				logger.Info().Int("removed", removed).Msg("blocklist sweep completed")
			}
		}
	}
}
