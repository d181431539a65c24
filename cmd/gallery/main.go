package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"photogallery/internal/logging"
	"photogallery/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	snapshotter, cleanup, err := newSnapshotter(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open favorites persistence")
	}
	defer cleanup()

	favStore := store.Open(ctx, snapshotter)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: newHTTPHandler(cfg, favStore),
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("photo_api", cfg.PhotoAPIURL).Msg("gallery API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// newSnapshotter picks the persistence backend: Postgres when DATABASE_URL
// is set, a local JSON file otherwise.
func newSnapshotter(ctx context.Context, cfg Config) (store.Snapshotter, func(), error) {
	if cfg.DatabaseURL == "" {
		return store.NewFileSnapshotter(cfg.FavoritesFile), func() {}, nil
	}

	db, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	snapshotter, err := store.NewPGSnapshotter(ctx, db, "default")
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return snapshotter, func() { db.Close() }, nil
}
