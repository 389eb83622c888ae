package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	router "github.com/collabhub-in/collabhub/internal/adapters/http"
	"github.com/collabhub-in/collabhub/internal/ai"
	"github.com/collabhub-in/collabhub/internal/config"
	"github.com/collabhub-in/collabhub/internal/fileshare"
	"github.com/collabhub-in/collabhub/internal/hub"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to create data dir")
	}
	db, err := gorm.Open(sqlite.Open(filepath.Join(cfg.DataDir, "collabhub.db")), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	files, err := fileshare.NewStore(db, filepath.Join(cfg.DataDir, "blobs"), cfg.FileTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init file store")
	}
	files.StartSweeper(ctx, cfg.SweepInterval)

	// The synchronization core: explicit registries handed to the
	// router, no package-level state.
	state := hub.NewState()
	registry := hub.NewRegistry()
	rooms := hub.NewRooms()
	hubRouter := hub.NewRouter(state, registry, rooms)

	aiClient := ai.NewClient(cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)

	r := router.SetupRouter(ctx, cfg, hubRouter, registry, aiClient, files)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("CollabHub server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
