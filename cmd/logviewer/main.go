package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sjsage522/slotwatcher/config"
	"sjsage522/slotwatcher/logger"
	"sjsage522/slotwatcher/services/viewer"
)

func main() {
	godotenv.Load()

	logger.Init()
	log := logger.ForViewer()

	cfg := config.LoadConfig()

	srv := &http.Server{
		Addr:              cfg.ViewerAddr,
		Handler:           viewer.NewServer(cfg.LogPath, cfg.ViewerTitle),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", cfg.ViewerAddr).
		Str("log_path", cfg.LogPath).
		Msg("Serving run log")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Viewer stopped")
	}
}
