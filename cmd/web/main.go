package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tomz197/chaincollector/internal/analytics"
	"github.com/tomz197/chaincollector/internal/config"
	"github.com/tomz197/chaincollector/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.Logger("web")
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := web.Options{SSHHost: cfg.SSHDisplayHost, Logger: logger}
	if cfg.ScoresDB != "" {
		store, err := analytics.Open(cfg.ScoresDB)
		if err != nil {
			logger.Fatal("Failed to open score store", "path", cfg.ScoresDB, "error", err)
		}
		defer store.Close()
		opts.Scores = store
	}

	addr := net.JoinHostPort(cfg.WebHost, cfg.WebPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           web.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting web server", "url", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
}
