package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/chaincollector/internal/analytics"
	"github.com/tomz197/chaincollector/internal/audio"
	"github.com/tomz197/chaincollector/internal/config"
	"github.com/tomz197/chaincollector/internal/game"
	"github.com/tomz197/chaincollector/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// tcell owns the terminal; logs are only kept when stderr is redirected.
	logger := cfg.NewLogger(os.Stderr, "tui")
	if fi, err := os.Stderr.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		logger.SetOutput(io.Discard)
	}

	player := cfg.LocalPlayer()
	logger = logger.With("player", player)
	var opts []game.Option
	if cfg.ScoresDB != "" {
		store, err := analytics.Open(cfg.ScoresDB)
		if err != nil {
			return fmt.Errorf("open scores: %w", err)
		}
		defer store.Close()
		opts = append(opts, game.WithSink(&analytics.PlayerSink{Store: store, Player: player}))
	}

	if cfg.Sound {
		sound := audio.NewPlayer()
		if err := sound.Init(); err != nil {
			logger.Warn("Sound disabled", "error", err)
		} else {
			defer sound.Close()
			opts = append(opts, game.WithListener(sound.Listener()))
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()
	screen.EnableMouse()
	screen.Clear()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tui.New(screen, cfg.Game, logger, opts...).Run(ctx)
}
