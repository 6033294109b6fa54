package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/chaincollector/internal/analytics"
	"github.com/tomz197/chaincollector/internal/client"
	"github.com/tomz197/chaincollector/internal/config"
	"github.com/tomz197/chaincollector/internal/game"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	// The screen owns stdout, so logs go to stderr only when it is redirected.
	logger := cfg.NewLogger(os.Stderr, "game")
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logger.SetOutput(io.Discard)
	}

	player := cfg.LocalPlayer()
	logger = logger.With("player", player)
	var engineOpts []game.Option
	if cfg.ScoresDB != "" {
		store, err := analytics.Open(cfg.ScoresDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "scores error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		engineOpts = append(engineOpts, game.WithSink(&analytics.PlayerSink{Store: store, Player: player}))
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(bufio.NewReader(os.Stdin), os.Stdout, client.Options{
		Username:      player,
		Tuning:        cfg.Game,
		Logger:        logger,
		EngineOptions: engineOpts,
	})
	if err := c.Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
