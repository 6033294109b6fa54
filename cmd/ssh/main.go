package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/chaincollector/internal/analytics"
	"github.com/tomz197/chaincollector/internal/client"
	"github.com/tomz197/chaincollector/internal/config"
	"github.com/tomz197/chaincollector/internal/draw"
	"github.com/tomz197/chaincollector/internal/game"
)

// server holds what every SSH session shares.
type server struct {
	cfg    config.Config
	hub    *client.Hub
	store  *analytics.Store // nil when SCORES_DB is unset
	logger *log.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.Logger("ssh")

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("Failed to get working directory", "error", workErr)
	}
	logger.Info("SSH config", "host", cfg.SSHHost, "port", cfg.SSHPort, "hostKeyPath", cfg.SSHHostKey, "workingDir", workingDir)

	srv := &server{cfg: cfg, hub: client.NewHub(), logger: logger}
	if cfg.ScoresDB != "" {
		srv.store, err = analytics.Open(cfg.ScoresDB)
		if err != nil {
			logger.Fatal("Failed to open score store", "path", cfg.ScoresDB, "error", err)
		}
		defer srv.store.Close()
		logger.Info("Recording scores", "path", cfg.ScoresDB)
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSHHost, cfg.SSHPort)),
		wish.WithMiddleware(
			srv.gameMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSHHostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSHHostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("Failed to create server", "error", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(cfg.SSHHost, cfg.SSHPort))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("Server error", "error", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Tell connected players and wait for them to leave
	logger.Info("Notifying connected players about shutdown", "players", srv.hub.Count())
	srv.hub.Shutdown(15 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
}

// gameMiddleware runs one game client per SSH session.
func (srv *server) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := srv.logger.With("user", sess.User())
		logger.Info("New game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c := client.New(bufio.NewReader(sess), sess, client.Options{
			TermSizeFunc:         sizeTracker.getSize,
			Username:             sess.User(),
			Tuning:               srv.cfg.Game,
			Hub:                  srv.hub,
			Logger:               logger,
			EngineOptions:        []game.Option{game.WithSink(srv.sink(sess.User()))},
			InactivityWarn:       srv.cfg.InactivityWarn,
			InactivityDisconnect: srv.cfg.InactivityDisconnect,
		})
		if err := c.Run(sess.Context()); err != nil {
			logger.Error("Game error", "error", err)
		}

		logger.Info("Connection closed")
		next(sess)
	}
}

// sink records completed sessions for one player, or nil without a store.
// The engine logs completed sessions itself.
func (srv *server) sink(player string) game.Sink {
	if srv.store == nil {
		return nil
	}
	return &analytics.PlayerSink{Store: srv.store, Player: player}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
