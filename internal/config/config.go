// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/tomz197/chaincollector/internal/game"
)

// Config holds settings shared by every binary. Each binary reads the fields
// it needs.
type Config struct {
	SSHHost        string `env:"SSH_HOST"`
	SSHPort        string `env:"SSH_PORT"`
	SSHHostKey     string `env:"SSH_HOST_KEY"`
	SSHDisplayHost string `env:"SSH_DISPLAY_HOST"`

	WebHost string `env:"WEB_HOST"`
	WebPort string `env:"WEB_PORT"`

	Player   string `env:"PLAYER"` // local binaries only; SSH uses the login name
	ScoresDB string `env:"SCORES_DB"` // empty disables score storage
	LogLevel string `env:"LOG_LEVEL"`
	Sound    bool   `env:"SOUND"`

	InactivityWarn       time.Duration `env:"INACTIVITY_WARN"`
	InactivityDisconnect time.Duration `env:"INACTIVITY_DISCONNECT"`

	Game game.Tuning `envPrefix:"GAME_"`
}

// Default returns the settings used when nothing is overridden.
func Default() Config {
	return Config{
		SSHHost:              "::",
		SSHPort:              "2222",
		SSHHostKey:           "/app/keys/host_key",
		SSHDisplayHost:       "your-server.com",
		WebHost:              "0.0.0.0",
		WebPort:              "8080",
		LogLevel:             "info",
		Sound:                true,
		InactivityWarn:       90 * time.Second,
		InactivityDisconnect: 120 * time.Second,
		Game:                 game.DefaultTuning(),
	}
}

// Load reads .env (if present) and the environment over the defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv parses the current environment over the defaults and validates the
// result.
func FromEnv() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPlayer names local players when neither PLAYER nor USER is set.
const DefaultPlayer = "local"

// LocalPlayer is the name local binaries record scores under: PLAYER, then
// USER, then DefaultPlayer.
func (c Config) LocalPlayer() string {
	for _, name := range []string{c.Player, os.Getenv("USER")} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return DefaultPlayer
}

// Validate checks the settings that cannot be fixed up with a default.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.InactivityWarn <= 0 || c.InactivityDisconnect <= c.InactivityWarn {
		return fmt.Errorf("inactivity disconnect (%s) must be after warn (%s)", c.InactivityDisconnect, c.InactivityWarn)
	}
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("game tuning: %w", err)
	}
	return nil
}

// NewLogger builds a timestamped logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefix,
		Level:           level,
	})
}

// Logger is NewLogger on stderr.
func (c Config) Logger(prefix string) *log.Logger {
	return c.NewLogger(os.Stderr, prefix)
}
