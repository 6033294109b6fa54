// Package client runs a chain collector engine in an ANSI terminal, locally or
// over an SSH session.
package client

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/chaincollector/internal/draw"
	"github.com/tomz197/chaincollector/internal/game"
	"github.com/tomz197/chaincollector/internal/input"
)

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Tuning       game.Tuning
	// EngineOptions are passed to game.NewEngine after the client's own.
	EngineOptions []game.Option
	Hub           *Hub
	Logger        *log.Logger
	// InactivityWarn and InactivityDisconnect enable the idle timeout when
	// InactivityDisconnect is positive.
	InactivityWarn       time.Duration
	InactivityDisconnect time.Duration
	HoldWindow           time.Duration
}

// Client handles rendering and input for a single terminal.
type Client struct {
	engine       *game.Engine
	surface      *Surface
	state        *State
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	hub          *Hub
	handle       *Handle
	logger       *log.Logger
	renderer     *lipgloss.Renderer
	panels       panelCache

	inactivityWarn       time.Duration
	inactivityDisconnect time.Duration
}

// New creates a client reading keys from r and drawing to w.
func New(r io.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tuning := opts.Tuning
	if tuning.FieldWidth == 0 {
		tuning = game.DefaultTuning()
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := fitField(termWidth, termHeight, tuning)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, tuning.FieldWidth, tuning.FieldHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(termenv.TrueColor)

	c := &Client{
		surface:              NewSurface(canvas),
		state:                NewState(),
		canvas:               canvas,
		chunkWriter:          draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:               w,
		inputStream:          input.StartStream(r, opts.HoldWindow),
		lastInput:            time.Now(),
		username:             opts.Username,
		termSizeFunc:         termSizeFunc,
		hub:                  opts.Hub,
		logger:               logger,
		renderer:             renderer,
		inactivityWarn:       opts.InactivityWarn,
		inactivityDisconnect: opts.InactivityDisconnect,
	}
	if c.inactivityDisconnect > 0 && (c.inactivityWarn <= 0 || c.inactivityWarn > c.inactivityDisconnect) {
		c.inactivityWarn = c.inactivityDisconnect
	}
	if c.hub != nil {
		c.handle = c.hub.Register(opts.Username)
		c.state.record = c.hub.Best()
	}

	engineOpts := []game.Option{
		game.WithSurface(c.surface),
		game.WithLogger(logger),
		game.WithListener(c.onEvent),
	}
	c.engine = game.NewEngine(tuning, append(engineOpts, opts.EngineOptions...)...)
	return c
}

// Engine exposes the client's engine.
func (c *Client) Engine() *game.Engine {
	return c.engine
}

// Run starts the client loop. Blocks until the player quits, the input ends,
// the context is cancelled or the hub shuts down.
func (c *Client) Run(ctx context.Context) error {
	draw.EnterScreen(c.writer)
	defer draw.LeaveScreen(c.writer)

	lastTime := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for c.state.Running {
		select {
		case <-ctx.Done():
			c.state.Running = false
			continue
		case <-timer.C:
		}

		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.update(c.inputStream.ReadInput(frameStart), frameStart)
		if !c.state.Running {
			break
		}
		c.updateScreen()

		if err := c.drawFrame(); err != nil {
			c.shutdown()
			return err
		}

		timer.Reset(max(TargetFrameTime-time.Since(frameStart), 0))
	}

	c.shutdown()
	return nil
}

// shutdown ends an unfinished session and leaves the hub.
func (c *Client) shutdown() {
	c.engine.End()
	if c.hub != nil {
		c.hub.Unregister(c.handle.ID)
		c.hub = nil
	}
}

// update applies one frame of input and advances the engine.
func (c *Client) update(in input.Input, now time.Time) {
	c.processActivity(in, now)
	if in.Quit {
		c.state.Running = false
		return
	}
	c.processHubEvents()

	switch c.state.Screen {
	case ScreenLaunch:
		if in.Start {
			c.inputStream.ResetKeyInput()
			c.engine.Launch()
			c.state.Screen = ScreenGame
		}
	case ScreenGame:
		c.engine.SetInput(game.Input{Left: in.Left, Right: in.Right})
		if in.Start && c.engine.Restart() {
			c.inputStream.ResetKeyInput()
		}
		c.engine.Advance(c.state.delta)
	case ScreenShutdown:
		c.state.shutdownTimer -= c.state.delta.Seconds()
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}

// processActivity tracks the last key press for the idle timeout.
func (c *Client) processActivity(in input.Input, now time.Time) {
	if c.inactivityDisconnect <= 0 {
		return
	}
	idle := now.Sub(c.lastInput)
	switch {
	case len(in.Pressed) > 0:
		c.lastInput = now
		c.state.isInactive = false
	case idle > c.inactivityDisconnect:
		c.logger.Info("Disconnecting idle player", "user", c.username, "idle", idle.Round(time.Second))
		c.state.Running = false
	case idle > c.inactivityWarn:
		c.state.isInactive = true
	}
}

// processHubEvents handles events from the hub.
func (c *Client) processHubEvents() {
	if c.handle == nil {
		return
	}
	for {
		select {
		case ev, ok := <-c.handle.Events:
			if !ok {
				c.state.Running = false
				return
			}
			switch ev.Type {
			case HubShutdown:
				if c.state.Screen != ScreenShutdown {
					c.state.Screen = ScreenShutdown
					c.state.shutdownTimer = ShutdownDisplaySeconds
				}
			case HubRecord:
				c.state.record = Record{Username: ev.Username, Score: ev.Score}
			}
		default:
			return
		}
	}
}

// onEvent reports expired sessions to the hub.
func (c *Client) onEvent(ev game.Event) {
	if ev.Type != game.EventEnded || c.hub == nil {
		return
	}
	if c.engine.Session().Summary().Expired && c.hub.Report(c.username, ev.Score) {
		c.logger.Info("New best score", "user", c.username, "score", ev.Score)
	}
}

// updateScreen handles terminal resize. On actual size changes the terminal is
// cleared to remove residual pixels outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := fitField(termWidth, termHeight, c.engine.Tuning())

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.chunkWriter)
		c.canvas.Resize(renderWidth, renderHeight)
		c.canvas.SetOffset(offsetCol, offsetRow)
		c.canvas.ForceRedraw()
		c.chunkWriter.SetOffset(offsetCol, offsetRow)
		// The canvas is rescaled; redraw the engine's last frame.
		c.engine.Draw()
	}
}

// fitField sizes the canvas for the terminal.
func fitField(termWidth, termHeight int, t game.Tuning) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	return draw.FitArea(termWidth, termHeight, t.FieldWidth/t.FieldHeight, MaxRenderWidth, MinRenderWidth)
}
