package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/chaincollector/internal/game"
	"github.com/tomz197/chaincollector/internal/input"
)

const frameTime = 16 * time.Millisecond // ~60 FPS

// App runs one engine on a tcell screen.
type App struct {
	screen  tcell.Screen
	engine  *game.Engine
	surface *Surface
	hold    *input.Hold
	logger  *log.Logger
	quit    bool

	dragging bool
	dragX    int // column of the last drag event
}

// New creates an app drawing to an initialised screen. Engine options are
// applied after the app's own surface and logger.
func New(screen tcell.Screen, t game.Tuning, logger *log.Logger, opts ...game.Option) *App {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	a := &App{
		screen:  screen,
		surface: NewSurface(screen, t.FieldWidth, t.FieldHeight),
		hold:    input.NewHold(input.DefaultHoldWindow),
		logger:  logger,
	}
	base := []game.Option{game.WithSurface(a.surface), game.WithLogger(logger)}
	a.engine = game.NewEngine(t, append(base, opts...)...)
	return a
}

// Engine exposes the app's engine.
func (a *App) Engine() *game.Engine {
	return a.engine
}

// Run polls screen events and drives the engine until the player quits or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go a.pollEvents(eventChan, done)

	last := time.Now()
	a.drawLaunch()
	for !a.quit {
		select {
		case <-ctx.Done():
			a.quit = true
		case ev, ok := <-eventChan:
			if !ok {
				a.quit = true
				break
			}
			a.handleEvent(ev, time.Now())
		case now := <-ticker.C:
			a.step(now.Sub(last), now)
			last = now
		}
	}

	a.engine.End()
	return nil
}

// pollEvents forwards screen events until the screen is finalised or done is
// closed.
func (a *App) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// handleEvent records key presses and resizes.
func (a *App) handleEvent(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyLeft:
			a.hold.Press(input.KeyLeft, now)
		case tcell.KeyRight:
			a.hold.Press(input.KeyRight, now)
		case tcell.KeyEnter:
			a.hold.Press(input.KeyStart, now)
		case tcell.KeyEscape, tcell.KeyCtrlC:
			a.hold.Press(input.KeyQuit, now)
		case tcell.KeyRune:
			if k, ok := input.KeyForRune(ev.Rune()); ok {
				a.hold.Press(k, now)
			}
		}
	case *tcell.EventMouse:
		a.handleDrag(ev)
	case *tcell.EventResize:
		a.screen.Sync()
		a.surface.Resize()
		a.engine.Draw()
	}
}

// handleDrag moves the player one step per column dragged with the primary
// button held.
func (a *App) handleDrag(ev *tcell.EventMouse) {
	x, _ := ev.Position()
	if ev.Buttons()&tcell.Button1 == 0 {
		a.dragging = false
		return
	}
	if a.dragging && x != a.dragX {
		a.engine.Nudge(x - a.dragX)
	}
	a.dragging, a.dragX = true, x
}

// step applies held input and advances the engine by dt.
func (a *App) step(dt time.Duration, now time.Time) {
	in := a.hold.Poll(now)
	if in.Quit {
		a.quit = true
		return
	}

	if !a.engine.Visible() {
		if in.Start {
			a.hold.Reset()
			a.engine.Launch()
		} else {
			a.drawLaunch()
			return
		}
	} else {
		a.engine.SetInput(game.Input{Left: in.Left, Right: in.Right})
		if in.Start && a.engine.Restart() {
			a.hold.Reset()
		}
		a.engine.Advance(dt)
	}
	a.surface.Show()
}

// drawLaunch shows the title screen on an empty field.
func (a *App) drawLaunch() {
	t := a.engine.Tuning()
	a.surface.BeginFrame()
	a.surface.FillRect(0, 0, t.FieldWidth, t.FieldHeight, game.ColorInk)

	lines := []struct {
		text string
		c    game.Color
	}{
		{"CHAIN COLLECTOR", game.ColorNeon},
		{"CATCH GREEN BLOCKS, DON'T MISS ONE", game.ColorPaper},
		{"PRESS ENTER TO PLAY", game.ColorFaded},
	}
	y := t.FieldHeight/2 - 20
	for _, l := range lines {
		w := a.surface.TextWidth(l.text)
		a.surface.DrawText(t.FieldWidth/2-w/2, y, l.text, l.c)
		y += 30
	}
	a.surface.Show()
}
