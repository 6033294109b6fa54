package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/chaincollector/internal/draw"
	"github.com/tomz197/chaincollector/internal/game"
)

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

// row returns the runes of one screen row.
func row(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func screenHas(screen tcell.Screen, text string) bool {
	_, h := screen.Size()
	for y := 0; y < h; y++ {
		if strings.Contains(row(screen, y), text) {
			return true
		}
	}
	return false
}

func TestSurfaceFitsField(t *testing.T) {
	screen := newScreen(t, 80, 24)
	s := NewSurface(screen, 400, 300)

	w, h := s.Size()
	if w != 64 || h != 24 {
		t.Fatalf("Size() = (%d, %d), want (64, 24)", w, h)
	}
	if s.offX != 8 || s.offY != 0 {
		t.Fatalf("offset = (%d, %d), want (8, 0)", s.offX, s.offY)
	}
}

func TestSurfaceDrawsBlocks(t *testing.T) {
	screen := newScreen(t, 40, 15)
	s := NewSurface(screen, 400, 300)

	s.BeginFrame()
	s.FillRect(0, 0, 400, 300, game.ColorInk)
	s.FillRect(100, 100, 20, 20, game.ColorNeon)
	s.Show()

	r, _, style, _ := screen.GetContent(10, 5)
	if r != draw.BlockUpperHalf {
		t.Fatalf("cell (10, 5) = %q, want half block", r)
	}
	fg, bg, _ := style.Decompose()
	neon := tcell.NewRGBColor(0, 255, 102)
	if fg != neon || bg != neon {
		t.Fatalf("cell colours fg=%v bg=%v, want neon", fg, bg)
	}

	r, _, style, _ = screen.GetContent(20, 5)
	fg, _, _ = style.Decompose()
	if r != draw.BlockUpperHalf || fg != tcell.NewRGBColor(0, 0, 0) {
		t.Fatalf("background cell = %q fg=%v, want ink half block", r, fg)
	}
}

func TestSurfaceDrawsText(t *testing.T) {
	screen := newScreen(t, 40, 15)
	s := NewSurface(screen, 400, 300)

	s.BeginFrame()
	s.FillRect(0, 0, 400, 300, game.ColorInk)
	s.DrawText(10, 22, "SCORE: 7", game.ColorPaper)
	s.Show()

	if !screenHas(screen, "SCORE: 7") {
		t.Fatalf("text not on screen")
	}
}

func TestAppLaunchAndPlay(t *testing.T) {
	screen := newScreen(t, 80, 30)
	app := New(screen, game.DefaultTuning(), nil, game.WithRand(fixedRand(0.5)))
	now := time.Now()

	app.step(frameTime, now)
	if !screenHas(screen, "PRESS ENTER TO PLAY") {
		t.Fatalf("launch screen missing prompt")
	}

	app.handleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), now)
	app.step(frameTime, now)
	if !app.Engine().Session().Running() {
		t.Fatalf("enter did not launch a session")
	}

	x := app.Engine().Session().Player().X
	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), now)
	app.step(10*game.DefaultTuning().FrameInterval, now)
	if app.Engine().Session().Player().X >= x {
		t.Fatalf("holding 'a' did not move the player left")
	}
	if !screenHas(screen, "TIME: 30s") {
		t.Fatalf("HUD missing from the game screen")
	}

	app.step(31*time.Second, now.Add(time.Second))
	if !screenHas(screen, "GAME OVER") {
		t.Fatalf("summary missing after expiry")
	}
}

func TestAppQuitKeys(t *testing.T) {
	for _, key := range []tcell.Key{tcell.KeyEscape, tcell.KeyCtrlC} {
		screen := newScreen(t, 80, 30)
		app := New(screen, game.DefaultTuning(), nil)
		now := time.Now()

		app.handleEvent(tcell.NewEventKey(key, 0, tcell.ModNone), now)
		app.step(frameTime, now)
		if !app.quit {
			t.Fatalf("key %v did not quit", key)
		}
	}
}

func TestAppMouseDragNudgesPlayer(t *testing.T) {
	screen := newScreen(t, 80, 30)
	app := New(screen, game.DefaultTuning(), nil, game.WithRand(fixedRand(0.5)))
	now := time.Now()
	speed := game.DefaultTuning().PlayerSpeed

	app.handleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), now)
	app.step(frameTime, now)
	x := app.Engine().Session().Player().X

	app.handleEvent(tcell.NewEventMouse(40, 10, tcell.Button1, tcell.ModNone), now)
	if got := app.Engine().Session().Player().X; got != x {
		t.Fatalf("press alone moved the player to %v", got)
	}
	app.handleEvent(tcell.NewEventMouse(30, 10, tcell.Button1, tcell.ModNone), now)
	if got, want := app.Engine().Session().Player().X, x-speed; got != want {
		t.Fatalf("drag left: X = %v, want %v", got, want)
	}
	app.handleEvent(tcell.NewEventMouse(35, 10, tcell.Button1, tcell.ModNone), now)
	if got := app.Engine().Session().Player().X; got != x {
		t.Fatalf("drag right: X = %v, want %v", got, x)
	}

	app.handleEvent(tcell.NewEventMouse(35, 10, tcell.ButtonNone, tcell.ModNone), now)
	app.handleEvent(tcell.NewEventMouse(20, 10, tcell.Button1, tcell.ModNone), now)
	if got := app.Engine().Session().Player().X; got != x {
		t.Fatalf("new press after release moved the player to %v", got)
	}
}

func TestPollEventsStopsWhenDone(t *testing.T) {
	screen := newScreen(t, 80, 30)
	app := New(screen, game.DefaultTuning(), nil)

	events := make(chan tcell.Event) // never read
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		app.pollEvents(events, done)
		close(finished)
	}()

	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	close(done)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatalf("event poller blocked on a full channel after done")
	}
	if _, ok := <-events; ok {
		t.Fatalf("events channel left open")
	}
}
