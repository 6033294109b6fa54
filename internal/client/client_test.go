package client

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/chaincollector/internal/draw"
	"github.com/tomz197/chaincollector/internal/game"
	"github.com/tomz197/chaincollector/internal/input"
)

// fixedRand returns the same roll every time. 0.5 spawns a single collectible
// block in the middle of the field, right above the starting player.
type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

func fixedSize(w, h int) draw.TermSizeFunc {
	return func() (int, int, error) { return w, h, nil }
}

func newTestClient(t *testing.T, out io.Writer, opts Options) *Client {
	t.Helper()
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = fixedSize(80, 30)
	}
	opts.EngineOptions = append(opts.EngineOptions, game.WithRand(fixedRand(0.5)))
	return New(pr, out, opts)
}

func TestFitField(t *testing.T) {
	tuning := game.DefaultTuning()
	tests := []struct {
		name               string
		termW, termH       int
		w, h, offCol, offR int
	}{
		{"height bound", 80, 24, 64, 24, 8, 0},
		{"width capped", 200, 60, 160, 60, 20, 0},
		{"tall terminal", 40, 40, 40, 15, 0, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, oc, or := fitField(tt.termW, tt.termH, tuning)
			if w != tt.w || h != tt.h || oc != tt.offCol || or != tt.offR {
				t.Fatalf("fitField(%d, %d) = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					tt.termW, tt.termH, w, h, oc, or, tt.w, tt.h, tt.offCol, tt.offR)
			}
		})
	}
}

func TestClientLaunchesOnStart(t *testing.T) {
	var out bytes.Buffer
	c := newTestClient(t, &out, Options{})
	now := time.Now()

	c.update(input.Input{Left: true}, now)
	if c.state.Screen != ScreenLaunch || c.engine.Visible() {
		t.Fatalf("left key left the launch screen")
	}
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame() = %v", err)
	}
	if !strings.Contains(out.String(), "CHAIN COLLECTOR") {
		t.Fatalf("launch screen missing title")
	}

	c.update(input.Input{Start: true}, now)
	if c.state.Screen != ScreenGame || !c.engine.Session().Running() {
		t.Fatalf("start did not launch a session")
	}

	out.Reset()
	c.state.delta = 100 * time.Millisecond
	c.update(input.Input{}, now)
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame() = %v", err)
	}
	for _, want := range []string{"SCORE: 0", "TIME: 30s", "CHAIN: 0/10"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("frame missing %q", want)
		}
	}
}

func TestClientMovesPlayerWithHeldInput(t *testing.T) {
	c := newTestClient(t, io.Discard, Options{})
	now := time.Now()
	c.update(input.Input{Start: true}, now)

	start := c.engine.Session().Player().X
	c.state.delta = 10 * c.engine.Tuning().FrameInterval
	c.update(input.Input{Right: true}, now)

	if got := c.engine.Session().Player().X; got <= start {
		t.Fatalf("player x = %g after holding right, started at %g", got, start)
	}
}

func TestClientQuit(t *testing.T) {
	c := newTestClient(t, io.Discard, Options{})
	c.update(input.Input{Quit: true}, time.Now())
	if c.state.Running {
		t.Fatalf("client still running after quit")
	}
}

func TestClientRestartAfterExpiry(t *testing.T) {
	c := newTestClient(t, io.Discard, Options{})
	now := time.Now()
	c.update(input.Input{Start: true}, now)

	c.state.delta = 31 * time.Second
	c.update(input.Input{}, now)
	if c.engine.Session().Phase() != game.PhaseEnded {
		t.Fatalf("phase = %v after 31s, want ended", c.engine.Session().Phase())
	}

	c.state.delta = 0
	c.update(input.Input{Start: true}, now)
	if !c.engine.Session().Running() || c.engine.Session().TimeRemaining() != 30 {
		t.Fatalf("enter did not restart the session")
	}
}

func TestClientInactivity(t *testing.T) {
	c := newTestClient(t, io.Discard, Options{
		InactivityWarn:       90 * time.Second,
		InactivityDisconnect: 120 * time.Second,
	})
	now := c.lastInput

	c.update(input.Input{}, now.Add(100*time.Second))
	if !c.state.isInactive || !c.state.Running {
		t.Fatalf("no warning after 100s idle: inactive=%v running=%v", c.state.isInactive, c.state.Running)
	}

	c.update(input.Input{Pressed: []byte{'x'}}, now.Add(110*time.Second))
	if c.state.isInactive {
		t.Fatalf("key press did not clear the warning")
	}

	c.update(input.Input{}, now.Add(231*time.Second))
	if c.state.Running {
		t.Fatalf("client still running after 121s idle")
	}
}

func TestClientReportsRecordsToHub(t *testing.T) {
	hub := NewHub()
	player := newTestClient(t, io.Discard, Options{Hub: hub, Username: "ana"})
	watcher := newTestClient(t, io.Discard, Options{Hub: hub, Username: "bo"})
	now := time.Now()

	player.update(input.Input{Start: true}, now)
	player.state.delta = 31 * time.Second
	player.update(input.Input{}, now)

	final := player.engine.Session().Summary().Score
	if final == 0 {
		t.Fatalf("blocks spawning over the player scored nothing")
	}
	if best := hub.Best(); best != (Record{Username: "ana", Score: final}) {
		t.Fatalf("hub best = %+v, want ana %d", best, final)
	}

	watcher.update(input.Input{}, now)
	if watcher.state.record.Score != final {
		t.Fatalf("watcher record = %+v, want %d", watcher.state.record, final)
	}
}

func TestClientManualEndIsNotARecord(t *testing.T) {
	hub := NewHub()
	c := newTestClient(t, io.Discard, Options{Hub: hub, Username: "ana"})
	now := time.Now()

	c.update(input.Input{Start: true}, now)
	c.state.delta = 10 * time.Second
	c.update(input.Input{}, now)
	c.shutdown()

	if hub.Best().Score != 0 {
		t.Fatalf("abandoned session recorded %+v", hub.Best())
	}
	if hub.Count() != 0 {
		t.Fatalf("client still registered after shutdown")
	}
}

func TestClientHubShutdown(t *testing.T) {
	hub := NewHub()
	c := newTestClient(t, io.Discard, Options{Hub: hub})
	now := time.Now()

	done := make(chan struct{})
	go func() {
		hub.Shutdown(5 * time.Second)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for c.state.Screen != ScreenShutdown {
		if time.Now().After(deadline) {
			t.Fatalf("shutdown event never arrived")
		}
		c.update(input.Input{}, now)
		time.Sleep(5 * time.Millisecond)
	}

	c.state.delta = time.Duration(ShutdownDisplaySeconds * float64(time.Second))
	c.update(input.Input{}, now)
	if c.state.Running {
		t.Fatalf("client still running after the shutdown notice")
	}
	c.shutdown()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("hub.Shutdown did not return after the last client left")
	}
}
