package game

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// EventGameComplete is the analytics event name sent once per expired session.
const EventGameComplete = "game_complete"

// sinkTimeout bounds how long a completed session waits on the analytics sink.
const sinkTimeout = 2 * time.Second

// Sink receives the final score of every completed session.
type Sink interface {
	Track(ctx context.Context, event string, score int) error
}

// Engine owns a Session and the three periodic activities that drive it:
// the per-frame tick, the spawn timer and the countdown.
// All methods must be called from a single goroutine.
type Engine struct {
	tuning    Tuning
	session   *Session
	scheduler *Scheduler
	input     Input
	visible   bool
	sessionID string

	surface   Surface
	sink      Sink
	listeners []Listener
	logger    *log.Logger

	frameTask     TaskID
	spawnTask     TaskID
	countdownTask TaskID
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the randomness source for spawn decisions.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		e.session.rng = r
	}
}

// WithSurface attaches the surface rendered on every frame.
func WithSurface(s Surface) Option {
	return func(e *Engine) {
		e.surface = s
	}
}

// WithSink attaches the analytics sink notified when a session expires.
func WithSink(s Sink) Option {
	return func(e *Engine) {
		e.sink = s
	}
}

// WithListener registers a listener for session events.
func WithListener(l Listener) Option {
	return func(e *Engine) {
		if l != nil {
			e.listeners = append(e.listeners, l)
		}
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine with an idle, hidden session.
func NewEngine(t Tuning, opts ...Option) *Engine {
	e := &Engine{
		tuning:    t,
		session:   NewSession(t, rand.New(rand.NewSource(newSeed()))),
		scheduler: NewScheduler(),
		logger:    log.New(io.Discard),
	}
	e.session.emit = e.dispatch
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// newSeed draws a PRNG seed from crypto/rand, falling back to the clock.
func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Session exposes the session for read access.
func (e *Engine) Session() *Session {
	return e.session
}

// Scheduler exposes the engine clock.
func (e *Engine) Scheduler() *Scheduler {
	return e.scheduler
}

// Tuning returns the parameters the engine was built with.
func (e *Engine) Tuning() Tuning {
	return e.tuning
}

// Visible reports whether the game has been launched.
func (e *Engine) Visible() bool {
	return e.visible
}

// SessionID identifies the current or last session. Empty before the first start.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Launch makes the game visible and starts a session.
func (e *Engine) Launch() bool {
	e.visible = true
	return e.Start()
}

// Restart starts a new session after the previous one ended.
// Ignored while hidden or running.
func (e *Engine) Restart() bool {
	if !e.visible || e.session.Running() {
		return false
	}
	return e.Start()
}

// Start resets the session and schedules its periodic activities.
// Returns false if a session is already running.
func (e *Engine) Start() bool {
	if !e.session.Start() {
		return false
	}
	e.input = Input{}
	e.sessionID = uuid.NewString()

	e.scheduler.CancelAll()
	e.frameTask = e.scheduler.Every(e.tuning.FrameInterval, e.onFrame)
	e.spawnTask = e.scheduler.Every(e.tuning.SpawnInterval, e.onSpawn)
	e.countdownTask = e.scheduler.Every(e.tuning.CountdownInterval, e.onCountdown)

	e.logger.Info("Session started", "session", e.sessionID, "duration", e.tuning.Duration)
	e.onFrame()
	return true
}

// End stops a running session early. Analytics are not notified.
func (e *Engine) End() bool {
	if !e.session.Running() {
		return false
	}
	e.stop()
	e.session.End()
	e.logger.Info("Session ended", "session", e.sessionID, "score", e.session.Score(), "expired", false)
	e.draw()
	return true
}

// SetInput replaces the held directional input.
func (e *Engine) SetInput(in Input) {
	e.input = in
}

// Nudge moves the player one step, for drag-style input.
func (e *Engine) Nudge(dir int) {
	e.session.Nudge(dir)
}

// Advance moves the engine clock forward, running every activity that falls due.
func (e *Engine) Advance(dt time.Duration) {
	e.scheduler.Advance(dt)
}

// Draw renders the current state to the attached surface.
func (e *Engine) Draw() {
	e.draw()
}

func (e *Engine) onFrame() {
	if !e.session.Running() {
		return
	}
	e.session.Tick(e.input)
	e.draw()
}

func (e *Engine) onSpawn() {
	if !e.session.Running() {
		return
	}
	e.session.Spawn()
}

func (e *Engine) onCountdown() {
	if !e.session.Running() {
		return
	}
	if e.session.TimeRemaining() <= 1 {
		// Cancel everything before the transition so nothing fires after it.
		e.stop()
	}
	if e.session.Countdown() {
		e.complete()
	}
}

// stop cancels the three periodic activities.
func (e *Engine) stop() {
	e.scheduler.Cancel(e.frameTask)
	e.scheduler.Cancel(e.spawnTask)
	e.scheduler.Cancel(e.countdownTask)
}

// complete finishes a session that ran out of time.
func (e *Engine) complete() {
	score := e.session.Score()
	e.logger.Info("Session complete", "session", e.sessionID, "score", score, "expired", true)
	e.draw()
	e.track(score)
}

// track notifies the sink. Failures never reach the game.
func (e *Engine) track(score int) {
	if e.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()
	if err := e.sink.Track(ctx, EventGameComplete, score); err != nil {
		e.logger.Warn("Analytics sink failed", "session", e.sessionID, "err", err)
	}
}

func (e *Engine) draw() {
	if e.surface == nil || !e.visible {
		return
	}
	Render(e.session.Snapshot(), e.tuning, e.surface)
}

func (e *Engine) dispatch(ev Event) {
	for _, l := range e.listeners {
		l(ev)
	}
}
