// Package game implements the chain collector session engine.
package game

import (
	"slices"

	"github.com/tomz197/chaincollector/internal/physics"
)

// Phase represents the current lifecycle phase of a session.
type Phase int

const (
	PhaseIdle    Phase = iota // Never started
	PhaseRunning              // Countdown in progress
	PhaseEnded                // Countdown expired or ended manually, state frozen
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Summary is the terminal result of a session.
type Summary struct {
	Score          int
	Collected      int // Collectible blocks caught
	PlainCollected int
	Chains         int // Completed chains
	Broken         int // Chains broken by a missed collectible
	Expired        bool
}

// Snapshot is an immutable copy of session state for rendering.
type Snapshot struct {
	Phase         Phase
	Score         int
	TimeRemaining int
	Combo         int
	Player        Player
	Blocks        []Block
	Summary       Summary
}

// Session holds the state of one timed play-through.
// It has no notion of time; the Engine drives Tick, Spawn and Countdown.
type Session struct {
	tuning Tuning
	rng    Rand
	emit   func(Event)

	phase         Phase
	score         int
	timeRemaining int
	combo         int
	player        Player
	blocks        []Block
	nextID        int
	ticks         int
	summary       Summary
}

// NewSession creates an idle session.
func NewSession(t Tuning, rng Rand) *Session {
	return &Session{
		tuning:        t,
		rng:           rng,
		timeRemaining: t.Duration,
		player:        newPlayer(t),
	}
}

// Start resets all session state and enters the running phase.
// Returns false and does nothing if the session is already running.
func (s *Session) Start() bool {
	if s.phase == PhaseRunning {
		return false
	}
	s.score = 0
	s.timeRemaining = s.tuning.Duration
	s.combo = 0
	s.blocks = s.blocks[:0]
	s.nextID = 0
	s.ticks = 0
	s.summary = Summary{}
	s.player = newPlayer(s.tuning)
	s.phase = PhaseRunning
	s.publish(Event{Type: EventStarted})
	return true
}

// End freezes the session. Returns false if it was not running.
func (s *Session) End() bool {
	if s.phase != PhaseRunning {
		return false
	}
	s.phase = PhaseEnded
	s.summary.Score = s.score
	s.summary.Expired = s.timeRemaining == 0
	s.publish(Event{Type: EventEnded})
	return true
}

// Running reports whether the session accepts ticks.
func (s *Session) Running() bool {
	return s.phase == PhaseRunning
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score
}

// TimeRemaining returns the remaining countdown ticks.
func (s *Session) TimeRemaining() int {
	return s.timeRemaining
}

// Combo returns the current chain counter.
func (s *Session) Combo() int {
	return s.combo
}

// Ticks returns the number of simulation ticks since Start.
func (s *Session) Ticks() int {
	return s.ticks
}

// Player returns a copy of the collector.
func (s *Session) Player() Player {
	return s.player
}

// Blocks returns a copy of the live blocks in spawn order.
func (s *Session) Blocks() []Block {
	return slices.Clone(s.blocks)
}

// Summary returns the final result. Only meaningful once ended.
func (s *Session) Summary() Summary {
	return s.summary
}

// Snapshot copies everything a renderer needs.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Phase:         s.phase,
		Score:         s.score,
		TimeRemaining: s.timeRemaining,
		Combo:         s.combo,
		Player:        s.player,
		Blocks:        s.Blocks(),
		Summary:       s.summary,
	}
}

// Tick advances the simulation by one frame: move, fall, collide, clean up.
func (s *Session) Tick(in Input) {
	if s.phase != PhaseRunning {
		return
	}
	s.ticks++

	s.player.move(in, s.tuning.maxPlayerX())

	for i := range s.blocks {
		s.blocks[i].Y += s.blocks[i].Speed
	}

	s.resolveCollisions()
	s.removeFallen()
}

// Nudge moves the player one speed step in the direction of dir's sign.
// Used for drag-style input where there is no held key.
func (s *Session) Nudge(dir int) {
	if s.phase != PhaseRunning || dir == 0 {
		return
	}
	s.player.move(Input{Left: dir < 0, Right: dir > 0}, s.tuning.maxPlayerX())
}

// Countdown consumes one second of play time and ends the session at zero.
// Returns true if this call ended the session.
func (s *Session) Countdown() bool {
	if s.phase != PhaseRunning {
		return false
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.timeRemaining == 0 {
		return s.End()
	}
	return false
}

// publish forwards an event to the owner, if any.
func (s *Session) publish(ev Event) {
	if s.emit == nil {
		return
	}
	ev.Score = s.score
	ev.Combo = s.combo
	s.emit(ev)
}

// playerBounds returns the collector rectangle used for collision tests.
func (s *Session) playerBounds() physics.Rect {
	return s.player.Bounds()
}
