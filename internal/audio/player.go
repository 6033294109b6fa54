package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/chaincollector/internal/game"
)

// maxVoices caps overlapping effects so a burst of pickups stays audible.
const maxVoices = 8

// Player mixes effects into the speaker. A Player that failed to initialise
// stays silent.
type Player struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	enabled bool
	lock    func()
	unlock  func()
}

// NewPlayer creates a silent player. Call Init to open the audio device.
func NewPlayer() *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		lock:   func() {},
		unlock: func() {},
	}
}

// Init opens the speaker and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
		return err
	}
	p.lock, p.unlock = speaker.Lock, speaker.Unlock
	speaker.Play(p.mixer)
	p.enabled = true
	return nil
}

// Close stops all sounds and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	p.lock()
	p.mixer.Clear()
	p.unlock()
	speaker.Close()
	p.enabled = false
}

// Play adds s to the mix. Ignored when disabled or too many sounds overlap.
func (p *Player) Play(s beep.Streamer) {
	if s == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	p.lock()
	defer p.unlock()
	if p.mixer.Len() >= maxVoices {
		return
	}
	p.mixer.Add(s)
}

// Listener returns an engine listener that plays the effect for each event.
func (p *Player) Listener() game.Listener {
	return func(ev game.Event) {
		p.Play(Effect(ev))
	}
}
