// Package audio plays short synthesized sound effects for session events.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/tomz197/chaincollector/internal/game"
)

// SampleRate is the output rate of every effect.
const SampleRate = beep.SampleRate(44100)

// Effect durations
const (
	blipDuration  = 60 * time.Millisecond
	plainDuration = 40 * time.Millisecond
	noteDuration  = 90 * time.Millisecond
	buzzDuration  = 180 * time.Millisecond
	attack        = 5 * time.Millisecond
)

// Base pitches
const (
	pitchCollect = 660.0 // E5, raised a semitone per chain link
	pitchPlain   = 330.0
	pitchBuzz    = 110.0
)

// square is a band-limited-enough square wave for retro buzzes.
type square struct {
	freq  float64
	phase float64
	left  int
}

func newSquare(freq float64, d time.Duration) beep.Streamer {
	return &square{freq: freq, left: SampleRate.N(d)}
}

func (s *square) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.left <= 0 {
			return i, i > 0
		}
		v := -1.0
		if s.phase < 0.5 {
			v = 1.0
		}
		samples[i][0], samples[i][1] = v, v
		s.phase += s.freq / float64(SampleRate)
		s.phase -= math.Floor(s.phase)
		s.left--
	}
	return len(samples), true
}

func (s *square) Err() error { return nil }

// fade applies a linear attack and release to a stream of known length.
type fade struct {
	streamer beep.Streamer
	pos      int
	total    int
	attack   int
}

func newFade(s beep.Streamer, d, att time.Duration) beep.Streamer {
	return &fade{streamer: s, total: SampleRate.N(d), attack: SampleRate.N(att)}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if f.pos < f.attack {
			vol = float64(f.pos) / float64(f.attack)
		} else if f.total > f.attack {
			vol = float64(f.total-f.pos) / float64(f.total-f.attack)
		}
		vol = math.Max(vol, 0)
		samples[i][0] *= vol
		samples[i][1] *= vol
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// sine is a faded sine note of the given length.
func sine(freq float64, d time.Duration) beep.Streamer {
	tone, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return nil
	}
	return newFade(beep.Take(SampleRate.N(d), tone), d, attack)
}

// volume scales a stream linearly; 0 silences it.
func volume(s beep.Streamer, v float64) beep.Streamer {
	if s == nil {
		return nil
	}
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// semitone returns freq raised by n semitones.
func semitone(freq float64, n int) float64 {
	return freq * math.Pow(2, float64(n)/12)
}

// seq chains notes, skipping any that failed to build.
func seq(notes ...beep.Streamer) beep.Streamer {
	kept := notes[:0]
	for _, n := range notes {
		if n != nil {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return beep.Seq(kept...)
}

// Effect returns the sound for ev, or nil for silent events.
func Effect(ev game.Event) beep.Streamer {
	switch ev.Type {
	case game.EventStarted:
		return volume(seq(
			sine(semitone(pitchCollect, -12), noteDuration),
			sine(pitchCollect, noteDuration),
		), 0.4)
	case game.EventCollected:
		// Climb the scale as the chain grows; the completing pickup is covered
		// by the chain-complete fanfare.
		return volume(sine(semitone(pitchCollect, ev.Combo), blipDuration), 0.4)
	case game.EventPlainCollected:
		return volume(sine(pitchPlain, plainDuration), 0.25)
	case game.EventChainComplete:
		return volume(seq(
			sine(semitone(pitchCollect, 12), noteDuration),
			sine(semitone(pitchCollect, 16), noteDuration),
			sine(semitone(pitchCollect, 19), noteDuration),
			sine(semitone(pitchCollect, 24), 2*noteDuration),
		), 0.45)
	case game.EventChainBroken:
		return volume(newFade(newSquare(pitchBuzz, buzzDuration), buzzDuration, attack), 0.15)
	case game.EventEnded:
		return volume(seq(
			sine(pitchCollect, noteDuration),
			sine(semitone(pitchCollect, -5), noteDuration),
			sine(semitone(pitchCollect, -12), 2*noteDuration),
		), 0.4)
	}
	return nil
}
