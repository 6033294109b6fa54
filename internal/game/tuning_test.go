package game

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultTuningIsValid(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Fatalf("DefaultTuning().Validate() = %v", err)
	}
}

func TestTuningValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
	}{
		{"zero field", func(t *Tuning) { t.FieldWidth = 0 }},
		{"player wider than field", func(t *Tuning) { t.PlayerWidth = t.FieldWidth + 1 }},
		{"player below field", func(t *Tuning) { t.PlayerOffset = t.FieldHeight + 1 }},
		{"inverted fall speed", func(t *Tuning) { t.MinFallSpeed, t.MaxFallSpeed = 3, 2 }},
		{"threshold above one", func(t *Tuning) { t.CollectibleThreshold = 1.5 }},
		{"negative double threshold", func(t *Tuning) { t.DoubleSpawnThreshold = -0.1 }},
		{"zero frame interval", func(t *Tuning) { t.FrameInterval = 0 }},
		{"negative spawn interval", func(t *Tuning) { t.SpawnInterval = -time.Second }},
		{"zero duration", func(t *Tuning) { t.Duration = 0 }},
		{"zero combo threshold", func(t *Tuning) { t.ComboThreshold = 0 }},
		{"negative bonus", func(t *Tuning) { t.ComboBonus = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning := DefaultTuning()
			tt.mutate(&tuning)
			err := tuning.Validate()
			if !errors.Is(err, ErrInvalidTuning) {
				t.Fatalf("Validate() = %v, want ErrInvalidTuning", err)
			}
		})
	}
}

func TestCustomScoringConstants(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ItemScore = 3
	tuning.ComboThreshold = 2
	tuning.ComboBonus = 7

	rng := &scriptedRand{}
	rng.queue(true, centered)
	rng.queue(true, centered)
	s := NewSession(tuning, rng)
	s.Start()

	for i := 0; i < 2; i++ {
		s.Spawn()
		tickUntilEmpty(t, s)
	}

	if s.Score() != 3+3+7 {
		t.Fatalf("score = %d, want 13", s.Score())
	}
	if s.Combo() != 0 {
		t.Fatalf("combo = %d, want 0", s.Combo())
	}
}
