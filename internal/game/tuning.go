package game

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTuning is wrapped by Tuning.Validate for any rejected parameter.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning centralizes all tunable game parameters.
// Distances are logical field units, speeds are units per tick.
type Tuning struct {
	// Play field
	FieldWidth  float64 `env:"FIELD_WIDTH"`
	FieldHeight float64 `env:"FIELD_HEIGHT"`

	// Player
	PlayerWidth  float64 `env:"PLAYER_WIDTH"`
	PlayerHeight float64 `env:"PLAYER_HEIGHT"`
	PlayerSpeed  float64 `env:"PLAYER_SPEED"`
	PlayerOffset float64 `env:"PLAYER_OFFSET"` // Distance from the bottom edge to the player's top

	// Blocks
	BlockSize    float64 `env:"BLOCK_SIZE"`
	MinFallSpeed float64 `env:"MIN_FALL_SPEED"`
	MaxFallSpeed float64 `env:"MAX_FALL_SPEED"`

	// Spawning. A roll above the threshold makes the block collectible / adds a second block.
	CollectibleThreshold float64 `env:"COLLECTIBLE_THRESHOLD"`
	DoubleSpawnThreshold float64 `env:"DOUBLE_SPAWN_THRESHOLD"`

	// Timing
	FrameInterval     time.Duration `env:"FRAME_INTERVAL"`
	SpawnInterval     time.Duration `env:"SPAWN_INTERVAL"`
	CountdownInterval time.Duration `env:"COUNTDOWN_INTERVAL"`
	Duration          int           `env:"DURATION"` // Session length in countdown ticks (seconds)

	// Scoring
	ItemScore      int `env:"ITEM_SCORE"`
	PlainScore     int `env:"PLAIN_SCORE"`
	ComboThreshold int `env:"COMBO_THRESHOLD"`
	ComboBonus     int `env:"COMBO_BONUS"`
}

// DefaultTuning returns the classic 30-second game.
func DefaultTuning() Tuning {
	return Tuning{
		FieldWidth:  400,
		FieldHeight: 300,

		PlayerWidth:  32,
		PlayerHeight: 24,
		PlayerSpeed:  5,
		PlayerOffset: 40,

		BlockSize:    16,
		MinFallSpeed: 1.5,
		MaxFallSpeed: 3.5,

		CollectibleThreshold: 0.4,
		DoubleSpawnThreshold: 0.6,

		FrameInterval:     time.Second / 60,
		SpawnInterval:     400 * time.Millisecond,
		CountdownInterval: time.Second,
		Duration:          30,

		ItemScore:      10,
		PlainScore:     1,
		ComboThreshold: 10,
		ComboBonus:     50,
	}
}

// Validate reports the first parameter that makes the game unplayable.
func (t Tuning) Validate() error {
	switch {
	case t.FieldWidth <= 0 || t.FieldHeight <= 0:
		return fmt.Errorf("%w: field must have positive size", ErrInvalidTuning)
	case t.PlayerWidth <= 0 || t.PlayerHeight <= 0:
		return fmt.Errorf("%w: player must have positive size", ErrInvalidTuning)
	case t.PlayerWidth > t.FieldWidth:
		return fmt.Errorf("%w: player wider than field", ErrInvalidTuning)
	case t.PlayerOffset < 0 || t.PlayerOffset > t.FieldHeight:
		return fmt.Errorf("%w: player offset outside field", ErrInvalidTuning)
	case t.PlayerSpeed < 0:
		return fmt.Errorf("%w: negative player speed", ErrInvalidTuning)
	case t.BlockSize <= 0 || t.BlockSize > t.FieldWidth:
		return fmt.Errorf("%w: block size must be in (0, field width]", ErrInvalidTuning)
	case t.MinFallSpeed <= 0 || t.MaxFallSpeed < t.MinFallSpeed:
		return fmt.Errorf("%w: fall speed range [%g, %g]", ErrInvalidTuning, t.MinFallSpeed, t.MaxFallSpeed)
	case t.CollectibleThreshold < 0 || t.CollectibleThreshold > 1:
		return fmt.Errorf("%w: collectible threshold outside [0,1]", ErrInvalidTuning)
	case t.DoubleSpawnThreshold < 0 || t.DoubleSpawnThreshold > 1:
		return fmt.Errorf("%w: double spawn threshold outside [0,1]", ErrInvalidTuning)
	case t.FrameInterval <= 0 || t.SpawnInterval <= 0 || t.CountdownInterval <= 0:
		return fmt.Errorf("%w: intervals must be positive", ErrInvalidTuning)
	case t.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive", ErrInvalidTuning)
	case t.ItemScore < 0 || t.PlainScore < 0 || t.ComboBonus < 0:
		return fmt.Errorf("%w: scores must not be negative", ErrInvalidTuning)
	case t.ComboThreshold <= 0:
		return fmt.Errorf("%w: combo threshold must be positive", ErrInvalidTuning)
	}
	return nil
}

// maxPlayerX is the rightmost legal player position.
func (t Tuning) maxPlayerX() float64 {
	return t.FieldWidth - t.PlayerWidth
}

// playerY is the fixed vertical position of the collector.
func (t Tuning) playerY() float64 {
	return t.FieldHeight - t.PlayerOffset
}
