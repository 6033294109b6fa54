package game

import "github.com/tomz197/chaincollector/internal/physics"

// Input is the directional input held during the current frame.
type Input struct {
	Left  bool
	Right bool
}

// Rand is the randomness source for spawn decisions.
// *math/rand.Rand satisfies it; tests supply scripted sequences.
type Rand interface {
	Float64() float64
}

// Player is the collector moving along the bottom of the field.
type Player struct {
	X, Y  float64
	W, H  float64
	Speed float64
}

// Bounds returns the player's collision rectangle.
func (p Player) Bounds() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Block is a falling piece. Collectible blocks feed the chain counter.
type Block struct {
	ID          int
	X, Y        float64
	Size        float64
	Speed       float64
	Collectible bool
}

// Bounds returns the block's collision rectangle.
func (b Block) Bounds() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, W: b.Size, H: b.Size}
}

// newPlayer places the collector at the horizontal center of the field.
func newPlayer(t Tuning) Player {
	return Player{
		X:     t.FieldWidth/2 - t.PlayerWidth/2,
		Y:     t.playerY(),
		W:     t.PlayerWidth,
		H:     t.PlayerHeight,
		Speed: t.PlayerSpeed,
	}
}

// move applies held input and keeps the player inside the field.
func (p *Player) move(in Input, maxX float64) {
	if in.Left {
		p.X -= p.Speed
	}
	if in.Right {
		p.X += p.Speed
	}
	p.X = physics.Clamp(p.X, 0, maxX)
}
