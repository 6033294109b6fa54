package game

import "fmt"

// Color is a "#RRGGBB" hex colour. Surfaces convert it to their native format.
type Color string

// Theme colours.
const (
	ColorNeon       Color = "#00FF66"
	ColorInk        Color = "#000000"
	ColorPaper      Color = "#FFFFFF"
	ColorDimmed     Color = "#1A1A1A"
	ColorChainInner Color = "#00CC52"
	ColorDanger     Color = "#FF3333"
	ColorOverlay    Color = "#080808"
	ColorFaded      Color = "#808080"
)

// Surface is the drawing contract a frontend provides. Coordinates are logical
// field units with the origin at the top-left corner; text is anchored at its
// left baseline.
type Surface interface {
	FillRect(x, y, w, h float64, c Color)
	DrawText(x, y float64, text string, c Color)
}

// FrameBeginner is implemented by surfaces that buffer a frame and need to
// drop the previous one before a full redraw.
type FrameBeginner interface {
	BeginFrame()
}

// TextMeasurer is implemented by surfaces that know how wide text renders.
// Without it, text width is estimated from defaultGlyphWidth.
type TextMeasurer interface {
	TextWidth(text string) float64
}

const defaultGlyphWidth = 8.0

// HUD layout
const (
	chainBarWidth  = 120.0
	chainBarHeight = 12.0
	hudMargin      = 10.0
	bottomLineGap  = 10.0
)

// Render draws a running or frozen frame. Pure projection of snap.
func Render(snap Snapshot, t Tuning, surface Surface) {
	if surface == nil {
		return
	}
	if fb, ok := surface.(FrameBeginner); ok {
		fb.BeginFrame()
	}

	drawBackground(surface, t)
	for _, b := range snap.Blocks {
		drawBlock(surface, b)
	}
	drawPlayer(surface, snap.Player)
	drawHUD(surface, snap, t)

	if snap.Phase == PhaseEnded {
		drawSummary(surface, snap.Summary, t)
	}
}

func drawBackground(s Surface, t Tuning) {
	s.FillRect(0, 0, t.FieldWidth, t.FieldHeight, ColorInk)
	s.FillRect(0, t.FieldHeight-bottomLineGap-1, t.FieldWidth, 2, ColorNeon)
}

func drawBlock(s Surface, b Block) {
	outer, inner := ColorPaper, ColorDimmed
	if b.Collectible {
		outer, inner = ColorNeon, ColorChainInner
	}
	s.FillRect(b.X, b.Y, b.Size, b.Size, outer)
	s.FillRect(b.X+2, b.Y+2, b.Size-4, b.Size-4, inner)
	if b.Collectible {
		// Link symbol
		s.FillRect(b.X+6, b.Y+6, 4, 4, ColorNeon)
	}
}

func drawPlayer(s Surface, p Player) {
	s.FillRect(p.X, p.Y, p.W, p.H, ColorNeon)
	s.FillRect(p.X+4, p.Y-4, p.W-8, 4, ColorNeon)
	// Eyes
	s.FillRect(p.X+8, p.Y+6, 4, 4, ColorInk)
	s.FillRect(p.X+p.W-12, p.Y+6, 4, 4, ColorInk)
}

func drawHUD(s Surface, snap Snapshot, t Tuning) {
	s.DrawText(hudMargin, 22, fmt.Sprintf("SCORE: %d", snap.Score), ColorPaper)
	s.DrawText(hudMargin, 40, fmt.Sprintf("TIME: %ds", snap.TimeRemaining), ColorPaper)

	barX := t.FieldWidth - chainBarWidth - hudMargin
	barY := hudMargin
	filled := float64(snap.Combo) / float64(t.ComboThreshold)
	if filled > 1 {
		filled = 1
	}

	s.FillRect(barX, barY, chainBarWidth, chainBarHeight, ColorDimmed)
	if filled > 0 {
		s.FillRect(barX, barY, filled*chainBarWidth, chainBarHeight, ColorNeon)
	}
	s.DrawText(barX, barY+chainBarHeight+12, fmt.Sprintf("CHAIN: %d/%d", snap.Combo, t.ComboThreshold), ColorPaper)
}

func drawSummary(s Surface, sum Summary, t Tuning) {
	s.FillRect(0, 0, t.FieldWidth, t.FieldHeight, ColorOverlay)

	cx := t.FieldWidth / 2
	cy := t.FieldHeight / 2
	drawCentered(s, cx, cy-20, "GAME OVER", ColorNeon)
	drawCentered(s, cx, cy+15, fmt.Sprintf("FINAL SCORE: %d", sum.Score), ColorPaper)
	drawCentered(s, cx, cy+45, "PRESS ENTER TO PLAY AGAIN", ColorFaded)
}

func drawCentered(s Surface, cx, y float64, text string, c Color) {
	var w float64
	if m, ok := s.(TextMeasurer); ok {
		w = m.TextWidth(text)
	} else {
		w = float64(len(text)) * defaultGlyphWidth
	}
	s.DrawText(cx-w/2, y, text, c)
}
