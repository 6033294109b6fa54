// Package tui hosts the chain collector engine on a tcell screen.
package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/chaincollector/internal/draw"
	"github.com/tomz197/chaincollector/internal/game"
)

type textOp struct {
	x, y int
	text string
	fg   tcell.Color
}

// Surface draws engine frames onto a tcell screen using half-block cells.
// Each cell holds two vertically stacked pixels.
type Surface struct {
	screen tcell.Screen

	logicalWidth  float64
	logicalHeight float64

	width, height int // cells
	offX, offY    int
	pixels        []tcell.Color // [y * width + x], y in half-cell rows
	texts         []textOp
}

// NewSurface creates a surface on screen for a field of the given logical size.
func NewSurface(screen tcell.Screen, logicalWidth, logicalHeight float64) *Surface {
	s := &Surface{
		screen:        screen,
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	s.Resize()
	return s
}

var (
	_ game.Surface       = (*Surface)(nil)
	_ game.FrameBeginner = (*Surface)(nil)
	_ game.TextMeasurer  = (*Surface)(nil)
)

// Resize refits the render area to the current screen size.
func (s *Surface) Resize() {
	cols, rows := s.screen.Size()
	w, h, offX, offY := draw.FitArea(cols, rows, s.logicalWidth/s.logicalHeight, 0, 0)
	if w != s.width || h != s.height {
		s.pixels = make([]tcell.Color, w*h*2)
	}
	s.width, s.height, s.offX, s.offY = w, h, offX, offY
}

// Size returns the render area in cells.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// BeginFrame drops the previous frame.
func (s *Surface) BeginFrame() {
	clear(s.pixels)
	s.texts = s.texts[:0]
}

func (s *Surface) scaleX() float64 { return float64(s.width) / s.logicalWidth }
func (s *Surface) scaleY() float64 { return float64(s.height*2) / s.logicalHeight }

// FillRect implements game.Surface.
func (s *Surface) FillRect(x, y, w, h float64, c game.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	sx, sy := s.scaleX(), s.scaleY()
	x0, y0 := int(math.Floor(x*sx)), int(math.Floor(y*sy))
	x1, y1 := int(math.Ceil((x+w)*sx)), int(math.Ceil((y+h)*sy))
	x1, y1 = max(x1, x0+1), max(y1, y0+1)
	x0, x1 = max(x0, 0), min(x1, s.width)
	y0, y1 = max(y0, 0), min(y1, s.height*2)

	col := toColor(c)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			s.pixels[py*s.width+px] = col
		}
	}
}

// DrawText implements game.Surface.
func (s *Surface) DrawText(x, y float64, text string, c game.Color) {
	const lift = 6.0
	s.texts = append(s.texts, textOp{
		x:    int(math.Round(x * s.scaleX())),
		y:    int(math.Round((y-lift)*s.scaleY())) / 2,
		text: text,
		fg:   toColor(c),
	})
}

// TextWidth implements game.TextMeasurer.
func (s *Surface) TextWidth(text string) float64 {
	return float64(len([]rune(text))) / s.scaleX()
}

// Show copies the frame to the screen.
func (s *Surface) Show() {
	s.screen.Clear()
	for row := 0; row < s.height; row++ {
		for col := 0; col < s.width; col++ {
			top := s.pixels[row*2*s.width+col]
			bottom := s.pixels[(row*2+1)*s.width+col]
			if top == tcell.ColorDefault && bottom == tcell.ColorDefault {
				continue
			}
			glyph, style := draw.BlockUpperHalf, tcell.StyleDefault.Foreground(top).Background(bottom)
			if top == tcell.ColorDefault {
				glyph, style = draw.BlockLowerHalf, tcell.StyleDefault.Foreground(bottom)
			}
			s.screen.SetContent(s.offX+col, s.offY+row, glyph, nil, style)
		}
	}

	for _, t := range s.texts {
		if t.y < 0 || t.y >= s.height {
			continue
		}
		col := t.x
		for _, r := range t.text {
			if col >= 0 && col < s.width {
				bg := s.pixels[t.y*2*s.width+col]
				style := tcell.StyleDefault.Foreground(t.fg).Background(bg)
				s.screen.SetContent(s.offX+col, s.offY+t.y, r, nil, style)
			}
			col++
		}
	}
	s.screen.Show()
}

// toColor converts a theme colour to a tcell true colour.
func toColor(c game.Color) tcell.Color {
	rgb := draw.ParseColor(string(c))
	return tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
}
