package client

import (
	"unicode/utf8"

	"github.com/tomz197/chaincollector/internal/draw"
	"github.com/tomz197/chaincollector/internal/game"
)

type textOp struct {
	col, row int
	text     string
	fg, bg   draw.RGB
}

// Surface draws engine frames onto a half-block canvas. Rectangles go to the
// canvas; text is queued and written over it on Flush.
type Surface struct {
	canvas  *draw.Canvas
	texts   []textOp
	flushed []textOp
}

// NewSurface wraps canvas.
func NewSurface(canvas *draw.Canvas) *Surface {
	return &Surface{canvas: canvas}
}

var (
	_ game.Surface       = (*Surface)(nil)
	_ game.FrameBeginner = (*Surface)(nil)
	_ game.TextMeasurer  = (*Surface)(nil)
)

// BeginFrame drops the previous frame.
func (s *Surface) BeginFrame() {
	s.canvas.Clear()
	s.texts = s.texts[:0]
}

// FillRect implements game.Surface.
func (s *Surface) FillRect(x, y, w, h float64, c game.Color) {
	s.canvas.FillRect(x, y, w, h, draw.ParseColor(string(c)))
}

// DrawText implements game.Surface. The background is sampled from the canvas
// under the first glyph so text over the HUD bar or overlay blends in.
func (s *Surface) DrawText(x, y float64, text string, c game.Color) {
	col, row := s.canvas.LogicalToTerminal(x, y-textLift)
	bg, _ := s.canvas.At(col-1, (row-1)*2)
	s.texts = append(s.texts, textOp{
		col:  col,
		row:  row,
		text: text,
		fg:   draw.ParseColor(string(c)),
		bg:   bg,
	})
}

// TextWidth implements game.TextMeasurer: one glyph per terminal column.
func (s *Surface) TextWidth(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * s.canvas.ColumnWidth()
}

// Flush renders the canvas and the queued text into cw. Text that moved or
// changed since the last flush has its cells repainted from the canvas.
func (s *Surface) Flush(cw *draw.ChunkWriter) {
	for _, old := range s.flushed {
		if !containsText(s.texts, old) {
			s.canvas.Invalidate(old.col, old.row, utf8.RuneCountInString(old.text))
		}
	}
	s.canvas.Render(cw)
	for _, t := range s.texts {
		cw.WriteColoredAt(t.col, t.row, t.text, t.fg, t.bg)
	}
	s.flushed = append(s.flushed[:0], s.texts...)
}

// Texts returns the text queued for the current frame.
func (s *Surface) Texts() []string {
	out := make([]string, len(s.texts))
	for i, t := range s.texts {
		out[i] = t.text
	}
	return out
}

func containsText(ops []textOp, op textOp) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}
