package draw

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// pixel is a packed colour; zero means unset.
type pixel uint32

const pixelSet pixel = 1 << 24

func packPixel(c RGB) pixel {
	return pixelSet | pixel(c.R)<<16 | pixel(c.G)<<8 | pixel(c.B)
}

func (p pixel) rgb() RGB {
	return RGB{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p)}
}

// Canvas is a colour drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []pixel // Flat slice: [y * termWidth + x]

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Last rendered cell contents, so unchanged cells are not re-sent.
	rendered []uint64
	fresh    bool

	renderBuf strings.Builder
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by the game.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 1 {
		termWidth = 1
	}
	if termHeight < 1 {
		termHeight = 1
	}
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]pixel, subPixelHeight*termWidth)
		c.rendered = make([]uint64, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.fresh = true
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.fresh = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render emit every cell, e.g. after the terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.fresh = true
}

// Invalidate marks width cells starting at the 1-based canvas position (col, row)
// for redraw, e.g. where an overlay was written on top of the canvas.
func (c *Canvas) Invalidate(col, row, width int) {
	if row < 1 || row > c.termHeight {
		return
	}
	start := max(col-1, 0)
	end := min(col-1+width, c.termWidth)
	for x := start; x < end; x++ {
		c.rendered[(row-1)*c.termWidth+x] = ^uint64(0)
	}
}

// FillRect fills a logical rectangle. Any non-empty rectangle covers at least one pixel.
func (c *Canvas) FillRect(x, y, w, h float64, col RGB) {
	if w <= 0 || h <= 0 {
		return
	}
	x0 := int(math.Floor(x * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	x1 := int(math.Ceil((x + w) * c.scaleX))
	y1 := int(math.Ceil((y + h) * c.scaleY))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	x0, x1 = max(x0, 0), min(x1, c.termWidth)
	y0, y1 = max(y0, 0), min(y1, c.subPixelHeight)

	p := packPixel(col)
	for py := y0; py < y1; py++ {
		row := c.pixels[py*c.termWidth : (py+1)*c.termWidth]
		for px := x0; px < x1; px++ {
			row[px] = p
		}
	}
}

// At returns the colour of a pixel in terminal sub-pixel coordinates.
func (c *Canvas) At(px, py int) (RGB, bool) {
	if px < 0 || px >= c.termWidth || py < 0 || py >= c.subPixelHeight {
		return RGB{}, false
	}
	p := c.pixels[py*c.termWidth+px]
	return p.rgb(), p != 0
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1400 bytes stays under a typical MTU for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs changed cells to the writer using coloured half-block characters.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]

			key := uint64(top)<<32 | uint64(bottom)
			cell := row*c.termWidth + col
			if !c.fresh && c.rendered[cell] == key {
				continue
			}
			c.rendered[cell] = key

			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH", row+1+c.offsetRow, col+1+c.offsetCol)
			switch {
			case top == 0 && bottom == 0:
				c.renderBuf.WriteString("\033[0m ")
			case top == bottom:
				writeFG(&c.renderBuf, top.rgb())
				c.renderBuf.WriteRune(BlockFull)
			case bottom == 0:
				c.renderBuf.WriteString("\033[49m")
				writeFG(&c.renderBuf, top.rgb())
				c.renderBuf.WriteRune(BlockUpperHalf)
			case top == 0:
				c.renderBuf.WriteString("\033[49m")
				writeFG(&c.renderBuf, bottom.rgb())
				c.renderBuf.WriteRune(BlockLowerHalf)
			default:
				writeFG(&c.renderBuf, top.rgb())
				writeBG(&c.renderBuf, bottom.rgb())
				c.renderBuf.WriteRune(BlockUpperHalf)
			}
		}
	}
	if c.renderBuf.Len() > 0 {
		c.renderBuf.WriteString("\033[0m")
	}
	c.fresh = false

	writeChunked(w, c.renderBuf.String())
}

func writeFG(b *strings.Builder, c RGB) {
	fmt.Fprintf(b, "\033[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

func writeBG(b *strings.Builder, c RGB) {
	fmt.Fprintf(b, "\033[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

// writeChunked writes data in chunks of at most maxChunkSize bytes.
func writeChunked(w io.Writer, data string) {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	if hasV {
		line := strings.Repeat("─", c.termWidth)
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, line)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, line)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, line)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, line)
		}
	}

	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// ColumnWidth returns how many logical units one terminal column spans.
func (c *Canvas) ColumnWidth() float64 {
	return 1 / c.scaleX
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas position (col, row).
// Useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// FitArea picks the largest render area (in cells) that keeps a field's aspect
// ratio inside a termWidth x termHeight terminal, and the offset that centres it.
// Cells are twice as tall as wide, so each row holds two square pixels.
func FitArea(termWidth, termHeight int, aspect float64, maxWidth, minWidth int) (width, height, offsetCol, offsetRow int) {
	width = termWidth
	if maxWidth > 0 {
		width = min(width, maxWidth)
	}
	height = int(float64(width)/aspect/2 + 0.5)
	if height > termHeight {
		height = termHeight
		width = int(float64(height)*2*aspect + 0.5)
	}
	width = max(width, min(minWidth, termWidth), 1)
	height = max(height, 1)

	offsetCol = max((termWidth-width)/2, 0)
	offsetRow = max((termHeight-height)/2, 0)
	return
}
