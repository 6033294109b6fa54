package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ANSI control sequences used by the terminal frontends.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
	seqAltScreen  = "\033[?1049h"
	seqMainScreen = "\033[?1049l"
	seqReset      = "\033[0m"
)

// ChunkWriter accumulates one frame of terminal output and writes it in chunks
// sized for SSH. Canvas.Render and the text overlay both write into it, then
// Flush sends the frame.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte // scratch for allocation-free integer formatting
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. offsetCol and offsetRow
// are added to all cursor positions.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset (e.g. after terminal resize).
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor appends an ANSI cursor position sequence. col and row are 1-based
// canvas coordinates.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.writeInt(row + cw.offRow)
	cw.buf.WriteByte(';')
	cw.writeInt(col + cw.offCol)
	cw.buf.WriteByte('H')
}

// SetForeground appends a 24-bit foreground colour sequence.
func (cw *ChunkWriter) SetForeground(c RGB) {
	cw.colour("\033[38;2;", c)
}

// SetBackground appends a 24-bit background colour sequence.
func (cw *ChunkWriter) SetBackground(c RGB) {
	cw.colour("\033[48;2;", c)
}

func (cw *ChunkWriter) colour(prefix string, c RGB) {
	cw.buf.WriteString(prefix)
	cw.writeInt(int(c.R))
	cw.buf.WriteByte(';')
	cw.writeInt(int(c.G))
	cw.buf.WriteByte(';')
	cw.writeInt(int(c.B))
	cw.buf.WriteByte('m')
}

func (cw *ChunkWriter) writeInt(n int) {
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(n), 10))
}

// ResetStyle appends the SGR reset sequence.
func (cw *ChunkWriter) ResetStyle() {
	cw.buf.WriteString(seqReset)
}

// Write implements io.Writer for use with Canvas.Render.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes a string at a 1-based canvas position.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteColoredAt writes a string at a 1-based canvas position using fg on bg.
func (cw *ChunkWriter) WriteColoredAt(col, row int, s string, fg, bg RGB) {
	cw.MoveCursor(col, row)
	cw.SetForeground(fg)
	cw.SetBackground(bg)
	cw.buf.WriteString(s)
	cw.buf.WriteString(seqReset)
}

// Len returns the number of buffered bytes.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EnterScreen switches to the alternate screen, clears it and hides the cursor.
func EnterScreen(w io.Writer) {
	io.WriteString(w, seqAltScreen+seqClear+seqHideCursor)
}

// LeaveScreen restores the cursor and the main screen.
func LeaveScreen(w io.Writer) {
	io.WriteString(w, seqReset+seqShowCursor+seqMainScreen)
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	io.WriteString(w, seqReset+seqClear)
}
