package input

import (
	"io"
	"time"
)

// DefaultHoldWindow is how long a movement key counts as held after its last press.
// Terminals only report repeats, so a held arrow arrives as a stream of presses.
const DefaultHoldWindow = 120 * time.Millisecond

// Key is a logical key the frontends care about.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyStart
	KeyQuit
	keyCount
)

// Input represents the current frame's input state. Left and Right are held
// states; Start and Quit are set only on the frame the key arrived.
type Input struct {
	Left    bool
	Right   bool
	Start   bool
	Quit    bool
	Pressed []byte
}

// Hold tracks the last press time of each key.
type Hold struct {
	window  time.Duration
	last    [keyCount]time.Time
	pending [keyCount]bool
}

// NewHold creates a tracker with the given hold window.
func NewHold(window time.Duration) *Hold {
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &Hold{window: window}
}

// Press records a key press at now.
func (h *Hold) Press(k Key, now time.Time) {
	if k < 0 || k >= keyCount {
		return
	}
	h.last[k] = now
	h.pending[k] = true
}

// Held reports whether k was pressed within the hold window before now.
func (h *Hold) Held(k Key, now time.Time) bool {
	t := h.last[k]
	return !t.IsZero() && now.Sub(t) < h.window
}

// Reset forgets all presses, e.g. when a new session starts.
func (h *Hold) Reset() {
	h.last = [keyCount]time.Time{}
	h.pending = [keyCount]bool{}
}

// Poll builds the frame input at now and consumes pending edge presses.
func (h *Hold) Poll(now time.Time) Input {
	in := Input{
		Left:  h.Held(KeyLeft, now),
		Right: h.Held(KeyRight, now),
		Start: h.pending[KeyStart],
		Quit:  h.pending[KeyQuit],
	}
	h.pending = [keyCount]bool{}
	return in
}

// KeyForRune maps a printable key to a logical key.
func KeyForRune(r rune) (Key, bool) {
	switch r {
	case 'a', 'A', 'h', 'H':
		return KeyLeft, true
	case 'd', 'D', 'l', 'L':
		return KeyRight, true
	case ' ', '\r', '\n':
		return KeyStart, true
	case 'q', 'Q':
		return KeyQuit, true
	}
	return 0, false
}

// EscapeTimeout is how long a trailing ESC waits for the rest of an escape
// sequence before it counts as the Escape key.
const EscapeTimeout = 50 * time.Millisecond

// Stream delivers input bytes via a channel and tracks key state.
type Stream struct {
	ch     chan byte
	hold   *Hold
	closed bool

	pending      []byte // incomplete escape sequence from earlier frames
	pendingSince time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The stream reports Quit once r is exhausted.
func StartStream(r io.Reader, window time.Duration) *Stream {
	s := &Stream{
		ch:   make(chan byte, 128),
		hold: NewHold(window),
	}
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := r.Read(buf)
			for _, b := range buf[:n] {
				s.ch <- b
			}
			if err != nil {
				close(s.ch)
				return
			}
		}
	}()
	return s
}

// ResetKeyInput clears held keys so input from a previous session does not leak.
func (s *Stream) ResetKeyInput() {
	s.hold.Reset()
}

// ReadInput drains all available bytes from the stream without blocking.
// Pressed holds only the bytes that arrived since the last call.
func (s *Stream) ReadInput(now time.Time) Input {
	var fresh []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			fresh = append(fresh, b)
		default:
			break drain
		}
	}

	buf := append(s.pending, fresh...)
	rest := Parse(s.hold, buf, now)
	carried := len(rest) > len(fresh) // started in an earlier frame
	switch {
	case len(rest) == 0:
		s.pending = nil
	case s.closed || (carried && now.Sub(s.pendingSince) >= EscapeTimeout):
		expire(s.hold, rest, now)
		s.pending = nil
	default:
		if !carried {
			s.pendingSince = now
		}
		s.pending = append([]byte(nil), rest...)
	}

	in := s.hold.Poll(now)
	in.Pressed = fresh
	if s.closed {
		in.Quit = true
	}
	return in
}

// Parse applies raw terminal bytes to h and returns the trailing bytes of an
// escape sequence that has not finished arriving. Arrow keys arrive as
// ESC [ C/D (optionally with modifier parameters) or ESC O C/D; Ctrl-C and an
// ESC followed by anything else quit.
func Parse(h *Hold, buf []byte, now time.Time) []byte {
	for i := 0; i < len(buf); {
		b := buf[i]
		switch {
		case b == '\x1b':
			n, key, ok := escape(buf[i:])
			if n == 0 {
				return buf[i:]
			}
			if ok {
				h.Press(key, now)
			}
			i += n
		case b == 0x03:
			h.Press(KeyQuit, now)
			i++
		default:
			if k, ok := KeyForRune(rune(b)); ok {
				h.Press(k, now)
			}
			i++
		}
	}
	return nil
}

// escape decodes the escape sequence at the start of seq. It returns the
// number of bytes consumed, or 0 if the sequence is still incomplete.
func escape(seq []byte) (n int, key Key, ok bool) {
	if len(seq) < 2 {
		return 0, 0, false
	}
	switch seq[1] {
	case '[':
		for j := 2; j < len(seq); j++ {
			c := seq[j]
			switch {
			case c >= 0x20 && c <= 0x3f:
				// parameter or intermediate byte
			case c >= 0x40 && c <= 0x7e:
				key, ok = arrow(c)
				return j + 1, key, ok
			default:
				// malformed; drop what was read and reparse c
				return j, 0, false
			}
		}
		return 0, 0, false
	case 'O':
		if len(seq) < 3 {
			return 0, 0, false
		}
		key, ok = arrow(seq[2])
		return 3, key, ok
	}
	return 1, KeyQuit, true
}

func arrow(final byte) (Key, bool) {
	switch final {
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return 0, false
}

// expire resolves an escape sequence that never completed. A lone ESC is the
// Escape key; a truncated sequence is dropped.
func expire(h *Hold, rest []byte, now time.Time) {
	if len(rest) == 1 {
		h.Press(KeyQuit, now)
	}
}
