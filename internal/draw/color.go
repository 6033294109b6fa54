package draw

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a 24-bit colour.
type RGB struct {
	R, G, B uint8
}

var (
	colorCacheMu sync.RWMutex
	colorCache   = map[string]RGB{}
)

// ParseColor converts a "#RRGGBB" or "#RGB" hex string to RGB.
// Unparseable input yields white so a bad theme entry stays visible.
func ParseColor(hex string) RGB {
	colorCacheMu.RLock()
	c, ok := colorCache[hex]
	colorCacheMu.RUnlock()
	if ok {
		return c
	}

	parsed, err := colorful.Hex(hex)
	if err != nil {
		c = RGB{R: 255, G: 255, B: 255}
	} else {
		r, g, b := parsed.Clamped().RGB255()
		c = RGB{R: r, G: g, B: b}
	}

	colorCacheMu.Lock()
	colorCache[hex] = c
	colorCacheMu.Unlock()
	return c
}
