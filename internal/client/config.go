package client

import "time"

// Client rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Render area. The field keeps its aspect ratio; larger terminals get a centred
// area with a border.
const (
	MaxRenderWidth = 160 // terminal columns
	MinRenderWidth = 20
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	DefaultInactivityWarn       = 90 * time.Second
	DefaultInactivityDisconnect = 120 * time.Second
)

// textLift moves a text baseline up to the row the glyphs mostly occupy.
const textLift = 6.0
