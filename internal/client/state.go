package client

import "time"

// Screen is the client's current screen.
type Screen int

const (
	ScreenLaunch   Screen = iota // Title screen, engine hidden
	ScreenGame                   // Engine visible: running or showing the summary
	ScreenShutdown               // Server is shutting down
)

// State holds per-connection UI state. The game itself lives in the engine.
type State struct {
	Screen        Screen
	prevScreen    Screen
	Running       bool
	delta         time.Duration
	shutdownTimer float64 // Seconds before auto-disconnect on shutdown
	isInactive    bool
	wasInactive   bool
	record        Record // Latest best score announced by the hub
}

// NewState creates a new initialized client state.
func NewState() *State {
	return &State{
		Screen:  ScreenLaunch,
		Running: true,
	}
}
