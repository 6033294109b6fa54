package game

// EventType identifies something that happened inside a session.
type EventType int

const (
	EventStarted        EventType = iota // Session entered the running phase
	EventSpawned                         // A block entered the field
	EventCollected                       // Collectible block caught
	EventPlainCollected                  // Plain block caught
	EventChainComplete                   // Chain threshold reached, bonus awarded
	EventChainBroken                     // Collectible block missed with a chain in progress
	EventEnded                           // Session left the running phase
)

var eventNames = [...]string{
	EventStarted:        "started",
	EventSpawned:        "spawned",
	EventCollected:      "collected",
	EventPlainCollected: "plain_collected",
	EventChainComplete:  "chain_complete",
	EventChainBroken:    "chain_broken",
	EventEnded:          "ended",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event is published to engine listeners.
type Event struct {
	Type  EventType
	Score int // Score after the event
	Combo int // Chain counter after the event
	Block Block
}

// Listener receives session events. Listeners run synchronously on the engine's goroutine.
type Listener func(Event)
