package engine

// EventType enumerates operator input the playback loop reacts to.
type EventType int

const (
	EventQuit EventType = iota
	EventResize
	EventTempoUp
	EventTempoDown
	EventSelectSlot
)

// Event is one operator input. The engine polls for at most one pending
// event per step, non-blocking - input never stalls playback.
type Event struct {
	Type EventType
	Slot rune // set for EventSelectSlot
}
