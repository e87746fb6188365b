package engine

import "acidloop/patch"

// Snapshot is one frame of playback state for the presentation layer.
// The engine emits one per step, plus an extra Redraw frame whenever the
// patch list or the queue changed and the whole screen should repaint.
type Snapshot struct {
	StepIndex  int
	TotalSteps int

	BassPitch    uint8
	BassVelocity uint8
	BassLabel    string
	DrumHits     []patch.DrumHit

	TempoBPM int

	CurrentID   string
	CurrentSlot rune
	QueuedID    string // empty when nothing is queued
	QueuedSlot  rune

	Redraw bool
}
