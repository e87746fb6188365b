package patch

// Drum voice note numbers for the target device's rhythm section.
// Patch files carry raw note numbers; these are the conventional ones
// the generator and the display symbols understand.
const (
	NoteKick      uint8 = 36
	NoteSnare     uint8 = 38
	NoteClosedHat uint8 = 42
	NoteOpenHat   uint8 = 46
	NoteTomHigh   uint8 = 50
	NoteTomMid    uint8 = 47
	NoteTomLow    uint8 = 45
	NoteClap      uint8 = 39
)
