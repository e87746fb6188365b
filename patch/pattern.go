package patch

import "strings"

// BassStep is one position in a bassline: a single note plus a label.
// The label prefix before the first '_' names the section the step belongs
// to (e.g. "intro_3" is step 3 of section "intro").
type BassStep struct {
	Pitch    uint8
	Velocity uint8
	Label    string
}

// Section returns the step's section tag.
func (s BassStep) Section() string {
	if i := strings.IndexByte(s.Label, '_'); i >= 0 {
		return s.Label[:i]
	}
	return s.Label
}

// DrumHit is one drum voice fired on a step.
type DrumHit struct {
	Note     uint8
	Velocity uint8
}

// Pattern is a parsed patch file: one bassline loop plus optional drums.
// Patterns are immutable once parsed - the store replaces them wholesale
// on reload and never mutates them, so holding a *Pattern across a playback
// pass is safe even if the source file changes or disappears underneath.
type Pattern struct {
	ID          string // filename stem, unique within the store
	Name        string
	Description string
	BassSteps   []BassStep
	DrumSteps   [][]DrumHit
}

// Len returns the pattern length in steps (the bassline defines it).
func (p *Pattern) Len() int { return len(p.BassSteps) }

// Playable reports whether the pattern can be selected for playback.
func (p *Pattern) Playable() bool { return len(p.BassSteps) > 0 }

// DrumHitsAt returns the drum hits for a step. Indices past the end of the
// drum sequence are silent, not an error - drum patterns may be shorter
// (or longer) than the bassline.
func (p *Pattern) DrumHitsAt(step int) []DrumHit {
	if step < 0 || step >= len(p.DrumSteps) {
		return nil
	}
	return p.DrumSteps[step]
}
